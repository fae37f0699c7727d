package services

import (
	"context"

	"github.com/markoori/variant-backend/internal/platform/apierr"
	"github.com/markoori/variant-backend/internal/platform/logger"
	"github.com/markoori/variant-backend/internal/repos"
)

// Summary holds per-variant counts grouped from raw events. Only variant
// names that actually appear in events are present; a variant with zero
// events is absent, not zero.
type Summary struct {
	ExperimentName     string                `json:"experiment_name"`
	AggregatedVariants []repos.VariantCounts `json:"aggregated_variants"`
}

type ReportingService interface {
	Summarize(ctx context.Context, experimentKey string) (*Summary, error)
	// ResetStats bulk-deletes every event recorded for the experiment,
	// across all historical identifier representations.
	ResetStats(ctx context.Context, experimentKey string) (int64, error)
}

type reportingService struct {
	log            *logger.Logger
	experimentRepo repos.ExperimentRepo
	eventRepo      repos.EventRepo
}

func NewReportingService(baseLog *logger.Logger, experimentRepo repos.ExperimentRepo, eventRepo repos.EventRepo) ReportingService {
	return &reportingService{
		log:            baseLog.With("service", "ReportingService"),
		experimentRepo: experimentRepo,
		eventRepo:      eventRepo,
	}
}

func (s *reportingService) Summarize(ctx context.Context, experimentKey string) (*Summary, error) {
	exp, err := s.experimentRepo.GetByKey(ctx, experimentKey)
	if err != nil {
		s.log.Warn("Summarize: lookup failed", "error", err, "key", experimentKey)
		return nil, err
	}
	if exp == nil {
		return nil, apierr.NotFound("experiment %q not found", experimentKey)
	}

	counts, err := s.eventRepo.AggregateByExperimentID(ctx, exp.ID)
	if err != nil {
		s.log.Warn("Summarize: aggregation failed", "error", err, "key", experimentKey)
		return nil, err
	}
	if counts == nil {
		counts = []repos.VariantCounts{}
	}
	return &Summary{
		ExperimentName:     exp.Name,
		AggregatedVariants: counts,
	}, nil
}

func (s *reportingService) ResetStats(ctx context.Context, experimentKey string) (int64, error) {
	exp, err := s.experimentRepo.GetByKey(ctx, experimentKey)
	if err != nil {
		s.log.Warn("ResetStats: lookup failed", "error", err, "key", experimentKey)
		return 0, err
	}
	if exp == nil {
		return 0, apierr.NotFound("experiment %q not found", experimentKey)
	}

	deleted, err := s.eventRepo.DeleteByExperimentID(ctx, exp.ID)
	if err != nil {
		s.log.Warn("ResetStats: delete failed", "error", err, "key", experimentKey)
		return 0, err
	}
	s.log.Info("ResetStats: cleared events", "key", experimentKey, "count", deleted)
	return deleted, nil
}
