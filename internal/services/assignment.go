package services

import (
	"context"

	"github.com/markoori/variant-backend/internal/assign"
	"github.com/markoori/variant-backend/internal/domain"
	"github.com/markoori/variant-backend/internal/platform/apierr"
	"github.com/markoori/variant-backend/internal/platform/logger"
	"github.com/markoori/variant-backend/internal/repos"
)

// Assignment is what a client receives for one active experiment: the
// experiment identifier, its lookup key, and the selected variant payload.
type Assignment struct {
	ExperimentID string `json:"experimentId"`
	Key          string `json:"key"`
	Value        any    `json:"value"`
}

// ActiveExperimentCache is an optional read-through cache of the active
// experiment list. The redis client implements it; a nil cache means
// every call hits the repository.
type ActiveExperimentCache interface {
	Get(ctx context.Context) ([]*domain.Experiment, bool)
	Set(ctx context.Context, experiments []*domain.Experiment)
	Invalidate(ctx context.Context)
}

type AssignmentService interface {
	GetAssignments(ctx context.Context, userID string) ([]Assignment, error)
}

type assignmentService struct {
	log            *logger.Logger
	experimentRepo repos.ExperimentRepo
	cache          ActiveExperimentCache
}

func NewAssignmentService(baseLog *logger.Logger, experimentRepo repos.ExperimentRepo, cache ActiveExperimentCache) AssignmentService {
	return &assignmentService{
		log:            baseLog.With("service", "AssignmentService"),
		experimentRepo: experimentRepo,
		cache:          cache,
	}
}

// GetAssignments buckets the user into every active experiment. One
// snapshot of the active set is used for the whole call, so two calls
// with no intervening state change return identical results.
func (s *assignmentService) GetAssignments(ctx context.Context, userID string) ([]Assignment, error) {
	if userID == "" {
		return nil, apierr.Validation("userId is required")
	}

	experiments, err := s.activeExperiments(ctx)
	if err != nil {
		s.log.Warn("GetAssignments: load active experiments failed", "error", err)
		return nil, err
	}

	assignments := make([]Assignment, 0, len(experiments))
	for _, exp := range experiments {
		expID := exp.ID.Hex()
		bucket := assign.Bucket(userID, expID)
		variant, err := assign.Select(exp.Variants, bucket)
		if err != nil {
			// Persistence invariant violated (no variants). Fail the
			// request rather than hand the client a placeholder.
			s.log.Error("GetAssignments: experiment has no variants", "experiment_key", exp.Key, "experiment_id", expID)
			return nil, err
		}
		assignments = append(assignments, Assignment{
			ExperimentID: expID,
			Key:          exp.Key,
			Value:        variant.Value,
		})
	}
	return assignments, nil
}

func (s *assignmentService) activeExperiments(ctx context.Context) ([]*domain.Experiment, error) {
	if s.cache != nil {
		if experiments, ok := s.cache.Get(ctx); ok {
			return experiments, nil
		}
	}
	experiments, err := s.experimentRepo.ListByStatus(ctx, domain.StatusActive)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, experiments)
	}
	return experiments, nil
}
