package services

import (
	"context"
	"time"

	"github.com/markoori/variant-backend/internal/domain"
	"github.com/markoori/variant-backend/internal/platform/logger"
	"github.com/markoori/variant-backend/internal/repos"
)

// TrackInput mirrors the track request body. Absent fields are stored as
// empty strings; nothing at this layer is required to be present.
type TrackInput struct {
	UserID       string `json:"userId"`
	ExperimentID string `json:"experimentId"`
	VariantName  string `json:"variantName"`
	Event        string `json:"event"`
}

type TrackingService interface {
	Record(ctx context.Context, input TrackInput) error
}

type trackingService struct {
	log       *logger.Logger
	eventRepo repos.EventRepo
}

func NewTrackingService(baseLog *logger.Logger, eventRepo repos.EventRepo) TrackingService {
	return &trackingService{
		log:       baseLog.With("service", "TrackingService"),
		eventRepo: eventRepo,
	}
}

// Record is a fire-and-forget append: the experiment reference is stored
// as sent, never revalidated, and retries write duplicate events.
func (s *trackingService) Record(ctx context.Context, input TrackInput) error {
	event := &domain.Event{
		UserID:       input.UserID,
		ExperimentID: input.ExperimentID,
		VariantName:  input.VariantName,
		EventName:    input.Event,
		Timestamp:    time.Now().UTC(),
	}
	if err := s.eventRepo.Append(ctx, event); err != nil {
		s.log.Warn("Record: append failed", "error", err, "experiment_id", input.ExperimentID)
		return err
	}
	return nil
}
