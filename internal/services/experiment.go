package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/markoori/variant-backend/internal/domain"
	"github.com/markoori/variant-backend/internal/platform/apierr"
	"github.com/markoori/variant-backend/internal/platform/logger"
	"github.com/markoori/variant-backend/internal/repos"
)

type CreateExperimentInput struct {
	Name     string           `json:"name"`
	Key      string           `json:"key"`
	Variants []domain.Variant `json:"variants"`
}

// UpdateExperimentInput is a partial update: nil fields stay untouched.
type UpdateExperimentInput struct {
	Status   *string          `json:"status"`
	Variants []domain.Variant `json:"variants"`
}

type ExperimentService interface {
	Create(ctx context.Context, input CreateExperimentInput) (string, error)
	List(ctx context.Context) ([]*domain.Experiment, error)
	// Update applies status and/or variants; last write wins on the
	// fields it touches.
	Update(ctx context.Context, key string, input UpdateExperimentInput) error
	// Delete removes the experiment document only. Events survive and
	// are cleared solely by ReportingService.ResetStats.
	Delete(ctx context.Context, key string) error
}

type experimentService struct {
	log            *logger.Logger
	experimentRepo repos.ExperimentRepo
	cache          ActiveExperimentCache
}

func NewExperimentService(baseLog *logger.Logger, experimentRepo repos.ExperimentRepo, cache ActiveExperimentCache) ExperimentService {
	return &experimentService{
		log:            baseLog.With("service", "ExperimentService"),
		experimentRepo: experimentRepo,
		cache:          cache,
	}
}

func (s *experimentService) Create(ctx context.Context, input CreateExperimentInput) (string, error) {
	if input.Key == "" {
		return "", apierr.Validation("key is required")
	}
	if input.Name == "" {
		return "", apierr.Validation("name is required")
	}
	if err := domain.ValidateVariants(input.Variants); err != nil {
		return "", apierr.Validation("%s", err.Error())
	}

	exp := &domain.Experiment{
		Key:       input.Key,
		Name:      input.Name,
		Status:    domain.StatusActive,
		Variants:  input.Variants,
		CreatedAt: time.Now().UTC(),
	}
	id, err := s.experimentRepo.Create(ctx, exp)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apierr.Validation("experiment key %q already exists", input.Key)
		}
		s.log.Warn("Create: insert failed", "error", err, "key", input.Key)
		return "", err
	}
	s.invalidate(ctx)
	return id.Hex(), nil
}

func (s *experimentService) List(ctx context.Context) ([]*domain.Experiment, error) {
	return s.experimentRepo.List(ctx)
}

func (s *experimentService) Update(ctx context.Context, key string, input UpdateExperimentInput) error {
	fields := bson.M{}
	if input.Status != nil {
		if !domain.ValidStatus(*input.Status) {
			return apierr.Validation("invalid status %q", *input.Status)
		}
		fields["status"] = *input.Status
	}
	if input.Variants != nil {
		if err := domain.ValidateVariants(input.Variants); err != nil {
			return apierr.Validation("%s", err.Error())
		}
		fields["variants"] = input.Variants
	}
	if len(fields) == 0 {
		return apierr.Validation("no valid fields to update")
	}

	matched, err := s.experimentRepo.UpdateByKey(ctx, key, fields)
	if err != nil {
		s.log.Warn("Update: update failed", "error", err, "key", key)
		return err
	}
	if !matched {
		return apierr.NotFound("experiment %q not found", key)
	}
	s.invalidate(ctx)
	return nil
}

func (s *experimentService) Delete(ctx context.Context, key string) error {
	deleted, err := s.experimentRepo.DeleteByKey(ctx, key)
	if err != nil {
		s.log.Warn("Delete: delete failed", "error", err, "key", key)
		return err
	}
	if !deleted {
		return apierr.NotFound("experiment %q not found", key)
	}
	s.invalidate(ctx)
	return nil
}

func (s *experimentService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}
