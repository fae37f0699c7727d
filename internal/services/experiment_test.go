package services

import (
	"context"
	"errors"
	"testing"

	"github.com/markoori/variant-backend/internal/domain"
	"github.com/markoori/variant-backend/internal/platform/apierr"
)

func TestCreateExperiment(t *testing.T) {
	repo := &fakeExperimentRepo{}
	cache := &fakeCache{populated: true}
	svc := NewExperimentService(testLogger(t), repo, cache)

	id, err := svc.Create(context.Background(), CreateExperimentInput{
		Name: "Button color",
		Key:  "btn_color",
		Variants: []domain.Variant{
			{Value: "red", TrafficPercentage: 60},
			{Value: "blue", TrafficPercentage: 40},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatalf("expected non-empty id")
	}
	if len(repo.experiments) != 1 {
		t.Fatalf("want 1 persisted experiment, got %d", len(repo.experiments))
	}
	exp := repo.experiments[0]
	if exp.Status != domain.StatusActive {
		t.Fatalf("new experiments start active, got %q", exp.Status)
	}
	if exp.CreatedAt.IsZero() {
		t.Fatalf("created_at must be set")
	}
	if cache.invalidates != 1 {
		t.Fatalf("create must invalidate the config cache, invalidates=%d", cache.invalidates)
	}
}

func TestCreateExperimentRejectsBadSplit(t *testing.T) {
	svc := NewExperimentService(testLogger(t), &fakeExperimentRepo{}, nil)
	_, err := svc.Create(context.Background(), CreateExperimentInput{
		Name: "Button color",
		Key:  "btn_color",
		Variants: []domain.Variant{
			{Value: "red", TrafficPercentage: 60},
			{Value: "blue", TrafficPercentage: 39},
		},
	})
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != 400 {
		t.Fatalf("want 400 validation error for sum 99, got %v", err)
	}
}

func TestCreateExperimentRequiresKeyAndName(t *testing.T) {
	svc := NewExperimentService(testLogger(t), &fakeExperimentRepo{}, nil)
	variants := []domain.Variant{{Value: "on", TrafficPercentage: 100}}

	if _, err := svc.Create(context.Background(), CreateExperimentInput{Name: "x", Variants: variants}); err == nil {
		t.Fatalf("expected error for missing key")
	}
	if _, err := svc.Create(context.Background(), CreateExperimentInput{Key: "x", Variants: variants}); err == nil {
		t.Fatalf("expected error for missing name")
	}
}

func TestUpdateExperimentPartial(t *testing.T) {
	exp := activeExperiment("tweakable", 100)
	repo := &fakeExperimentRepo{experiments: []*domain.Experiment{exp}}
	cache := &fakeCache{populated: true}
	svc := NewExperimentService(testLogger(t), repo, cache)

	paused := domain.StatusPaused
	if err := svc.Update(context.Background(), "tweakable", UpdateExperimentInput{Status: &paused}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	fields := repo.updated["tweakable"]
	if fields["status"] != domain.StatusPaused {
		t.Fatalf("status not included in update: %v", fields)
	}
	if _, ok := fields["variants"]; ok {
		t.Fatalf("untouched variants must not be written: %v", fields)
	}
	if cache.invalidates != 1 {
		t.Fatalf("update must invalidate the config cache")
	}
}

func TestUpdateExperimentValidatesVariants(t *testing.T) {
	exp := activeExperiment("tweakable", 100)
	svc := NewExperimentService(testLogger(t), &fakeExperimentRepo{experiments: []*domain.Experiment{exp}}, nil)

	err := svc.Update(context.Background(), "tweakable", UpdateExperimentInput{
		Variants: []domain.Variant{{Value: "solo", TrafficPercentage: 80}},
	})
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != 400 {
		t.Fatalf("want 400 for variants summing to 80, got %v", err)
	}
}

func TestUpdateExperimentNoFields(t *testing.T) {
	exp := activeExperiment("tweakable", 100)
	svc := NewExperimentService(testLogger(t), &fakeExperimentRepo{experiments: []*domain.Experiment{exp}}, nil)

	err := svc.Update(context.Background(), "tweakable", UpdateExperimentInput{})
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != 400 {
		t.Fatalf("want 400 for empty update, got %v", err)
	}
}

func TestUpdateExperimentUnknownKey(t *testing.T) {
	svc := NewExperimentService(testLogger(t), &fakeExperimentRepo{}, nil)
	paused := domain.StatusPaused
	err := svc.Update(context.Background(), "ghost", UpdateExperimentInput{Status: &paused})
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != 404 {
		t.Fatalf("want 404, got %v", err)
	}
}

func TestDeleteExperimentUnknownKey(t *testing.T) {
	svc := NewExperimentService(testLogger(t), &fakeExperimentRepo{}, nil)
	err := svc.Delete(context.Background(), "ghost")
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != 404 {
		t.Fatalf("want 404, got %v", err)
	}
}
