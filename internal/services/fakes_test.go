package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/markoori/variant-backend/internal/domain"
	"github.com/markoori/variant-backend/internal/repos"
)

type fakeExperimentRepo struct {
	experiments []*domain.Experiment
	createErr   error
	listErr     error
	updated     map[string]bson.M
	deletedKeys []string
}

func (f *fakeExperimentRepo) Create(ctx context.Context, exp *domain.Experiment) (bson.ObjectID, error) {
	if f.createErr != nil {
		return bson.NilObjectID, f.createErr
	}
	exp.ID = bson.NewObjectID()
	f.experiments = append(f.experiments, exp)
	return exp.ID, nil
}

func (f *fakeExperimentRepo) List(ctx context.Context) ([]*domain.Experiment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.experiments, nil
}

func (f *fakeExperimentRepo) ListByStatus(ctx context.Context, status string) ([]*domain.Experiment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.Experiment
	for _, exp := range f.experiments {
		if exp.Status == status {
			out = append(out, exp)
		}
	}
	return out, nil
}

func (f *fakeExperimentRepo) GetByKey(ctx context.Context, key string) (*domain.Experiment, error) {
	for _, exp := range f.experiments {
		if exp.Key == key {
			return exp, nil
		}
	}
	return nil, nil
}

func (f *fakeExperimentRepo) UpdateByKey(ctx context.Context, key string, fields bson.M) (bool, error) {
	if f.updated == nil {
		f.updated = map[string]bson.M{}
	}
	for _, exp := range f.experiments {
		if exp.Key == key {
			f.updated[key] = fields
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeExperimentRepo) DeleteByKey(ctx context.Context, key string) (bool, error) {
	for i, exp := range f.experiments {
		if exp.Key == key {
			f.experiments = append(f.experiments[:i], f.experiments[i+1:]...)
			f.deletedKeys = append(f.deletedKeys, key)
			return true, nil
		}
	}
	return false, nil
}

// storedEvent models the historical shapes of the experiment reference:
// ref is either the hex string or a native ObjectID, and legacy marks the
// old "experimentId" field name.
type storedEvent struct {
	ref     any
	legacy  bool
	variant string
	event   string
}

type fakeEventRepo struct {
	events    []storedEvent
	appended  []*domain.Event
	appendErr error
}

func (f *fakeEventRepo) Append(ctx context.Context, event *domain.Event) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, event)
	f.events = append(f.events, storedEvent{
		ref:     event.ExperimentID,
		variant: event.VariantName,
		event:   event.EventName,
	})
	return nil
}

func (f *fakeEventRepo) matches(ev storedEvent, id bson.ObjectID, includeLegacy bool) bool {
	if ev.legacy && !includeLegacy {
		return false
	}
	switch ref := ev.ref.(type) {
	case string:
		return ref == id.Hex()
	case bson.ObjectID:
		return ref == id
	}
	return false
}

func (f *fakeEventRepo) DeleteByExperimentID(ctx context.Context, id bson.ObjectID) (int64, error) {
	var kept []storedEvent
	var deleted int64
	for _, ev := range f.events {
		if f.matches(ev, id, true) {
			deleted++
			continue
		}
		kept = append(kept, ev)
	}
	f.events = kept
	return deleted, nil
}

func (f *fakeEventRepo) AggregateByExperimentID(ctx context.Context, id bson.ObjectID) ([]repos.VariantCounts, error) {
	byVariant := map[string]*repos.VariantCounts{}
	var order []string
	for _, ev := range f.events {
		if !f.matches(ev, id, false) {
			continue
		}
		group, ok := byVariant[ev.variant]
		if !ok {
			group = &repos.VariantCounts{VariantName: ev.variant}
			byVariant[ev.variant] = group
			order = append(order, ev.variant)
		}
		group.Total++
		switch ev.event {
		case domain.EventExposure:
			group.Exposures++
		case domain.EventConversion:
			group.Conversions++
		}
	}
	out := make([]repos.VariantCounts, 0, len(order))
	for _, name := range order {
		out = append(out, *byVariant[name])
	}
	return out, nil
}

type fakeCache struct {
	entries     []*domain.Experiment
	populated   bool
	gets        int
	hits        int
	sets        int
	invalidates int
}

func (f *fakeCache) Get(ctx context.Context) ([]*domain.Experiment, bool) {
	f.gets++
	if !f.populated {
		return nil, false
	}
	f.hits++
	return f.entries, true
}

func (f *fakeCache) Set(ctx context.Context, experiments []*domain.Experiment) {
	f.sets++
	f.entries = experiments
	f.populated = true
}

func (f *fakeCache) Invalidate(ctx context.Context) {
	f.invalidates++
	f.entries = nil
	f.populated = false
}

func activeExperiment(key string, percentages ...int) *domain.Experiment {
	exp := &domain.Experiment{
		ID:     bson.NewObjectID(),
		Key:    key,
		Name:   "Experiment " + key,
		Status: domain.StatusActive,
	}
	for i, p := range percentages {
		exp.Variants = append(exp.Variants, domain.Variant{
			Name:              fmt.Sprintf("v%d", i),
			Value:             fmt.Sprintf("value-%d", i),
			TrafficPercentage: p,
		})
	}
	return exp
}
