package repos

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/markoori/variant-backend/internal/db"
	"github.com/markoori/variant-backend/internal/domain"
	"github.com/markoori/variant-backend/internal/platform/logger"
)

// VariantCounts is one aggregation group: the distinct variant_name with
// its per-event-type tallies. Events carrying neither canonical name
// still show up in Total.
type VariantCounts struct {
	VariantName string `bson:"_id" json:"_id"`
	Exposures   int64  `bson:"exposures" json:"exposures"`
	Conversions int64  `bson:"conversions" json:"conversions"`
	Total       int64  `bson:"total" json:"total"`
}

type EventRepo interface {
	// Append records an event as-is. No validation against a live
	// experiment, no deduplication; retried track calls write duplicates.
	Append(ctx context.Context, event *domain.Event) error
	// DeleteByExperimentID removes events stored under every historical
	// representation of the identifier and reports how many went away.
	DeleteByExperimentID(ctx context.Context, id bson.ObjectID) (int64, error)
	// AggregateByExperimentID groups matching events by variant_name.
	// Variants with zero events are absent from the result.
	AggregateByExperimentID(ctx context.Context, id bson.ObjectID) ([]VariantCounts, error)
}

type eventRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewEventRepo(database *mongo.Database, baseLog *logger.Logger) EventRepo {
	return &eventRepo{
		coll: database.Collection(db.EventsCollection),
		log:  baseLog.With("repo", "EventRepo"),
	}
}

func (r *eventRepo) Append(ctx context.Context, event *domain.Event) error {
	_, err := r.coll.InsertOne(ctx, event)
	return err
}

func (r *eventRepo) DeleteByExperimentID(ctx context.Context, id bson.ObjectID) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, eventResetFilter(id))
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *eventRepo) AggregateByExperimentID(ctx context.Context, id bson.ObjectID) ([]VariantCounts, error) {
	cursor, err := r.coll.Aggregate(ctx, aggregationPipeline(id))
	if err != nil {
		return nil, err
	}
	var results []VariantCounts
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func aggregationPipeline(id bson.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$match", Value: eventMatchFilter(id)}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$variant_name"},
			{Key: "exposures", Value: countWhere(domain.EventExposure)},
			{Key: "conversions", Value: countWhere(domain.EventConversion)},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
}

func countWhere(eventName string) bson.D {
	return bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{
		bson.D{{Key: "$eq", Value: bson.A{"$event_name", eventName}}},
		1,
		0,
	}}}}}
}
