package repos

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/markoori/variant-backend/internal/db"
	"github.com/markoori/variant-backend/internal/domain"
	"github.com/markoori/variant-backend/internal/platform/logger"
)

type ExperimentRepo interface {
	Create(ctx context.Context, exp *domain.Experiment) (bson.ObjectID, error)
	List(ctx context.Context) ([]*domain.Experiment, error)
	ListByStatus(ctx context.Context, status string) ([]*domain.Experiment, error)
	// GetByKey returns (nil, nil) when no experiment has the key.
	GetByKey(ctx context.Context, key string) (*domain.Experiment, error)
	// UpdateByKey applies a partial $set; untouched fields keep their
	// prior values. Returns false when the key matched nothing.
	UpdateByKey(ctx context.Context, key string, fields bson.M) (bool, error)
	DeleteByKey(ctx context.Context, key string) (bool, error)
}

type experimentRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewExperimentRepo(database *mongo.Database, baseLog *logger.Logger) ExperimentRepo {
	return &experimentRepo{
		coll: database.Collection(db.ExperimentsCollection),
		log:  baseLog.With("repo", "ExperimentRepo"),
	}
}

func (r *experimentRepo) Create(ctx context.Context, exp *domain.Experiment) (bson.ObjectID, error) {
	res, err := r.coll.InsertOne(ctx, exp)
	if err != nil {
		return bson.NilObjectID, err
	}
	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return bson.NilObjectID, errors.New("unexpected inserted id type")
	}
	return id, nil
}

func (r *experimentRepo) List(ctx context.Context) ([]*domain.Experiment, error) {
	return r.find(ctx, bson.M{})
}

func (r *experimentRepo) ListByStatus(ctx context.Context, status string) ([]*domain.Experiment, error) {
	return r.find(ctx, bson.M{"status": status})
}

func (r *experimentRepo) find(ctx context.Context, filter bson.M) ([]*domain.Experiment, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var results []*domain.Experiment
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *experimentRepo) GetByKey(ctx context.Context, key string) (*domain.Experiment, error) {
	var exp domain.Experiment
	err := r.coll.FindOne(ctx, bson.M{"key": key}).Decode(&exp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &exp, nil
}

func (r *experimentRepo) UpdateByKey(ctx context.Context, key string, fields bson.M) (bool, error) {
	res, err := r.coll.UpdateOne(ctx, bson.M{"key": key}, bson.M{"$set": fields})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *experimentRepo) DeleteByKey(ctx context.Context, key string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"key": key})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
