package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/markoori/variant-backend/internal/platform/envutil"
	"github.com/markoori/variant-backend/internal/platform/logger"
)

const (
	ExperimentsCollection = "experiments"
	EventsCollection      = "events"
)

type MongoService struct {
	client *mongo.Client
	db     *mongo.Database
	log    *logger.Logger
}

// NewMongoService connects to the document store named by MONGO_URI. A
// missing URI is a configuration error: the process has nothing to run
// against and must not start.
func NewMongoService(log *logger.Logger) (*MongoService, error) {
	serviceLog := log.With("service", "MongoService")

	uri := envutil.String("MONGO_URI", "")
	if uri == "" {
		return nil, fmt.Errorf("missing MONGO_URI")
	}
	dbName := envutil.String("MONGO_DB", "variant_db")

	serviceLog.Info("Connecting to MongoDB...", "database", dbName)
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		serviceLog.Error("Failed to connect to MongoDB", "error", err)
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		serviceLog.Error("MongoDB ping failed", "error", err)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoService{
		client: client,
		db:     client.Database(dbName),
		log:    serviceLog,
	}, nil
}

func (s *MongoService) DB() *mongo.Database { return s.db }

// EnsureIndexes backs the key-uniqueness guarantee for experiment lookups.
// Events are intentionally unindexed here: the write path is append-only
// and the contract does not require read-side indexes.
func (s *MongoService) EnsureIndexes(ctx context.Context) error {
	s.log.Info("Ensuring MongoDB indexes...")
	_, err := s.db.Collection(ExperimentsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		s.log.Error("Failed to create experiments.key index", "error", err)
		return fmt.Errorf("create experiments.key index: %w", err)
	}
	return nil
}

func (s *MongoService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
