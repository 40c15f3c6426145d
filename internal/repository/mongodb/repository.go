package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a lookup by key matches no document.
var ErrNotFound = errors.New("document not found")

const (
	deliveriesCollection   = "bowser_details"
	tankReadingsCollection = "tank_readings"
	scansCollection        = "scanned_texts"
	cashbookCollection     = "cashbook"
	attendanceCollection   = "attendance"
	reportsCollection      = "daily_reports"
)

// MongoDBRepository is the station's document store.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// NewMongoDBRepository connects to MongoDB and verifies the connection.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return NewFromClient(client, dbName, logger), nil
}

// NewFromClient wraps an already connected client.
func NewFromClient(client *mongo.Client, dbName string, logger *zap.Logger) *MongoDBRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MongoDBRepository{
		client: client,
		db:     client.Database(dbName),
		logger: logger,
	}
}

// EnsureIndexes creates the lookup and uniqueness indexes the repository relies on.
func (r *MongoDBRepository) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		deliveriesCollection: {
			{Keys: bson.D{{Key: "date", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		tankReadingsCollection: {
			{Keys: bson.D{{Key: "fuelType", Value: 1}, {Key: "recordedAt", Value: 1}}},
		},
		scansCollection: {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		cashbookCollection: {
			{Keys: bson.D{{Key: "date", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		attendanceCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "dateKey", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		reportsCollection: {
			{Keys: bson.D{{Key: "date", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}

	for name, idx := range indexes {
		if _, err := r.db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}

	r.logger.Info("mongodb indexes ensured")
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) collection(name string) *mongo.Collection {
	return r.db.Collection(name)
}

// upsertBy replaces the single document matching filter, inserting it when absent.
func (r *MongoDBRepository) upsertBy(ctx context.Context, coll string, filter bson.M, doc any) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection(coll).ReplaceOne(ctx, filter, doc, opts); err != nil {
		return fmt.Errorf("upsert into %s: %w", coll, err)
	}
	return nil
}

// findOne decodes the single document matching filter into out.
func (r *MongoDBRepository) findOne(ctx context.Context, coll string, filter bson.M, out any) error {
	err := r.collection(coll).FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find in %s: %w", coll, err)
	}
	return nil
}
