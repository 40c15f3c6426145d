package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/JayaniDinukshika/fuelx/internal/domain/models"
)

// InsertDeliveries stores a batch of bowser deliveries and returns them with their ids.
func (r *MongoDBRepository) InsertDeliveries(ctx context.Context, deliveries []models.Delivery) ([]models.Delivery, error) {
	if len(deliveries) == 0 {
		return nil, nil
	}

	docs := make([]any, len(deliveries))
	for i := range deliveries {
		if deliveries[i].ID.IsZero() {
			deliveries[i].ID = primitive.NewObjectID()
		}
		docs[i] = deliveries[i]
	}

	if _, err := r.collection(deliveriesCollection).InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("failed to insert deliveries: %w", err)
	}

	r.logger.Debug("deliveries inserted", zap.Int("count", len(deliveries)))
	return deliveries, nil
}

// ListDeliveries returns one page of deliveries, newest first, with the total count.
func (r *MongoDBRepository) ListDeliveries(ctx context.Context, page, limit int64) ([]models.Delivery, int64, error) {
	coll := r.collection(deliveriesCollection)

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list deliveries: %w", err)
	}

	deliveries := make([]models.Delivery, 0)
	if err := cursor.All(ctx, &deliveries); err != nil {
		return nil, 0, fmt.Errorf("failed to decode deliveries: %w", err)
	}

	total, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count deliveries: %w", err)
	}

	return deliveries, total, nil
}

// DeliveriesForDate returns every delivery recorded against a station day.
// Product filtering is left to the caller since labels are free text.
func (r *MongoDBRepository) DeliveriesForDate(ctx context.Context, date string) ([]models.Delivery, error) {
	cursor, err := r.collection(deliveriesCollection).Find(ctx, bson.M{"date": date})
	if err != nil {
		return nil, fmt.Errorf("failed to find deliveries for %s: %w", date, err)
	}

	deliveries := make([]models.Delivery, 0)
	if err := cursor.All(ctx, &deliveries); err != nil {
		return nil, fmt.Errorf("failed to decode deliveries for %s: %w", date, err)
	}
	return deliveries, nil
}
