package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/JayaniDinukshika/fuelx/internal/domain/models"
)

// MarkAttendance records attendance for (UserID, DateKey), replacing any earlier mark.
func (r *MongoDBRepository) MarkAttendance(ctx context.Context, record models.AttendanceRecord) error {
	record.ID = primitive.NilObjectID
	return r.upsertBy(ctx, attendanceCollection, bson.M{"userId": record.UserID, "dateKey": record.DateKey}, record)
}

// AttendanceBetween returns a user's marks with fromKey <= dateKey <= toKey, oldest first.
func (r *MongoDBRepository) AttendanceBetween(ctx context.Context, userID, fromKey, toKey string) ([]models.AttendanceRecord, error) {
	filter := bson.M{
		"userId":  userID,
		"dateKey": bson.M{"$gte": fromKey, "$lte": toKey},
	}
	opts := options.Find().SetSort(bson.D{{Key: "dateKey", Value: 1}})

	cursor, err := r.collection(attendanceCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find attendance for %s: %w", userID, err)
	}

	records := make([]models.AttendanceRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode attendance: %w", err)
	}
	return records, nil
}
