package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/JayaniDinukshika/fuelx/internal/domain/models"
)

// SaveDailyReport saves the end-of-day report, replacing a previous run for the same date.
func (r *MongoDBRepository) SaveDailyReport(ctx context.Context, report models.DailyReport) error {
	if err := r.upsertBy(ctx, reportsCollection, bson.M{"date": report.Date}, report); err != nil {
		return fmt.Errorf("failed to save daily report: %w", err)
	}
	return nil
}

// DailyReport returns the stored report of a day or ErrNotFound.
func (r *MongoDBRepository) DailyReport(ctx context.Context, date string) (models.DailyReport, error) {
	var report models.DailyReport
	if err := r.findOne(ctx, reportsCollection, bson.M{"date": date}, &report); err != nil {
		return models.DailyReport{}, err
	}
	return report, nil
}
