package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/JayaniDinukshika/fuelx/internal/domain/models"
)

// UpsertCashbook saves the cash book of entry.Date, replacing any earlier save.
func (r *MongoDBRepository) UpsertCashbook(ctx context.Context, entry models.CashbookEntry) error {
	entry.ID = primitive.NilObjectID
	return r.upsertBy(ctx, cashbookCollection, bson.M{"date": entry.Date}, entry)
}

// CashbookForDate returns the saved cash book of a day or ErrNotFound.
func (r *MongoDBRepository) CashbookForDate(ctx context.Context, date string) (models.CashbookEntry, error) {
	var entry models.CashbookEntry
	if err := r.findOne(ctx, cashbookCollection, bson.M{"date": date}, &entry); err != nil {
		return models.CashbookEntry{}, err
	}
	entry.Source = models.CashbookSaved
	return entry, nil
}
