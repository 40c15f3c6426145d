package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/JayaniDinukshika/fuelx/internal/domain/models"
)

// InsertTankReading stores a gauge reading.
func (r *MongoDBRepository) InsertTankReading(ctx context.Context, reading models.TankReading) (models.TankReading, error) {
	if reading.ID.IsZero() {
		reading.ID = primitive.NewObjectID()
	}
	if _, err := r.collection(tankReadingsCollection).InsertOne(ctx, reading); err != nil {
		return models.TankReading{}, fmt.Errorf("failed to insert tank reading: %w", err)
	}
	return reading, nil
}

type dayLevelRow struct {
	ID struct {
		FuelType string `bson:"fuelType"`
		Date     string `bson:"date"`
	} `bson:"_id"`
	Level float64 `bson:"level"`
}

// TankLevelSeries returns, for each requested fuel type, the last gauge level
// of every station day in [from, to]. Days are cut in loc, which must be a
// named IANA zone. Fuel types without readings get an empty series.
func (r *MongoDBRepository) TankLevelSeries(ctx context.Context, fuelTypes []string, start, end time.Time, loc *time.Location) ([]models.LevelSeries, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"fuelType":   bson.M{"$in": fuelTypes},
			"recordedAt": bson.M{"$gte": start, "$lt": end},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "recordedAt", Value: 1}, {Key: "_id", Value: 1}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.M{
				"fuelType": "$fuelType",
				"date": bson.M{"$dateToString": bson.M{
					"format":   "%Y-%m-%d",
					"date":     "$recordedAt",
					"timezone": loc.String(),
				}},
			}},
			{Key: "level", Value: bson.M{"$last": "$level"}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.date", Value: 1}}}},
	}

	cursor, err := r.collection(tankReadingsCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate tank levels: %w", err)
	}

	var rows []dayLevelRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode tank levels: %w", err)
	}

	return groupSeries(fuelTypes, rows), nil
}

func groupSeries(fuelTypes []string, rows []dayLevelRow) []models.LevelSeries {
	byFuel := make(map[string][]models.LevelPoint, len(fuelTypes))
	for _, row := range rows {
		byFuel[row.ID.FuelType] = append(byFuel[row.ID.FuelType], models.LevelPoint{Date: row.ID.Date, Level: row.Level})
	}

	series := make([]models.LevelSeries, 0, len(fuelTypes))
	for _, fuel := range fuelTypes {
		points := byFuel[fuel]
		if points == nil {
			points = []models.LevelPoint{}
		}
		series = append(series, models.LevelSeries{FuelType: fuel, Points: points})
	}
	return series
}

// InsertScan stores an OCR scan of a tank dip.
func (r *MongoDBRepository) InsertScan(ctx context.Context, scan models.ScanReading) (models.ScanReading, error) {
	if scan.ID.IsZero() {
		scan.ID = primitive.NewObjectID()
	}
	if _, err := r.collection(scansCollection).InsertOne(ctx, scan); err != nil {
		return models.ScanReading{}, fmt.Errorf("failed to insert scan: %w", err)
	}
	return scan, nil
}

// ListScans returns every scan created in [start, end), newest first.
// Zero bounds leave that side open.
func (r *MongoDBRepository) ListScans(ctx context.Context, start, end time.Time) ([]models.ScanReading, error) {
	filter := bson.M{}
	created := bson.M{}
	if !start.IsZero() {
		created["$gte"] = start
	}
	if !end.IsZero() {
		created["$lt"] = end
	}
	if len(created) > 0 {
		filter["createdAt"] = created
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection(scansCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}

	scans := make([]models.ScanReading, 0)
	if err := cursor.All(ctx, &scans); err != nil {
		return nil, fmt.Errorf("failed to decode scans: %w", err)
	}
	return scans, nil
}
