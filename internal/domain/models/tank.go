package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TankReading is a gauge observation pushed by the tank monitoring feed.
type TankReading struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	FuelType   string             `bson:"fuelType" json:"fuelType"`
	Level      float64            `bson:"level" json:"level"`
	RecordedAt time.Time          `bson:"recordedAt" json:"recordedAt"`
}

// ScanReading is a dip-chart photo run through OCR by station staff.
// Level is nil when the scanned text could not be read as liters.
type ScanReading struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	FuelType    string             `bson:"fuelType" json:"fuelType"`
	ScannedText string             `bson:"scannedText" json:"scannedText"`
	Level       *float64           `bson:"level,omitempty" json:"level"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// LevelPoint is the last known tank level of one station day.
type LevelPoint struct {
	Date  string  `bson:"date" json:"date"`
	Level float64 `bson:"level" json:"level"`
}

// LevelSeries groups level points by product, ordered by date.
type LevelSeries struct {
	FuelType string       `bson:"fuelType" json:"fuelType"`
	Points   []LevelPoint `bson:"points" json:"points"`
}

// DayLevels holds the two readings the reconciliation needs for one day.
type DayLevels struct {
	Yesterday *float64
	Today     *float64
}
