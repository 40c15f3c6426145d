package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttendanceRecord marks one staff member present or absent on a station day.
type AttendanceRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	UserID      string             `bson:"userId" json:"userId"`
	DateKey     string             `bson:"dateKey" json:"dateKey"`
	Present     bool               `bson:"present" json:"present"`
	DailySalary float64            `bson:"dailySalary" json:"dailySalary"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PayrollSummary totals a staff member's attendance over a month.
type PayrollSummary struct {
	UserID       string             `json:"userId"`
	Month        string             `json:"month"`
	DaysRecorded int                `json:"daysRecorded"`
	DaysPresent  int                `json:"daysPresent"`
	TotalSalary  float64            `json:"totalSalary"`
	Days         []AttendanceRecord `json:"days"`
}
