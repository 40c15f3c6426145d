package models

import "time"

// LowLevelWarning flags a tank that closed the day under its warning level.
type LowLevelWarning struct {
	Product   FuelProduct `bson:"product" json:"product"`
	Level     float64     `bson:"level" json:"level"`
	Threshold float64     `bson:"threshold" json:"threshold"`
}

// DailyReport is the end-of-day snapshot stored in MongoDB.
type DailyReport struct {
	Date       string            `bson:"date" json:"date"`
	Station    string            `bson:"station" json:"station"`
	Products   []Reconciliation  `bson:"products" json:"products"`
	TotalUsage float64           `bson:"total_usage" json:"totalUsage"`
	Warnings   []LowLevelWarning `bson:"warnings" json:"warnings"`
	Profit     *float64          `bson:"profit,omitempty" json:"profit"`
	CreatedAt  time.Time         `bson:"created_at" json:"createdAt"`
}
