package models

import "github.com/JayaniDinukshika/fuelx/internal/reconcile"

// Reconciliation is the derived fuel balance of one product on one day.
type Reconciliation struct {
	Date       string      `bson:"date" json:"date"`
	Product    FuelProduct `bson:"product" json:"product"`
	ProductKey string      `bson:"product_key" json:"productKey"`
	Deliveries int         `bson:"deliveries" json:"deliveries"`

	// DeliveriesUnavailable is set when the delivery log could not be read
	// and the recorded refill was taken as zero.
	DeliveriesUnavailable bool `bson:"deliveries_unavailable,omitempty" json:"deliveriesUnavailable,omitempty"`

	reconcile.Result `bson:",inline"`
}

// DayReconciliation is the reconciliation of every product for a day.
type DayReconciliation struct {
	Date       string           `json:"date"`
	Products   []Reconciliation `json:"products"`
	TotalUsage float64          `json:"totalUsage"`
}
