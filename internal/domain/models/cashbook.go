package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FuelAmounts holds one figure per product, keyed the way the cash book sheet is.
type FuelAmounts struct {
	P92 float64 `bson:"p92" json:"p92"`
	P95 float64 `bson:"p95" json:"p95"`
	AD  float64 `bson:"ad" json:"ad"`
	SD  float64 `bson:"sd" json:"sd"`
}

// Of returns the figure for product p.
func (a FuelAmounts) Of(p FuelProduct) float64 {
	switch p {
	case Petrol92:
		return a.P92
	case Petrol95:
		return a.P95
	case AutoDiesel:
		return a.AD
	case SuperDiesel:
		return a.SD
	}
	return 0
}

// Set stores v for product p.
func (a *FuelAmounts) Set(p FuelProduct, v float64) {
	switch p {
	case Petrol92:
		a.P92 = v
	case Petrol95:
		a.P95 = v
	case AutoDiesel:
		a.AD = v
	case SuperDiesel:
		a.SD = v
	}
}

// ManualEntries are the cash figures typed in by the cashier.
type ManualEntries struct {
	CardPayment   float64 `bson:"cardPayment" json:"cardPayment"`
	OtherIncome   float64 `bson:"otherIncome" json:"otherIncome"`
	Salary        float64 `bson:"salary" json:"salary"`
	BowserPayment float64 `bson:"browserPayment" json:"browserPayment"`
	OtherPayment  float64 `bson:"otherPayment" json:"otherPayment"`
}

// CashbookTotals are always computed server side.
type CashbookTotals struct {
	TotalFuelIncome               float64 `bson:"totalFuelIncome" json:"totalFuelIncome"`
	TotalFuelIncomeWithoutPayment float64 `bson:"totalFuelIncomeWithoutPayment" json:"totalFuelIncomeWithoutPayment"`
	IncomeMain                    float64 `bson:"incomeMain" json:"incomeMain"`
	ExpensesMain                  float64 `bson:"expensesMain" json:"expensesMain"`
	Profit                        float64 `bson:"profit" json:"profit"`
}

// Cash book sources.
const (
	CashbookSaved = "saved"
	CashbookLive  = "live"
)

// CashbookEntry is the daily income and expense sheet, one per date.
type CashbookEntry struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Date                string             `bson:"date" json:"date"`
	LitersByFuel        FuelAmounts        `bson:"litersByFuel" json:"litersByFuel"`
	PricePerLiterByFuel FuelAmounts        `bson:"pricePerLiterByFuel" json:"pricePerLiterByFuel"`
	IncomeByFuel        FuelAmounts        `bson:"incomeByFuel" json:"incomeByFuel"`
	Manual              ManualEntries      `bson:"manual" json:"manual"`
	Totals              CashbookTotals     `bson:"totals" json:"totals"`
	Source              string             `bson:"-" json:"source"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CashbookRequest is the body posted by the income and expense page.
// LitersByFuel entries left nil are filled from the day's reconciliation.
type CashbookRequest struct {
	Date         string `json:"date"`
	LitersByFuel struct {
		P92 *float64 `json:"p92"`
		P95 *float64 `json:"p95"`
		AD  *float64 `json:"ad"`
		SD  *float64 `json:"sd"`
	} `json:"litersByFuel"`
	PricePerLiterByFuel FuelAmounts   `json:"pricePerLiterByFuel"`
	Manual              ManualEntries `json:"manual"`
}

// Liters returns the explicitly supplied liters for p, if any.
func (r CashbookRequest) Liters(p FuelProduct) *float64 {
	switch p {
	case Petrol92:
		return r.LitersByFuel.P92
	case Petrol95:
		return r.LitersByFuel.P95
	case AutoDiesel:
		return r.LitersByFuel.AD
	case SuperDiesel:
		return r.LitersByFuel.SD
	}
	return nil
}
