package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Check states recorded by the driver and the dealer on a bowser delivery.
const (
	CheckPending = "Pending"
	CheckChecked = "Checked"
)

// Delivery is one bowser (tanker) drop as written on the delivery note.
// JSON names follow the existing front-end payloads.
type Delivery struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Date        string             `bson:"date" json:"date"`
	InvoiceNo   string             `bson:"invoiceNo" json:"invoiceNo"`
	BowserNo    string             `bson:"browserNo" json:"browserNo"`
	Product     string             `bson:"product" json:"product"`
	Quantity    float64            `bson:"quantity" json:"quantity"`
	SealNo      string             `bson:"sealNo" json:"sealNo"`
	DriverCheck string             `bson:"driverCheck" json:"driverCheck"`
	DealerCheck string             `bson:"dealerCheck" json:"dealerCheck"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// Pagination describes a page of a listing.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

// NewPagination derives the page count for total items.
func NewPagination(total, page, limit int64) Pagination {
	pages := int64(0)
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Total: total, Page: page, Limit: limit, TotalPages: pages}
}
