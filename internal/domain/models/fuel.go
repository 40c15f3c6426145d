package models

import (
	"strings"

	"github.com/JayaniDinukshika/fuelx/internal/reconcile"
)

// FuelProduct identifies one of the station's storage tanks by its canonical name.
type FuelProduct string

const (
	Petrol92    FuelProduct = "Lanka Petrol 92 Octane"
	Petrol95    FuelProduct = "Lanka Petrol 95 Octane"
	AutoDiesel  FuelProduct = "Lanka Auto Diesel"
	SuperDiesel FuelProduct = "Lanka Super Diesel"
)

// Products lists every product in display order.
var Products = []FuelProduct{Petrol92, Petrol95, AutoDiesel, SuperDiesel}

var productKeys = map[FuelProduct]string{
	Petrol92:    "p92",
	Petrol95:    "p95",
	AutoDiesel:  "ad",
	SuperDiesel: "sd",
}

// Key returns the short identifier used in cash book documents and URLs.
func (p FuelProduct) Key() string {
	return productKeys[p]
}

// Valid reports whether p is one of the station's products.
func (p FuelProduct) Valid() bool {
	_, ok := productKeys[p]
	return ok
}

// Matches reports whether a free-text label (delivery note, OCR scan) names p.
func (p FuelProduct) Matches(label string) bool {
	return reconcile.MatchesProduct(label, string(p))
}

// ParseProduct resolves a short key, a canonical name or a free-text label.
func ParseProduct(value string) (FuelProduct, bool) {
	trimmed := strings.TrimSpace(value)
	for _, p := range Products {
		if strings.EqualFold(trimmed, p.Key()) {
			return p, true
		}
	}
	return ProductForLabel(trimmed)
}

// ProductForLabel returns the first product, in display order, matching label.
func ProductForLabel(label string) (FuelProduct, bool) {
	for _, p := range Products {
		if p.Matches(label) {
			return p, true
		}
	}
	return "", false
}
