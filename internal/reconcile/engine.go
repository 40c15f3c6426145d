// Package reconcile holds the daily fuel-balance arithmetic shared by every
// surface of the back office: the per-product HTTP views, the cash book and
// the nightly report job.
//
// Everything in this package is pure. Callers fetch tank levels and bowser
// deliveries themselves and pass a snapshot in; the functions never block,
// never touch shared state and return the same output for the same input.
package reconcile

import "math"

// Direction describes how the tank level moved between two consecutive days.
type Direction string

const (
	DirectionRefilled Direction = "refilled"
	DirectionConsumed Direction = "consumed"
	DirectionNoChange Direction = "no change"
	DirectionUnknown  Direction = "unknown"
)

// Label returns the badge text shown next to a tank delta.
func (d Direction) Label() string {
	switch d {
	case DirectionRefilled:
		return "Refilled"
	case DirectionConsumed:
		return "Consumed"
	case DirectionNoChange:
		return "No change"
	default:
		return "—"
	}
}

// Result is the reconciliation of one product on one day.
//
// Nil pointers mean "unknown": a missing gauge reading is never reported as a
// zero level, and a delta or usage derived from it is unknown as well.
type Result struct {
	YesterdayLevel  *float64  `json:"yesterdayLevel" bson:"yesterday_level"`
	TodayLevel      *float64  `json:"todayLevel" bson:"today_level"`
	RecordedRefill  float64   `json:"recordedRefill" bson:"recorded_refill"`
	TankDelta       *float64  `json:"tankDelta" bson:"tank_delta"`
	EffectiveRefill float64   `json:"effectiveRefill" bson:"effective_refill"`
	Usage           *float64  `json:"usage" bson:"usage"`
	InferenceUsed   bool      `json:"inferenceUsed" bson:"inference_used"`
	ChangeDirection Direction `json:"changeDirection" bson:"change_direction"`
}

// Level wraps a known tank level for use as a Reconcile argument.
func Level(liters float64) *float64 {
	return &liters
}

// Reconcile combines yesterday's last tank level, today's last tank level and
// today's delivery quantities into refill and usage figures.
//
// The effective refill is never below the positive rise of the tank, so a
// delivery that was never logged still shows up as refill (InferenceUsed is
// then true). Usage is clamped at zero. Negative or non-finite inputs are
// treated as zero.
func Reconcile(yesterday, today *float64, deliveries []float64) Result {
	res := Result{
		YesterdayLevel:  sanitizeLevel(yesterday),
		TodayLevel:      sanitizeLevel(today),
		RecordedRefill:  SumDeliveries(deliveries),
		ChangeDirection: DirectionUnknown,
	}
	res.EffectiveRefill = res.RecordedRefill

	if res.YesterdayLevel == nil || res.TodayLevel == nil {
		return res
	}

	y, t := *res.YesterdayLevel, *res.TodayLevel
	delta := t - y
	res.TankDelta = &delta
	res.ChangeDirection = directionOf(delta)

	res.EffectiveRefill = math.Max(res.RecordedRefill, math.Max(delta, 0))
	usage := math.Max(y+res.EffectiveRefill-t, 0)
	res.Usage = &usage
	res.InferenceUsed = res.EffectiveRefill != res.RecordedRefill

	return res
}

// SumDeliveries totals delivery quantities, counting invalid entries as zero.
func SumDeliveries(deliveries []float64) float64 {
	var total float64
	for _, qty := range deliveries {
		total += nonNegative(qty)
	}
	return total
}

// UsageOrZero returns the usage liters, or zero when usage is unknown.
func (r Result) UsageOrZero() float64 {
	if r.Usage == nil {
		return 0
	}
	return *r.Usage
}

func directionOf(delta float64) Direction {
	switch {
	case delta > 0:
		return DirectionRefilled
	case delta < 0:
		return DirectionConsumed
	default:
		return DirectionNoChange
	}
}

// sanitizeLevel copies the level so the result never aliases caller memory.
func sanitizeLevel(level *float64) *float64 {
	if level == nil {
		return nil
	}
	v := nonNegative(*level)
	return &v
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
