package stats

import (
	"fmt"
	"math"
)

// Status classifies logged hours against an expected total.
type Status string

const (
	StatusAbove Status = "above"
	StatusBelow Status = "below"
	// StatusNeutral means on target exactly, or no target set.
	StatusNeutral Status = ""
)

// Target is the result of comparing logged hours with expected hours.
type Target struct {
	ExpectedHours float64 `json:"expectedHours"`
	Status        Status  `json:"status"`
	// Delta is the absolute difference in hours.
	Delta float64 `json:"delta"`
}

// CompareTarget compares totalHours with expectedHours. Any difference counts;
// there is no tolerance. expectedHours <= 0 means no target.
func CompareTarget(totalHours, expectedHours float64) Target {
	t := Target{ExpectedHours: expectedHours}
	if expectedHours <= 0 {
		return t
	}
	switch {
	case totalHours < expectedHours:
		t.Status = StatusBelow
	case totalHours > expectedHours:
		t.Status = StatusAbove
	}
	t.Delta = math.Abs(totalHours - expectedHours)
	return t
}

// Signed returns the delta with the sign of totalHours - expectedHours.
func (t Target) Signed() float64 {
	if t.Status == StatusBelow {
		return -t.Delta
	}
	return t.Delta
}

// String renders the comparison, e.g. "10.00h below target".
func (t Target) String() string {
	switch t.Status {
	case StatusAbove, StatusBelow:
		return fmt.Sprintf("%sh %s target", FormatHours(t.Delta), t.Status)
	}
	if t.ExpectedHours > 0 {
		return "on target"
	}
	return ""
}
