// Package stats derives summary statistics from enriched time entries.
package stats

import (
	"fmt"
	"math"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/Tiliavir/hourglass/internal/model"
)

const msPerHour = 3_600_000

// Statistics summarizes a full entry set. Values are unrounded; use Display
// for the two-decimal presentation.
type Statistics struct {
	TotalMs            int64
	TotalHours         float64
	AverageHoursPerDay float64
	TotalDays          int
	UniqueProjects     int
	// HasEarnings is false when no billing profile with an hourly rate was given.
	HasEarnings bool
	EarningsUSD decimal.Decimal
	EarningsDOP decimal.Decimal
}

// Compute aggregates entries. profile may be nil.
func Compute(entries []model.Entry, profile *model.BillingProfile, loc *time.Location) Statistics {
	var s Statistics
	if len(entries) == 0 {
		return s
	}

	for _, e := range entries {
		s.TotalMs += e.DurationMs
	}
	s.TotalHours = float64(s.TotalMs) / msPerHour
	s.TotalDays = len(GroupByDay(entries, loc))
	if s.TotalDays > 0 {
		s.AverageHoursPerDay = s.TotalHours / float64(s.TotalDays)
	}

	names := lo.FilterMap(entries, func(e model.Entry, _ int) (string, bool) {
		return e.ProjectName, e.ProjectName != ""
	})
	s.UniqueProjects = len(lo.Uniq(names))

	if profile != nil && profile.HourlyRate != 0 {
		s.HasEarnings = true
		hours := decimal.NewFromInt(s.TotalMs).Div(decimal.NewFromInt(msPerHour))
		s.EarningsUSD = hours.Mul(decimal.NewFromFloat(profile.HourlyRate))
		if profile.USDToDOPRate != 0 {
			s.EarningsDOP = s.EarningsUSD.Mul(decimal.NewFromFloat(profile.USDToDOPRate))
		}
	}
	return s
}

// Display is the two-decimal presentation of Statistics.
type Display struct {
	TotalHours         string `json:"totalHours"`
	AverageHoursPerDay string `json:"averageHoursPerDay"`
	TotalDays          int    `json:"totalDays"`
	UniqueProjects     int    `json:"uniqueProjects"`
	EarningsUSD        string `json:"earningsUSD,omitempty"`
	EarningsDOP        string `json:"earningsDOP,omitempty"`
}

// Display rounds every value for presentation.
func (s Statistics) Display() Display {
	d := Display{
		TotalHours:         FormatHours(s.TotalHours),
		AverageHoursPerDay: FormatHours(s.AverageHoursPerDay),
		TotalDays:          s.TotalDays,
		UniqueProjects:     s.UniqueProjects,
	}
	if s.HasEarnings {
		d.EarningsUSD = s.EarningsUSD.StringFixed(2)
		d.EarningsDOP = s.EarningsDOP.StringFixed(2)
	}
	return d
}

// Round2 rounds x to two decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// FormatHours renders hours with two decimals.
func FormatHours(h float64) string {
	return fmt.Sprintf("%.2f", Round2(h))
}

// HoursFromMs converts milliseconds to hours.
func HoursFromMs(ms int64) float64 {
	return float64(ms) / msPerHour
}
