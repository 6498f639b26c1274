// Package billing holds the static billing calendar used to pick report
// ranges and expected hours.
package billing

import (
	"fmt"
	"time"

	"github.com/Tiliavir/hourglass/internal/timecalc"
)

// Year is the calendar year the period table describes.
const Year = 2025

// HoursPerDay is the expected workload of one billable day.
const HoursPerDay = 8

// Period is one named billing period.
type Period struct {
	ID           string    `json:"id"`
	Month        string    `json:"month"`
	BillableDays int       `json:"billableDays"`
	Start        time.Time `json:"startDate"`
	End          time.Time `json:"endDate"`
}

// ExpectedHours is the target workload for the period.
func (p Period) ExpectedHours() float64 {
	return float64(p.BillableDays * HoursPerDay)
}

// Label is the display name, e.g. "January 2025".
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", p.Month, p.End.Year())
}

// StartDate and EndDate return the bounds as YYYY-MM-DD.
func (p Period) StartDate() string { return p.Start.Format(timecalc.DateLayout) }
func (p Period) EndDate() string   { return p.End.Format(timecalc.DateLayout) }

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

var periods = []Period{
	{ID: "jan-2025", Month: "January", BillableDays: 23, Start: day(Year-1, time.December, 27), End: day(Year, time.January, 28)},
	{ID: "feb-2025", Month: "February", BillableDays: 20, Start: day(Year, time.January, 29), End: day(Year, time.February, 25)},
	{ID: "mar-2025", Month: "March", BillableDays: 21, Start: day(Year, time.February, 26), End: day(Year, time.March, 26)},
	{ID: "apr-2025", Month: "April", BillableDays: 22, Start: day(Year, time.March, 27), End: day(Year, time.April, 25)},
	{ID: "may-2025", Month: "May", BillableDays: 22, Start: day(Year, time.April, 28), End: day(Year, time.May, 27)},
	{ID: "jun-2025", Month: "June", BillableDays: 21, Start: day(Year, time.May, 28), End: day(Year, time.June, 25)},
	{ID: "jul-2025", Month: "July", BillableDays: 23, Start: day(Year, time.June, 26), End: day(Year, time.July, 28)},
	{ID: "aug-2025", Month: "August", BillableDays: 21, Start: day(Year, time.July, 29), End: day(Year, time.August, 26)},
	{ID: "sep-2025", Month: "September", BillableDays: 22, Start: day(Year, time.August, 27), End: day(Year, time.September, 25)},
	{ID: "oct-2025", Month: "October", BillableDays: 23, Start: day(Year, time.September, 26), End: day(Year, time.October, 28)},
	{ID: "nov-2025", Month: "November", BillableDays: 20, Start: day(Year, time.October, 29), End: day(Year, time.November, 25)},
	{ID: "dec-2025", Month: "December", BillableDays: 23, Start: day(Year, time.November, 26), End: day(Year, time.December, 26)},
}

// Periods returns a copy of the billing calendar in chronological order.
func Periods() []Period {
	out := make([]Period, len(periods))
	copy(out, periods)
	return out
}

// Find returns the period with the given id.
func Find(id string) (Period, bool) {
	for _, p := range periods {
		if p.ID == id {
			return p, true
		}
	}
	return Period{}, false
}

// ForDate returns the period whose range contains the calendar day of t.
func ForDate(t time.Time) (Period, bool) {
	d := day(t.Year(), t.Month(), t.Day())
	for _, p := range periods {
		if !d.Before(p.Start) && !d.After(p.End) {
			return p, true
		}
	}
	return Period{}, false
}
