package dashboard

import (
	"errors"
	"fmt"
	"time"

	"github.com/Tiliavir/hourglass/internal/billing"
	"github.com/Tiliavir/hourglass/internal/timecalc"
)

// ErrBadRange is wrapped by every ResolveRange failure.
var ErrBadRange = errors.New("invalid date range")

// Range is an inclusive YYYY-MM-DD date range, optionally tied to a billing
// period.
type Range struct {
	Start  string          `json:"start"`
	End    string          `json:"end"`
	Period *billing.Period `json:"period,omitempty"`
	// Week is the ISO week label when the range defaulted to a week.
	Week string `json:"week,omitempty"`
}

// Label names the range in reports, e.g. "January 2025", "Week 2025-W11"
// or "Custom Period 2025".
func (r Range) Label() string {
	if r.Period != nil {
		return r.Period.Label()
	}
	if r.Week != "" {
		return "Week " + r.Week
	}
	year := time.Now().Year()
	if t, err := time.Parse(timecalc.DateLayout, r.End); err == nil {
		year = t.Year()
	}
	return fmt.Sprintf("Custom Period %d", year)
}

// ResolveRange turns user input into a Range. A period id wins over explicit
// dates; with neither, the ISO week containing now is used.
func ResolveRange(start, end, periodID string, now time.Time) (Range, error) {
	if periodID != "" {
		p, ok := billing.Find(periodID)
		if !ok {
			return Range{}, fmt.Errorf("%w: unknown period %q", ErrBadRange, periodID)
		}
		return Range{Start: p.StartDate(), End: p.EndDate(), Period: &p}, nil
	}
	if start == "" && end == "" {
		mon, sun := timecalc.WeekRange(now)
		return Range{
			Start: mon.Format(timecalc.DateLayout),
			End:   sun.Format(timecalc.DateLayout),
			Week:  timecalc.ISOWeekLabel(now),
		}, nil
	}
	if start == "" || end == "" {
		return Range{}, fmt.Errorf("%w: both start and end are required", ErrBadRange)
	}
	if _, _, err := timecalc.UTCDayRange(start, end); err != nil {
		return Range{}, fmt.Errorf("%w: %v", ErrBadRange, err)
	}
	return Range{Start: start, End: end}, nil
}
