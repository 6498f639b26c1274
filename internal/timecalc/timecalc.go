package timecalc

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

const (
	// DateLayout is the calendar-day format used on the command line and in
	// API range parameters.
	DateLayout = "2006-01-02"
	// DayKeyLayout formats a calendar day for grouping and display, e.g. "Mar 20, 2024".
	DayKeyLayout = "Jan 2, 2006"
)

var (
	ErrMalformedDuration = errors.New("malformed ISO-8601 duration")
	ErrMissingTime       = errors.New("missing timestamp")
	ErrInvalidTime       = errors.New("invalid timestamp")
	ErrOutOfRange        = errors.New("timestamp out of range")
)

var isoDurationRe = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// ParseISODuration parses the PT#H#M#S subset of ISO-8601 durations into
// milliseconds. Missing components count as zero.
func ParseISODuration(s string) (int64, error) {
	m := isoDurationRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedDuration, s)
	}
	var parts [3]int64
	for i := range parts {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrMalformedDuration, s)
		}
		parts[i] = n
	}
	var ms int64
	for i, unit := range [3]int64{3_600_000, 60_000, 1000} {
		if parts[i] > (math.MaxInt64-ms)/unit {
			return 0, fmt.Errorf("%w: %q overflows", ErrMalformedDuration, s)
		}
		ms += parts[i] * unit
	}
	return ms, nil
}

// ParseInstant parses an API timestamp (RFC 3339, optionally with fractional
// seconds).
func ParseInstant(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, ErrMissingTime
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidTime
}

// DayKey formats t as a calendar day in loc. Times whose year cannot be
// written with four digits are rejected with ErrOutOfRange.
func DayKey(t time.Time, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	if y := local.Year(); y < 1 || y > 9999 {
		return "", ErrOutOfRange
	}
	return local.Format(DayKeyLayout), nil
}

// ParseDayKey is the inverse of DayKey.
func ParseDayKey(key string) (time.Time, bool) {
	t, err := time.Parse(DayKeyLayout, key)
	return t, err == nil
}

// FormatDuration formats milliseconds as "{h}h {m}m", truncating seconds.
func FormatDuration(ms int64) string {
	sign := ""
	if ms < 0 {
		sign = "-"
		ms = -ms
	}
	h := ms / 3_600_000
	m := (ms % 3_600_000) / 60_000
	return fmt.Sprintf("%s%dh %dm", sign, h, m)
}

// FormatClock formats milliseconds as HH:MM:SS.
func FormatClock(ms int64) string {
	sign := ""
	if ms < 0 {
		sign = "-"
		ms = -ms
	}
	s := ms / 1000
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, s/3600, (s%3600)/60, s%60)
}

// FormatDate renders a YYYY-MM-DD string as "Mar 20, 2024". Strings that do
// not parse are returned unchanged.
func FormatDate(s string) string {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, s); err != nil {
			return s
		}
	}
	return t.Format(DayKeyLayout)
}

// UTCDayRange expands inclusive YYYY-MM-DD bounds to the first and last
// second of those days in UTC.
func UTCDayRange(startDate, endDate string) (time.Time, time.Time, error) {
	from, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	to, err := time.Parse(DateLayout, endDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s is before start date %s", endDate, startDate)
	}
	return StartOfDay(from), EndOfDay(to), nil
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // treat Sunday as 7 (ISO)
	}
	monday := StartOfDay(t.AddDate(0, 0, -(wd - 1)))
	sunday := EndOfDay(monday.AddDate(0, 0, 6))
	return monday, sunday
}

// ISOWeekLabel returns a label like "2026-W09".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of the same day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
