package model

import "time"

// TimeInterval is the start/end pair reported by the time-tracking API.
// Both values are kept as raw strings; parsing happens during enrichment.
type TimeInterval struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// TimeEntry is a single time entry as returned by the API.
type TimeEntry struct {
	ID           string        `json:"id"`
	Description  string        `json:"description"`
	ProjectID    string        `json:"projectId"`
	TimeInterval *TimeInterval `json:"timeInterval"`
	// Duration is an ISO-8601 duration such as "PT1H30M". Only consulted when
	// TimeInterval is missing or incomplete.
	Duration string `json:"duration"`
}

// DurationSource describes which raw shape a TimeEntry's duration arrived in.
type DurationSource interface {
	durationSource()
}

// IntervalDuration is an explicit start/end pair.
type IntervalDuration struct {
	Start string
	End   string
}

// ISODuration is an ISO-8601 duration string.
type ISODuration struct {
	Value string
}

func (IntervalDuration) durationSource() {}
func (ISODuration) durationSource()      {}

// Source returns the duration variant carried by e, or nil when the entry
// has neither a complete interval nor a duration string.
func (e TimeEntry) Source() DurationSource {
	if e.TimeInterval != nil && e.TimeInterval.Start != "" && e.TimeInterval.End != "" {
		return IntervalDuration{Start: e.TimeInterval.Start, End: e.TimeInterval.End}
	}
	if e.Duration != "" {
		return ISODuration{Value: e.Duration}
	}
	return nil
}

// Entry is a TimeEntry after enrichment. Every Entry has a millisecond
// duration and a project name and color, whatever shape it arrived in.
type Entry struct {
	ID           string `json:"id"`
	Description  string `json:"description"`
	ProjectID    string `json:"projectId"`
	ProjectName  string `json:"projectName"`
	ProjectColor string `json:"projectColor"`
	// DurationMs may be negative when the source interval ends before it starts.
	DurationMs int64 `json:"durationMs"`
	// StartRaw is the interval start exactly as received.
	StartRaw string `json:"start"`
	EndRaw   string `json:"end,omitempty"`
	// Start is the parsed interval start; zero when StartErr is set.
	Start    time.Time `json:"-"`
	StartErr error     `json:"-"`

	rawDuration string
}

// Raw reconstructs the API shape the entry was enriched from.
func (e Entry) Raw() TimeEntry {
	raw := TimeEntry{
		ID:          e.ID,
		Description: e.Description,
		ProjectID:   e.ProjectID,
		Duration:    e.rawDuration,
	}
	if e.StartRaw != "" || e.EndRaw != "" {
		raw.TimeInterval = &TimeInterval{Start: e.StartRaw, End: e.EndRaw}
	}
	return raw
}

// WithRawDuration records the ISO duration string the entry carried.
func (e Entry) WithRawDuration(s string) Entry {
	e.rawDuration = s
	return e
}

// Hours returns the entry duration in hours.
func (e Entry) Hours() float64 {
	return float64(e.DurationMs) / 3_600_000
}
