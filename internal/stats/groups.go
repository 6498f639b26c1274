package stats

import (
	"errors"
	"sort"
	"time"

	"github.com/Tiliavir/hourglass/internal/model"
	"github.com/Tiliavir/hourglass/internal/timecalc"
)

// NoProjectKey groups entries without a project id.
const NoProjectKey = "no-project"

// Sentinel day keys for entries whose start cannot be placed on a calendar day.
const (
	NoDateKey          = "No Date"
	InvalidDateKey     = "Invalid Date"
	ErrorProcessingKey = "Error Processing Date"
)

// ProjectGroup collects the entries of one project.
type ProjectGroup struct {
	Key         string
	ProjectName string
	Color       string
	Entries     []model.Entry
	TotalMs     int64
}

// Hours returns the group total in hours.
func (g ProjectGroup) Hours() float64 {
	return float64(g.TotalMs) / msPerHour
}

// Share returns the group's percentage of totalMs, or 0 when totalMs is 0.
func (g ProjectGroup) Share(totalMs int64) float64 {
	if totalMs == 0 {
		return 0
	}
	return float64(g.TotalMs) / float64(totalMs) * 100
}

// GroupByProject groups entries by project id, keeping the order in which
// projects first appear.
func GroupByProject(entries []model.Entry) []ProjectGroup {
	index := map[string]int{}
	var groups []ProjectGroup
	for _, e := range entries {
		key := e.ProjectID
		if key == "" {
			key = NoProjectKey
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, ProjectGroup{
				Key:         key,
				ProjectName: e.ProjectName,
				Color:       e.ProjectColor,
			})
		}
		groups[i].Entries = append(groups[i].Entries, e)
		groups[i].TotalMs += e.DurationMs
	}
	return groups
}

// SortByHours returns a copy of groups ordered by total time, largest first.
// Groups with equal totals keep their relative order.
func SortByHours(groups []ProjectGroup) []ProjectGroup {
	sorted := make([]ProjectGroup, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalMs > sorted[j].TotalMs
	})
	return sorted
}

// DayGroup collects the entries that started on one calendar day, or one of
// the sentinel buckets.
type DayGroup struct {
	Key      string
	Date     time.Time
	Sentinel bool
	Entries  []model.Entry
	TotalMs  int64
}

// Hours returns the day total in hours.
func (d DayGroup) Hours() float64 {
	return float64(d.TotalMs) / msPerHour
}

// Label is the short chart label, e.g. "Mar 20".
func (d DayGroup) Label() string {
	if d.Sentinel {
		return d.Key
	}
	return d.Date.Format("Jan 2")
}

// DayKey returns the grouping key of e in loc and whether it is a sentinel.
func DayKey(e model.Entry, loc *time.Location) (string, bool) {
	switch {
	case errors.Is(e.StartErr, timecalc.ErrMissingTime):
		return NoDateKey, true
	case e.StartErr != nil:
		return InvalidDateKey, true
	}
	key, err := timecalc.DayKey(e.Start, loc)
	if err != nil {
		return ErrorProcessingKey, true
	}
	return key, false
}

// GroupByDay buckets entries by the local calendar day of their start.
// Real days come first in chronological order, followed by sentinel buckets
// ordered by name.
func GroupByDay(entries []model.Entry, loc *time.Location) []DayGroup {
	index := map[string]int{}
	var days []DayGroup
	for _, e := range entries {
		key, sentinel := DayKey(e, loc)
		i, ok := index[key]
		if !ok {
			i = len(days)
			index[key] = i
			d := DayGroup{Key: key, Sentinel: sentinel}
			if !sentinel {
				d.Date, _ = timecalc.ParseDayKey(key)
			}
			days = append(days, d)
		}
		days[i].Entries = append(days[i].Entries, e)
		days[i].TotalMs += e.DurationMs
	}
	sort.SliceStable(days, func(i, j int) bool {
		a, b := days[i], days[j]
		if a.Sentinel != b.Sentinel {
			return !a.Sentinel
		}
		if a.Sentinel {
			return a.Key < b.Key
		}
		return a.Date.Before(b.Date)
	})
	return days
}
