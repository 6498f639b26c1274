// Package enrich normalizes raw time entries and attaches project metadata.
package enrich

import (
	"errors"
	"fmt"

	"github.com/Tiliavir/hourglass/internal/model"
	"github.com/Tiliavir/hourglass/internal/timecalc"
)

const (
	// NoProjectName is used for entries without a resolvable project.
	NoProjectName = "No Project"
	// DefaultColor is the neutral gray used when no project color is known.
	DefaultColor = "#666666"
)

// Directory indexes the workspace projects by id.
type Directory map[string]model.Project

// NewDirectory builds a Directory, filling in missing colors.
func NewDirectory(projects []model.Project) Directory {
	dir := make(Directory, len(projects))
	for _, p := range projects {
		if p.Color == "" {
			p.Color = DefaultColor
		}
		dir[p.ID] = p
	}
	return dir
}

// NormalizeDuration returns the duration of e in milliseconds. It never
// fails: unusable input yields 0. Intervals that end before they start give
// a negative result.
func NormalizeDuration(e model.TimeEntry) int64 {
	if src, ok := e.Source().(model.IntervalDuration); ok {
		start, err1 := timecalc.ParseInstant(src.Start)
		end, err2 := timecalc.ParseInstant(src.End)
		if err1 == nil && err2 == nil {
			return end.Sub(start).Milliseconds()
		}
	}
	if e.Duration != "" {
		ms, err := timecalc.ParseISODuration(e.Duration)
		if err != nil {
			return 0
		}
		return ms
	}
	return 0
}

// Enrich normalizes raw and resolves its project against dir.
func Enrich(dir Directory, raw model.TimeEntry) model.Entry {
	e := model.Entry{
		ID:           raw.ID,
		Description:  raw.Description,
		ProjectID:    raw.ProjectID,
		ProjectName:  NoProjectName,
		ProjectColor: DefaultColor,
		DurationMs:   NormalizeDuration(raw),
	}.WithRawDuration(raw.Duration)

	if raw.TimeInterval != nil {
		e.StartRaw = raw.TimeInterval.Start
		e.EndRaw = raw.TimeInterval.End
	}
	e.Start, e.StartErr = timecalc.ParseInstant(e.StartRaw)

	if raw.ProjectID != "" {
		if p, ok := dir[raw.ProjectID]; ok {
			e.ProjectName = p.Name
			e.ProjectColor = p.Color
			if e.ProjectColor == "" {
				e.ProjectColor = DefaultColor
			}
		}
	}
	return e
}

// Warning flags an entry that was kept but looks wrong.
type Warning struct {
	EntryID string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("entry %s: %s", w.EntryID, w.Message)
}

// EnrichAll enriches every entry in order. Entries with suspicious data are
// kept as they are and reported through the returned warnings.
func EnrichAll(dir Directory, raws []model.TimeEntry) ([]model.Entry, []Warning) {
	entries := make([]model.Entry, 0, len(raws))
	var warnings []Warning
	for _, raw := range raws {
		e := Enrich(dir, raw)
		if e.DurationMs < 0 {
			warnings = append(warnings, Warning{
				EntryID: e.ID,
				Message: fmt.Sprintf("ends before it starts (%s)", timecalc.FormatDuration(e.DurationMs)),
			})
		}
		switch {
		case errors.Is(e.StartErr, timecalc.ErrMissingTime):
			warnings = append(warnings, Warning{EntryID: e.ID, Message: "has no start time"})
		case e.StartErr != nil:
			warnings = append(warnings, Warning{EntryID: e.ID, Message: fmt.Sprintf("has unparseable start %q", e.StartRaw)})
		}
		entries = append(entries, e)
	}
	return entries, warnings
}
