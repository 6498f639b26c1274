package stats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/hourglass/internal/enrich"
	"github.com/Tiliavir/hourglass/internal/model"
	"github.com/Tiliavir/hourglass/internal/stats"
)

func entry(id, projectID, start, iso string) model.TimeEntry {
	return model.TimeEntry{
		ID:           id,
		ProjectID:    projectID,
		TimeInterval: &model.TimeInterval{Start: start},
		Duration:     iso,
	}
}

var directory = enrich.NewDirectory([]model.Project{
	{ID: "a", Name: "A", Color: "#111111"},
	{ID: "b", Name: "B", Color: "#222222"},
	{ID: "c", Name: "C", Color: "#333333"},
})

func enriched(raws ...model.TimeEntry) []model.Entry {
	entries, _ := enrich.EnrichAll(directory, raws)
	return entries
}

func TestComputeScenario(t *testing.T) {
	entries := enriched(
		entry("1", "a", "2024-03-20T09:00:00Z", "PT8H"),
		entry("2", "b", "2024-03-21T09:00:00Z", "PT6H"),
	)
	require.Equal(t, int64(28_800_000), entries[0].DurationMs)

	s := stats.Compute(entries, nil, time.UTC)
	d := s.Display()
	assert.Equal(t, "14.00", d.TotalHours)
	assert.Equal(t, 2, d.TotalDays)
	assert.Equal(t, "7.00", d.AverageHoursPerDay)
	assert.Equal(t, 2, d.UniqueProjects)
	assert.False(t, s.HasEarnings)
	assert.Empty(t, d.EarningsUSD)
}

func TestComputeEarnings(t *testing.T) {
	entries := enriched(
		entry("1", "a", "2024-03-20T09:00:00Z", "PT8H"),
		entry("2", "b", "2024-03-21T09:00:00Z", "PT6H"),
	)
	profile := &model.BillingProfile{Name: "me", HourlyRate: 20, USDToDOPRate: 58}

	d := stats.Compute(entries, profile, time.UTC).Display()
	assert.Equal(t, "280.00", d.EarningsUSD)
	assert.Equal(t, "16240.00", d.EarningsDOP)
}

func TestComputeEmpty(t *testing.T) {
	s := stats.Compute(nil, &model.BillingProfile{HourlyRate: 10}, time.UTC)
	assert.Zero(t, s.TotalHours)
	assert.Zero(t, s.AverageHoursPerDay)
	assert.Zero(t, s.TotalDays)
	assert.Zero(t, s.UniqueProjects)
	assert.False(t, s.HasEarnings)
	assert.Equal(t, "0.00", s.Display().AverageHoursPerDay)
}

func TestGroupByProjectConservation(t *testing.T) {
	entries := enriched(
		entry("1", "b", "2024-03-20T09:00:00Z", "PT1H"),
		entry("2", "", "2024-03-20T11:00:00Z", "PT30M"),
		entry("3", "a", "2024-03-21T09:00:00Z", "PT2H"),
		entry("4", "b", "2024-03-22T09:00:00Z", "PT15M"),
		entry("5", "zzz", "2024-03-22T10:00:00Z", "PT5M"),
	)
	groups := stats.GroupByProject(entries)

	keys := make([]string, len(groups))
	var sum int64
	for i, g := range groups {
		keys[i] = g.Key
		sum += g.TotalMs
	}
	assert.Equal(t, []string{"b", stats.NoProjectKey, "a", "zzz"}, keys)

	var want int64
	for _, e := range entries {
		want += e.DurationMs
	}
	assert.Equal(t, want, sum)
	assert.Equal(t, enrich.NoProjectName, groups[3].ProjectName)
}

func TestSortByHoursStable(t *testing.T) {
	groups := []stats.ProjectGroup{
		{Key: "x", TotalMs: 100},
		{Key: "y", TotalMs: 300},
		{Key: "z", TotalMs: 100},
		{Key: "w", TotalMs: 200},
	}
	sorted := stats.SortByHours(groups)

	keys := make([]string, len(sorted))
	for i, g := range sorted {
		keys[i] = g.Key
	}
	assert.Equal(t, []string{"y", "w", "x", "z"}, keys)
	assert.Equal(t, "x", groups[0].Key, "input must not be reordered")
}

func TestShareSumsToHundred(t *testing.T) {
	entries := enriched(
		entry("1", "a", "2024-03-20T09:00:00Z", "PT1H"),
		entry("2", "b", "2024-03-20T10:00:00Z", "PT1H"),
		entry("3", "c", "2024-03-20T11:00:00Z", "PT1H"),
	)
	s := stats.Compute(entries, nil, time.UTC)

	var total float64
	for _, g := range stats.GroupByProject(entries) {
		total += g.Share(s.TotalMs)
	}
	assert.InDelta(t, 100, total, 1e-9)
	assert.Zero(t, stats.ProjectGroup{TotalMs: 5}.Share(0))
}

func TestGroupByDaySentinels(t *testing.T) {
	entries := enriched(
		entry("1", "a", "2024-03-21T09:00:00Z", "PT1H"),
		entry("2", "a", "not a date", "PT2H"),
		model.TimeEntry{ID: "3", ProjectID: "b", Duration: "PT3H"},
		entry("4", "b", "2024-03-20T09:00:00Z", "PT4H"),
		entry("5", "b", "2024-03-21T18:00:00Z", "PT30M"),
	)
	days := stats.GroupByDay(entries, time.UTC)

	keys := make([]string, len(days))
	for i, d := range days {
		keys[i] = d.Key
	}
	assert.Equal(t, []string{"Mar 20, 2024", "Mar 21, 2024", stats.InvalidDateKey, stats.NoDateKey}, keys)
	assert.Equal(t, int64(5_400_000), days[1].TotalMs)
	assert.Equal(t, int64(7_200_000), days[2].TotalMs)
	assert.Equal(t, "Mar 20", days[0].Label())
	assert.Equal(t, stats.NoDateKey, days[3].Label())

	// The malformed entry still counts toward its project and the grand total.
	s := stats.Compute(entries, nil, time.UTC)
	assert.Equal(t, int64(37_800_000), s.TotalMs)
	groups := stats.GroupByProject(entries)
	assert.Equal(t, int64(10_800_000), groups[0].TotalMs)
	assert.Equal(t, 4, s.TotalDays)
}

func TestGroupByDayOutOfRange(t *testing.T) {
	entries := enriched(entry("1", "a", "9999-12-31T23:00:00Z", "PT1H"))
	days := stats.GroupByDay(entries, time.FixedZone("plus2", 2*3600))
	require.Len(t, days, 1)
	assert.Equal(t, stats.ErrorProcessingKey, days[0].Key)
}

func TestCompareTarget(t *testing.T) {
	tests := []struct {
		total, expected float64
		status          stats.Status
		delta           float64
		text            string
	}{
		{150, 160, stats.StatusBelow, 10, "10.00h below target"},
		{170.5, 160, stats.StatusAbove, 10.5, "10.50h above target"},
		{160.001, 160, stats.StatusAbove, 0.001, "0.00h above target"},
		{160, 160, stats.StatusNeutral, 0, "on target"},
		{42, 0, stats.StatusNeutral, 0, ""},
	}
	for _, tt := range tests {
		got := stats.CompareTarget(tt.total, tt.expected)
		assert.Equal(t, tt.status, got.Status)
		assert.InDelta(t, tt.delta, got.Delta, 1e-9)
		assert.Equal(t, tt.text, got.String())
	}
	assert.InDelta(t, -10, stats.CompareTarget(150, 160).Signed(), 1e-9)
}
