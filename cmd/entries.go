package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hourglass/internal/model"
	"github.com/Tiliavir/hourglass/internal/stats"
	"github.com/Tiliavir/hourglass/internal/timecalc"
)

var (
	entriesRange  rangeFlags
	entriesFormat string
)

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "List time entries to stdout",
	Args:  cobra.NoArgs,
	RunE:  runEntries,
}

func init() {
	entriesRange.register(entriesCmd)
	entriesCmd.Flags().StringVar(&entriesFormat, "format", "md", "Output format: md, csv, json")
}

func runEntries(cmd *cobra.Command, args []string) error {
	rng, err := entriesRange.resolve()
	if err != nil {
		fail(err)
	}
	sess, err := newSession(cmd.Context())
	if err != nil {
		fail(err)
	}
	view, err := sess.Load(cmd.Context(), rng)
	if err != nil {
		fail(err)
	}

	switch entriesFormat {
	case "json":
		data, err := json.MarshalIndent(view.Entries, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "error encoding JSON:", err)
			os.Exit(2)
		}
		fmt.Println(string(data))
	case "csv":
		printCSV(view.Entries, sess.Location())
	default: // md
		printList(view.Entries, sess.Location())
	}

	for _, w := range view.Warnings {
		fmt.Fprintln(os.Stderr, "Warning:", w)
	}
	return nil
}

// printList groups entries by day and prints them.
func printList(entries []model.Entry, loc *time.Location) {
	if len(entries) == 0 {
		fmt.Println("No entries found.")
		return
	}

	for _, day := range stats.GroupByDay(entries, loc) {
		fmt.Printf("%s  (%s)\n", day.Key, timecalc.FormatDuration(day.TotalMs))
		for _, e := range day.Entries {
			span := "--:--–--:--"
			if e.StartErr == nil {
				span = e.Start.In(loc).Format("15:04") + "–"
				if end, err := timecalc.ParseInstant(e.EndRaw); err == nil {
					span += end.In(loc).Format("15:04")
				} else {
					span += "ongoing"
				}
			}
			desc := ""
			if strings.TrimSpace(e.Description) != "" {
				desc = "  " + e.Description
			}
			fmt.Printf("  %s  %s  %s%s\n", span, timecalc.FormatClock(e.DurationMs), e.ProjectName, desc)
		}
	}
}

func printCSV(entries []model.Entry, loc *time.Location) {
	fmt.Println("date,project,description,start,end,duration_minutes")
	for _, e := range entries {
		date, _ := stats.DayKey(e, loc)
		if !e.Start.IsZero() {
			date = e.Start.In(loc).Format(timecalc.DateLayout)
		}
		fmt.Printf("%s,%s,%s,%s,%s,%d\n",
			csvEscape(date),
			csvEscape(e.ProjectName),
			csvEscape(e.Description),
			csvEscape(e.StartRaw),
			csvEscape(e.EndRaw),
			e.DurationMs/60_000,
		)
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	// Escape internal double quotes by doubling them.
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
