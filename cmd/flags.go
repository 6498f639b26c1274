package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hourglass/internal/dashboard"
)

// rangeFlags selects the date range of entries, stats and report.
type rangeFlags struct {
	start  string
	end    string
	period string
}

func (f *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", "Start date (YYYY-MM-DD); requires --end")
	cmd.Flags().StringVar(&f.end, "end", "", "End date (YYYY-MM-DD), inclusive")
	cmd.Flags().StringVar(&f.period, "period", "", `Billing period id, e.g. "jan-2025" (see "hourglass periods")`)
}

// resolve defaults to the current week when no flag is given.
func (f *rangeFlags) resolve() (dashboard.Range, error) {
	return dashboard.ResolveRange(f.start, f.end, f.period, time.Now())
}
