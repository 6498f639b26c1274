package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hourglass/internal/billing"
)

var periodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "List the billing periods and their expected hours",
	Args:  cobra.NoArgs,
	RunE:  runPeriods,
}

func runPeriods(cmd *cobra.Command, args []string) error {
	current, _ := billing.ForDate(time.Now())
	fmt.Printf("  %-10s %-16s %-10s %-10s %5s %9s\n", "ID", "Period", "Start", "End", "Days", "Expected")
	for _, p := range billing.Periods() {
		marker := " "
		if p.ID == current.ID {
			marker = "*"
		}
		fmt.Printf("%s %-10s %-16s %-10s %-10s %5d %8.0fh\n",
			marker, p.ID, p.Label(), p.StartDate(), p.EndDate(), p.BillableDays, p.ExpectedHours())
	}
	return nil
}
