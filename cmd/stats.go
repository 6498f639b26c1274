package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/hourglass/internal/dashboard"
	"github.com/Tiliavir/hourglass/internal/stats"
	"github.com/Tiliavir/hourglass/internal/timecalc"
)

var (
	statsRange rangeFlags
	statsJSON  bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show summary statistics for a date range",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsRange.register(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print the statistics as JSON")
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#2E7D32")).
			Padding(0, 1)
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#2E7D32")).
			Padding(0, 2).
			Align(lipgloss.Center)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B"))
	valueStyle = lipgloss.NewStyle().Bold(true)
	aboveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	belowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

func runStats(cmd *cobra.Command, args []string) error {
	rng, err := statsRange.resolve()
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

	if statsJSON {
		data, err := json.MarshalIndent(struct {
			Range  dashboard.Range `json:"range"`
			Stats  stats.Display   `json:"stats"`
			Target stats.Target    `json:"target"`
		}{view.Range, view.Stats.Display(), view.Target}, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "error encoding JSON:", err)
			os.Exit(2)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println(renderStats(view))
	for _, w := range view.Warnings {
		fmt.Fprintln(os.Stderr, "Warning:", w)
	}
	if !cfg.Billing.Complete() {
		fmt.Fprintln(os.Stderr, "Hint: set billing.name, billing.hourly_rate and billing.usd_to_dop_rate in the config for earnings.")
	}
	return nil
}

func card(label, value string) string {
	return cardStyle.Render(labelStyle.Render(label) + "\n" + valueStyle.Render(value))
}

func renderStats(view *dashboard.View) string {
	d := view.Stats.Display()
	header := titleStyle.Render(fmt.Sprintf("%s  %s – %s", view.Range.Label(),
		timecalc.FormatDate(view.Range.Start), timecalc.FormatDate(view.Range.End)))

	cards := []string{
		card("Total Hours", d.TotalHours+"h"),
		card("Avg / Day", d.AverageHoursPerDay+"h"),
		card("Days", fmt.Sprint(d.TotalDays)),
		card("Projects", fmt.Sprint(d.UniqueProjects)),
	}
	if view.Stats.HasEarnings {
		cards = append(cards, card("Earnings", "$"+d.EarningsUSD))
		if !view.Stats.EarningsDOP.IsZero() {
			cards = append(cards, card("Earnings DOP", "RD$"+d.EarningsDOP))
		}
	}
	out := []string{header, lipgloss.JoinHorizontal(lipgloss.Top, cards...)}

	switch view.Target.Status {
	case stats.StatusAbove:
		out = append(out, aboveStyle.Render(view.Target.String()))
	case stats.StatusBelow:
		out = append(out, belowStyle.Render(view.Target.String()))
	default:
		if s := view.Target.String(); s != "" {
			out = append(out, s)
		}
	}

	groups := stats.SortByHours(stats.GroupByProject(view.Entries))
	if len(groups) > 0 {
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("Project", "Hours", "%", "Duration").
			StyleFunc(func(row, col int) lipgloss.Style {
				s := lipgloss.NewStyle().Padding(0, 1)
				if row == table.HeaderRow {
					return s.Bold(true)
				}
				if col > 0 {
					return s.Align(lipgloss.Right)
				}
				return s
			})
		for _, g := range groups {
			t.Row(g.ProjectName,
				stats.FormatHours(g.Hours())+"h",
				stats.FormatHours(g.Share(view.Stats.TotalMs))+"%",
				timecalc.FormatDuration(g.TotalMs))
		}
		out = append(out, t.String())
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}
