package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hourglass/internal/clockify"
	"github.com/Tiliavir/hourglass/internal/config"
	"github.com/Tiliavir/hourglass/internal/dashboard"
	"github.com/Tiliavir/hourglass/internal/report"
)

var (
	verbose bool

	cfg    config.Config
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "hourglass",
	Short: "Hourglass – Clockify time reports from the command line",
	Long: `hourglass fetches your Clockify time entries, summarises them and
exports a formatted PDF report. Settings live in ~/.hourglass/.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute is the entry point called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(workspacesCmd)
	rootCmd.AddCommand(entriesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(periodsCmd)
	rootCmd.AddCommand(serveCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	level := cfg.Level()
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// newSession builds a session over the configured credential and logs in.
func newSession(ctx context.Context) (*dashboard.Session, error) {
	if cfg.APIKey == "" {
		return nil, errors.New(`no API key configured; run "hourglass login" or set ` + config.EnvAPIKey)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	sess := dashboard.New(dashboard.Options{
		Fetcher:     clockify.NewClient(clockify.APIKey(cfg.APIKey)),
		WorkspaceID: cfg.WorkspaceID,
		Profile:     &cfg.Billing,
		Location:    loc,
		Logger:      logger,
		Renderer:    report.NewRenderer(logger),
	})
	if _, _, err := sess.Login(ctx); err != nil {
		if errors.Is(err, clockify.ErrUnauthorized) {
			return nil, fmt.Errorf("the API key was rejected; run \"hourglass login\" again: %w", err)
		}
		return nil, err
	}
	return sess, nil
}

// openStore returns the store behind ~/.hourglass.
func openStore() config.Store {
	dir, err := config.Dir()
	if err != nil {
		fail(err)
	}
	return config.NewFileStore(dir)
}

// editSaved applies edit to the saved configuration. Environment overrides
// are not applied, so they are never written back.
func editSaved(store config.Store, edit func(*config.Config)) (config.Config, error) {
	c, err := store.Load()
	if err != nil {
		return c, err
	}
	edit(&c)
	return c, store.Save(c)
}

// exitCode is 1 for problems the user can fix and 2 for everything else.
func exitCode(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrBadRange),
		errors.Is(err, clockify.ErrUnauthorized),
		errors.Is(err, report.ErrNoEntries):
		return 1
	}
	return 2
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(exitCode(err))
}
