package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hourglass/internal/server"
)

var (
	serveAddr    string
	serveOrigins []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard JSON API on localhost",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, 127.0.0.1:8765)")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "origin", nil, "Allowed CORS origin (repeatable)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := newSession(ctx)
	if err != nil {
		fail(err)
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Listen
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.NewRouter(sess, logger, server.Options{AllowedOrigins: serveOrigins}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	fmt.Printf("Serving on http://%s (Ctrl+C to stop)\n", addr)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			fail(err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			fail(err)
		}
		fmt.Println("Stopped.")
	}
	return nil
}
