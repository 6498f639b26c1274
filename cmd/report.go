package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hourglass/internal/notify"
	"github.com/Tiliavir/hourglass/internal/storage"
)

var (
	reportRange  rangeFlags
	reportOut    string
	reportNotify bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export a PDF time report",
	Long: `Fetches the entries of the range and writes a multi-page PDF report:
cover with totals, daily hours chart, project summary, per-day breakdown and
a closing summary. Defaults to the current week.`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	reportRange.register(reportCmd)
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "Output file or directory (default: ./Report_<user>_<period>.pdf)")
	reportCmd.Flags().BoolVar(&reportNotify, "notify", false, "Send a desktop notification when done")
}

func runReport(cmd *cobra.Command, args []string) error {
	path, pages, err := writeReport(cmd)
	if reportNotify {
		n := notify.Desktop{}
		var nerr error
		if err != nil {
			nerr = notify.ReportFailed(n, err)
		} else {
			nerr = notify.ReportSaved(n, path, pages)
		}
		if nerr != nil {
			logger.Debug("desktop notification failed", "error", nerr)
		}
	}
	if err != nil {
		fail(err)
	}
	fmt.Printf("Wrote %s (%d pages).\n", path, pages)
	return nil
}

func writeReport(cmd *cobra.Command) (string, int, error) {
	rng, err := reportRange.resolve()
	if err != nil {
		return "", 0, err
	}
	sess, err := newSession(cmd.Context())
	if err != nil {
		return "", 0, err
	}
	doc, err := sess.Report(cmd.Context(), rng)
	if err != nil {
		return "", 0, err
	}

	path := reportOut
	switch {
	case path == "":
		path = doc.FileName
	case isDir(path):
		path = filepath.Join(path, doc.FileName)
	}
	if err := storage.WriteFileAtomic(path, doc.Bytes, 0o644); err != nil {
		return "", 0, err
	}
	return path, doc.Pages, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
