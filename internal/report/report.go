// Package report renders the paginated PDF time report.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"github.com/Tiliavir/hourglass/internal/model"
	"github.com/Tiliavir/hourglass/internal/stats"
	"github.com/Tiliavir/hourglass/internal/timecalc"
)

// DefaultAttribution is stamped in the left footer of every page.
const DefaultAttribution = "Generated by Hourglass - Time Tracking Analytics"

// ErrNoEntries is returned when there is nothing to report.
var ErrNoEntries = errors.New("no time entries to report")

// Request describes one report.
type Request struct {
	Entries     []model.Entry
	UserName    string
	PeriodLabel string
	// StartDate and EndDate are YYYY-MM-DD; other values are printed as given.
	StartDate string
	EndDate   string
	// Location decides calendar-day bucketing. Nil means time.Local.
	Location *time.Location
}

// Document is a rendered report.
type Document struct {
	ID       string
	FileName string
	Bytes    []byte
	Pages    int
	HasChart bool

	// The grand total exactly as printed in each section.
	CoverTotal   string
	TableTotal   string
	ClosingTotal string
}

// Renderer turns enriched entries into a PDF document.
type Renderer struct {
	// Chart renders the daily-hours image. Nil disables the chart.
	Chart       ChartFunc
	Attribution string
	Logger      *slog.Logger
	Now         func() time.Time
	// Compress toggles PDF stream compression.
	Compress bool
}

// NewRenderer returns a Renderer with the default chart and attribution.
func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		Chart:       DailyHoursChart,
		Attribution: DefaultAttribution,
		Logger:      logger,
		Now:         time.Now,
		Compress:    true,
	}
}

// Render builds the report with a default Renderer.
func Render(req Request) (*Document, error) {
	return NewRenderer(nil).Render(req)
}

// Write renders req and writes the PDF to w.
func (r *Renderer) Write(w io.Writer, req Request) (*Document, error) {
	doc, err := r.Render(req)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(doc.Bytes); err != nil {
		return nil, fmt.Errorf("writing report: %w", err)
	}
	return doc, nil
}

// FileName is the download name for a report, e.g.
// "Report_JaneDoe_January2025.pdf".
func FileName(userName, periodLabel string) string {
	return fmt.Sprintf("Report_%s_%s.pdf", stripSpaces(userName), stripSpaces(periodLabel))
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// Render lays out cover, chart, project summary, daily breakdown and closing
// summary, then stamps the footer on every page.
func (r *Renderer) Render(req Request) (*Document, error) {
	if len(req.Entries) == 0 {
		return nil, ErrNoEntries
	}
	loc := req.Location
	if loc == nil {
		loc = time.Local
	}
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// One aggregation pass feeds every section so the totals always agree.
	st := stats.Compute(req.Entries, nil, loc)
	groups := stats.SortByHours(stats.GroupByProject(req.Entries))
	days := stats.GroupByDay(req.Entries, loc)
	totalHours := stats.FormatHours(st.TotalHours) + "h"
	totalDuration := timecalc.FormatDuration(st.TotalMs)
	dateRange := timecalc.FormatDate(req.StartDate) + " - " + timecalc.FormatDate(req.EndDate)

	doc := &Document{
		ID:       uuid.NewString(),
		FileName: FileName(req.UserName, req.PeriodLabel),
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.Compress)
	pdf.SetMargins(marginX, 20, marginX)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Time Report - "+req.PeriodLabel, true)
	pdf.SetAuthor(req.UserName, true)
	pdf.SetCreator(r.Attribution, true)
	pdf.SetKeywords("report-id:"+doc.ID, true)
	pdf.SetCreationDate(now)

	b := &builder{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	// Cover page.
	pdf.AddPage()
	y := b.pageHeader("Time Report", 20)
	y = b.metadataBox(y, []string{
		"Period: " + req.PeriodLabel,
		"User: " + req.UserName,
		"Date Range: " + dateRange,
	}, []string{
		"Total Time: " + totalDuration,
		"Total Hours: " + totalHours,
		fmt.Sprintf("Projects: %d", len(groups)),
	})
	doc.CoverTotal = totalHours

	if r.Chart != nil {
		img, err := safeChart(r.Chart, days)
		if err == nil {
			y, doc.HasChart = b.image("daily-hours", img, y)
		}
		if err != nil || !doc.HasChart {
			logger.Debug("report chart omitted", "report_id", doc.ID, "error", err)
		}
	}

	// Project summary.
	y = b.sectionTitle("Project Summary", y+4)
	doc.TableTotal = b.projectTable(y, groups, st.TotalMs, totalHours, totalDuration)

	// Daily breakdown.
	pdf.AddPage()
	b.dailyBreakdown(days)

	// Closing summary.
	pdf.AddPage()
	avg := 0.0
	if len(days) > 0 {
		avg = stats.HoursFromMs(st.TotalMs) / float64(len(days))
	}
	b.closing(totalDuration, totalHours, []string{
		"Average Hours per Day: " + stats.FormatHours(avg) + "h",
		fmt.Sprintf("Total Days: %d", len(days)),
		fmt.Sprintf("Number of Projects: %d", len(groups)),
		"Period: " + req.PeriodLabel,
		"Date Range: " + dateRange,
	})
	doc.ClosingTotal = totalHours

	doc.Pages = pdf.PageCount()
	b.stampFooters(r.Attribution, now, doc.Pages)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("assembling report: %w", err)
	}
	doc.Bytes = buf.Bytes()

	logger.Info("report rendered",
		"report_id", doc.ID,
		"pages", doc.Pages,
		"entries", len(req.Entries),
		"chart", doc.HasChart,
	)
	return doc, nil
}

// imageHeight returns the height an image of the given PNG data takes when
// scaled to the content width.
func imageHeight(data []byte) (float64, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("decoding chart image: %w", err)
	}
	if cfg.Width == 0 {
		return 0, errors.New("chart image has zero width")
	}
	return contentW * float64(cfg.Height) / float64(cfg.Width), nil
}
