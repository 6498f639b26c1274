package report

import (
	"bytes"
	"errors"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Tiliavir/hourglass/internal/stats"
)

// ChartFunc renders the daily-hours bar chart as a PNG image.
type ChartFunc func(days []stats.DayGroup) ([]byte, error)

// ErrNoChartData is returned when there are no days to plot.
var ErrNoChartData = errors.New("no chart data")

const (
	chartWidth  = 1024
	chartHeight = 400
)

// DailyHoursChart plots one bar per day bucket, in the order given.
func DailyHoursChart(days []stats.DayGroup) ([]byte, error) {
	if len(days) == 0 {
		return nil, ErrNoChartData
	}

	barWidth := chartWidth / (len(days) * 2)
	switch {
	case barWidth > 60:
		barWidth = 60
	case barWidth < 4:
		barWidth = 4
	}

	barStyle := chart.Style{
		FillColor:   drawing.ColorFromHex("2e7d32").WithAlpha(200),
		StrokeColor: drawing.ColorFromHex("2e7d32"),
		StrokeWidth: 1,
	}
	bars := make([]chart.Value, 0, len(days))
	maxHours := 1.0
	for _, d := range days {
		h := stats.Round2(d.Hours())
		maxHours = max(maxHours, h)
		bars = append(bars, chart.Value{
			Label: d.Label(),
			Value: h,
			Style: barStyle,
		})
	}

	graph := chart.BarChart{
		Title: "Daily Hours",
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: barWidth,
		// A fixed zero-based axis; the library cannot range equal bars itself.
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxHours * 1.1},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("rendering chart: %w", err)
	}
	return buf.Bytes(), nil
}

// safeChart calls fn and converts a panic inside the chart library into an error.
func safeChart(fn ChartFunc, days []stats.DayGroup) (png []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("chart renderer panicked: %v", r)
		}
	}()
	return fn(days)
}
