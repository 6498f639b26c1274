package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/Tiliavir/hourglass/internal/stats"
	"github.com/Tiliavir/hourglass/internal/timecalc"
)

// A4 portrait, millimetres.
const (
	pageWidth = 210.0
	marginX   = 14.0
	contentW  = pageWidth - 2*marginX

	// A daily table that would start below breakY goes to a new page.
	breakY = 220.0
	// No table row may extend past tableBottom.
	tableBottom = 272.0
	footerLineY = 280.0
	footerTextY = 287.0
)

type rgb struct{ r, g, b int }

var (
	colorPrimary = rgb{46, 125, 50}
	colorText    = rgb{30, 41, 59}
	colorMuted   = rgb{100, 116, 139}
	colorBorder  = rgb{226, 232, 240}
	colorFoot    = rgb{245, 245, 245}
	colorAlt     = rgb{250, 250, 250}
	colorWhite   = rgb{255, 255, 255}
)

type builder struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func (b *builder) textColor(c rgb) { b.pdf.SetTextColor(c.r, c.g, c.b) }
func (b *builder) fillColor(c rgb) { b.pdf.SetFillColor(c.r, c.g, c.b) }
func (b *builder) drawColor(c rgb) { b.pdf.SetDrawColor(c.r, c.g, c.b) }

func (b *builder) pageHeader(title string, y float64) float64 {
	b.pdf.SetFont("Helvetica", "B", 24)
	b.textColor(colorPrimary)
	b.pdf.Text(marginX, y, b.tr(title))
	return y + 10
}

func (b *builder) sectionTitle(title string, y float64) float64 {
	b.pdf.SetFont("Helvetica", "B", 16)
	b.textColor(colorText)
	b.pdf.Text(marginX, y, b.tr(title))
	b.drawColor(colorBorder)
	b.pdf.SetLineWidth(0.5)
	b.pdf.Line(marginX, y+2, pageWidth-marginX, y+2)
	return y + 8
}

// metadataBox draws a bordered two-column box and returns the y below it.
func (b *builder) metadataBox(y float64, left, right []string) float64 {
	const lineH = 7.0
	rows := len(left)
	if len(right) > rows {
		rows = len(right)
	}
	h := float64(rows)*lineH + 6

	b.drawColor(colorBorder)
	b.fillColor(colorAlt)
	b.pdf.SetLineWidth(0.3)
	b.pdf.Rect(marginX, y, contentW, h, "FD")

	b.pdf.SetFont("Helvetica", "", 11)
	b.textColor(colorMuted)
	for i, s := range left {
		b.pdf.Text(marginX+4, y+7+float64(i)*lineH, b.tr(s))
	}
	b.pdf.SetFont("Helvetica", "B", 11)
	b.textColor(colorText)
	for i, s := range right {
		b.pdf.Text(marginX+contentW*0.6, y+7+float64(i)*lineH, b.tr(s))
	}
	return y + h + 6
}

// image embeds a PNG at y across the content width. It reports false and
// leaves the document untouched when the image cannot be used.
func (b *builder) image(name string, data []byte, y float64) (float64, bool) {
	h, err := imageHeight(data)
	if err != nil || y+h > tableBottom {
		return y, false
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	b.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if !b.pdf.Ok() {
		b.pdf.ClearError()
		return y, false
	}
	b.pdf.ImageOptions(name, marginX, y, contentW, h, false, opts, 0, "")
	return y + h + 6, true
}

type rowStyle struct {
	font  string
	size  float64
	text  rgb
	fill  rgb
	solid bool
}

var (
	headStyle = rowStyle{font: "B", size: 11, text: colorWhite, fill: colorPrimary, solid: true}
	bodyStyle = rowStyle{font: "", size: 10, text: colorText, fill: colorWhite, solid: true}
	altStyle  = rowStyle{font: "", size: 10, text: colorText, fill: colorAlt, solid: true}
	footStyle = rowStyle{font: "B", size: 11, text: colorText, fill: colorFoot, solid: true}
)

// row draws one table row at the current position and moves below it.
func (b *builder) row(widths []float64, aligns string, values []string, h float64, st rowStyle) {
	b.pdf.SetFont("Helvetica", st.font, st.size)
	b.textColor(st.text)
	b.fillColor(st.fill)
	b.drawColor(colorBorder)
	b.pdf.SetLineWidth(0.2)
	b.pdf.SetX(marginX)
	for i, w := range widths {
		align := "L"
		if i < len(aligns) {
			align = string(aligns[i])
		}
		ln := 0
		if i == len(widths)-1 {
			ln = 1
		}
		b.pdf.CellFormat(w, h, b.fit(values[i], w-2), "1", ln, align, st.solid, 0, "")
	}
}

// fit truncates s with an ellipsis so it fits into w at the current font.
func (b *builder) fit(s string, w float64) string {
	s = b.tr(s)
	if b.pdf.GetStringWidth(s) <= w {
		return s
	}
	for len(s) > 0 && b.pdf.GetStringWidth(s+"...") > w {
		s = s[:len(s)-1]
	}
	return s + "..."
}

// ensure starts a new page when h more millimetres would run past the table
// area, calling onBreak to redraw any headers.
func (b *builder) ensure(h float64, onBreak func()) bool {
	if b.pdf.GetY()+h <= tableBottom {
		return false
	}
	b.pdf.AddPage()
	b.pdf.SetY(20)
	onBreak()
	return true
}

func (b *builder) projectTable(y float64, groups []stats.ProjectGroup, totalMs int64, totalHours, totalDuration string) string {
	widths := []float64{82, 30, 30, 40}
	const aligns = "LRRR"
	const rowH = 8.0

	head := func() {
		b.row(widths, "LRRR", []string{"Project", "Hours", "%", "Duration"}, 9, headStyle)
	}
	b.pdf.SetY(y)
	head()
	for i, g := range groups {
		b.ensure(rowH, head)
		st := bodyStyle
		if i%2 == 1 {
			st = altStyle
		}
		rowY := b.pdf.GetY()
		b.row(widths, aligns, []string{
			"    " + g.ProjectName,
			stats.FormatHours(g.Hours()) + "h",
			stats.FormatHours(g.Share(totalMs)) + "%",
			timecalc.FormatDuration(g.TotalMs),
		}, rowH, st)
		b.swatch(g.Color, marginX+2, rowY+2.5)
	}
	b.ensure(rowH, head)
	b.row(widths, aligns, []string{"Total", totalHours, "100%", totalDuration}, rowH, footStyle)
	return totalHours
}

// swatch draws a small square in the project color.
func (b *builder) swatch(hex string, x, y float64) {
	c, ok := parseHex(hex)
	if !ok {
		c = rgb{102, 102, 102}
	}
	b.fillColor(c)
	b.pdf.Rect(x, y, 3, 3, "F")
}

func (b *builder) dailyBreakdown(days []stats.DayGroup) {
	const title = "Detailed Time Entries"
	widths := []float64{50, 100, 32}
	const rowH = 7.0

	y := b.pageHeader(title, 20)
	b.pdf.SetY(y)
	for i, d := range days {
		if i > 0 {
			if b.pdf.GetY() > breakY {
				b.pdf.AddPage()
				b.pdf.SetY(b.pageHeader(title+" (continued)", 20))
			} else {
				b.pdf.SetY(b.pdf.GetY() + 8)
			}
		}

		head := func() {
			b.row([]float64{contentW}, "L", []string{d.Key}, 8, headStyle)
		}
		b.ensure(8+rowH, func() {
			b.pdf.SetY(b.pageHeader(title+" (continued)", 20))
		})
		head()
		for j, e := range d.Entries {
			b.ensure(rowH, head)
			st := bodyStyle
			if j%2 == 1 {
				st = altStyle
			}
			desc := e.Description
			if strings.TrimSpace(desc) == "" {
				desc = "No description"
			}
			b.row(widths, "LLR", []string{e.ProjectName, desc, timecalc.FormatDuration(e.DurationMs)}, rowH, st)
		}
		b.ensure(8, head)
		b.row([]float64{widths[0] + widths[1], widths[2]}, "LR",
			[]string{"Daily Total", timecalc.FormatDuration(d.TotalMs)}, 8, footStyle)
	}
}

func (b *builder) closing(totalDuration, totalHours string, items []string) {
	b.pageHeader("Time Summary", 20)

	b.pdf.SetFont("Helvetica", "B", 20)
	b.textColor(colorPrimary)
	b.centered("Total Time: "+totalDuration, 60)
	b.centered("Total Hours: "+totalHours, 75)

	b.drawColor(colorBorder)
	b.fillColor(colorAlt)
	b.pdf.SetLineWidth(0.5)
	b.pdf.Rect(20, 100, pageWidth-40, 80, "FD")

	b.pdf.SetFont("Helvetica", "", 11)
	b.textColor(colorText)
	for i, s := range items {
		b.pdf.Text(30, 120+float64(i)*12, b.tr(s))
	}
}

func (b *builder) centered(s string, y float64) {
	s = b.tr(s)
	b.pdf.Text((pageWidth-b.pdf.GetStringWidth(s))/2, y, s)
}

// stampFooters revisits every page once the document is complete.
func (b *builder) stampFooters(attribution string, now time.Time, pages int) {
	generated := "Generated on " + now.Format("Jan 2, 2006 at 3:04 PM")
	for i := 1; i <= pages; i++ {
		b.pdf.SetPage(i)

		b.drawColor(colorBorder)
		b.pdf.SetLineWidth(0.5)
		b.pdf.Line(marginX, footerLineY, pageWidth-marginX, footerLineY)

		b.pdf.SetFont("Helvetica", "", 8)
		b.textColor(colorMuted)
		b.pdf.Text(marginX, footerTextY, b.tr(attribution))
		b.centered(generated, footerTextY)
		right := fmt.Sprintf("Page %d of %d", i, pages)
		b.pdf.Text(pageWidth-marginX-b.pdf.GetStringWidth(right), footerTextY, right)
	}
}

func parseHex(s string) (rgb, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return rgb{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return rgb{}, false
	}
	return rgb{int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)}, true
}
