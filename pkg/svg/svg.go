package svg

import (
	"bytes"
	_ "embed"
	"fmt"
	htmltemplate "html/template"
	"math"
	"strconv"
	"text/template"

	"github.com/egandro/temperature-heatmap/pkg/chart"
	"github.com/egandro/temperature-heatmap/pkg/grid"
	"github.com/egandro/temperature-heatmap/pkg/interaction"
)

//go:embed templates/heatmap.svg.tmpl
var svgTemplateStr string

//go:embed templates/page.html.tmpl
var pageTemplateStr string

var (
	svgTemplate  = template.Must(template.New("svg").Parse(svgTemplateStr))
	pageTemplate = htmltemplate.Must(htmltemplate.New("page").Parse(pageTemplateStr))
)

func New(c *chart.Chart, mode Mode) *Heatmap {
	return &Heatmap{chart: c, title: DefaultTitle, mode: mode}
}

// WithTitle overrides the heading.
func (h *Heatmap) WithTitle(title string) *Heatmap {
	h.title = title
	return h
}

// Generate renders the SVG document.
func (h *Heatmap) Generate() (string, error) {
	if h.chart == nil || h.chart.Grid == nil || h.chart.Grid.Len() == 0 {
		return "", fmt.Errorf("no chart data available")
	}

	var buf bytes.Buffer
	if err := svgTemplate.Execute(&buf, h.data()); err != nil {
		return "", fmt.Errorf("failed to execute SVG template: %w", err)
	}
	return buf.String(), nil
}

// Page renders the HTML document with the inline SVG and the tooltip layer.
// Pointer events on cells are posted to pointerURL. Without a URL the page
// falls back to native cell titles.
func (h *Heatmap) Page(pointerURL string) (string, error) {
	inline := *h
	inline.mode = ModeInline
	inline.offline = pointerURL == ""
	body, err := inline.Generate()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, pageData{
		Title:       h.title,
		Description: h.chart.Description,
		// #nosec G203 -- produced by our own template with escaped text
		SVG:        htmltemplate.HTML(body),
		PointerURL: pointerURL,
		FontSize:   tooltipFontSize,
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute page template: %w", err)
	}
	return buf.String(), nil
}

func (h *Heatmap) data() svgData {
	c := h.chart
	m := c.Options.Margins
	plotW := c.Options.Width
	plotH := c.Options.Height

	d := svgData{
		Standalone: h.mode == ModeStandalone,
		Width:      int(math.Round(plotW)) + m.Left + m.Right,
		Height:     int(math.Round(plotH)) + m.Top + m.Bottom,
		OffsetX:    m.Left,
		OffsetY:    m.Top,
		Title:      h.title,
		Subtitle:   c.Description,
		PlotWidth:  num(plotW),
		PlotHeight: num(plotH),
		TickSize:   tickSize,
		XLabel:     svgLabel{X: num(plotW / 2), Y: num(plotH + xLabelOffset), Text: "Year"},
		YLabel:     svgLabel{X: num(yLabelOffset), Y: num(plotH / 2), Text: "Month"},
	}
	if d.Standalone {
		d.Height += headerHeight
		d.OffsetY += headerHeight
	}
	d.CenterX = d.Width / 2

	for _, cell := range c.Grid.Cells() {
		d.Cells = append(d.Cells, newCell(cell, d.Standalone || h.offline))
	}
	for _, t := range c.XTicks {
		d.XTicks = append(d.XTicks, svgTick{Pos: num(t.Pos), Text: t.Label})
	}
	for _, t := range c.YTicks {
		d.YTicks = append(d.YTicks, svgTick{Pos: num(t.Pos), Text: t.Label})
	}

	lg := c.Legend
	d.LegendX = num(float64(legendInset - m.Left))
	d.LegendY = num(plotH + float64(m.Bottom) - lg.SwatchHeight - legendGap)
	d.SwatchHeight = num(lg.SwatchHeight)
	d.LegendWidth = num(lg.Width)
	for _, s := range lg.Swatches {
		d.Swatches = append(d.Swatches, svgSwatch{
			X:     num(s.X),
			Width: num(s.Width),
			Fill:  s.Color,
			Lo:    strconv.FormatFloat(s.Lo, 'g', -1, 64),
			Hi:    strconv.FormatFloat(s.Hi, 'g', -1, 64),
		})
	}
	for _, t := range lg.Ticks {
		d.LegendTicks = append(d.LegendTicks, svgTick{Pos: num(t.X), Text: t.Label})
	}
	return d
}

func newCell(c grid.Cell, withTip bool) svgCell {
	attrs := c.Provenance.Attributes()
	sc := svgCell{
		ID:     int(c.ID),
		X:      num(c.X),
		Y:      num(c.Y),
		Width:  num(c.Width),
		Height: num(c.Height),
		Fill:   c.Fill,
		Year:   attrs[grid.AttrYear],
		Month:  attrs[grid.AttrMonth],
		Temp:   attrs[grid.AttrTemperature],
		Var:    attrs[grid.AttrVariance],
	}
	if withTip {
		p := c.Provenance
		sc.Tip = fmt.Sprintf("%s\n%s℃\n%s℃",
			interaction.FormatDate(p.Year, p.Month),
			interaction.FormatTemperature(p.Temperature),
			interaction.FormatVariance(p.Variance))
	}
	return sc
}

// num keeps geometry readable; data attributes use the lossless form.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}
