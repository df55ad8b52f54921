package svg

import (
	"html/template"

	"github.com/egandro/temperature-heatmap/pkg/chart"
)

// Mode selects how the SVG is emitted.
type Mode int

const (
	// ModeStandalone renders a self-contained SVG image with its own heading.
	ModeStandalone Mode = iota
	// ModeInline renders the SVG element for embedding into the HTML page.
	ModeInline
)

// DefaultTitle is the document heading.
const DefaultTitle = "Monthly Global Land-Surface Temperature"

const (
	headerHeight    = 60
	legendInset     = 35
	legendGap       = 22
	tickSize        = 6
	xLabelOffset    = 40
	yLabelOffset    = -50
	tooltipFontSize = 14
)

// Heatmap renders a built chart as SVG or as a full HTML page.
type Heatmap struct {
	chart   *chart.Chart
	title   string
	mode    Mode
	offline bool
}

type svgLabel struct {
	X, Y string
	Text string
}

type svgTick struct {
	Pos  string
	Text string
}

type svgCell struct {
	ID                     int
	X, Y, Width, Height    string
	Fill                   string
	Year, Month, Temp, Var string
	Tip                    string
}

type svgSwatch struct {
	X, Width string
	Fill     string
	Lo, Hi   string
}

type svgData struct {
	Standalone bool
	Width      int
	Height     int
	OffsetX    int
	OffsetY    int
	CenterX    int
	Title      string
	Subtitle   string

	PlotWidth  string
	PlotHeight string
	TickSize   int

	Cells  []svgCell
	XTicks []svgTick
	YTicks []svgTick
	XLabel svgLabel
	YLabel svgLabel

	LegendX      string
	LegendY      string
	SwatchHeight string
	LegendWidth  string
	Swatches     []svgSwatch
	LegendTicks  []svgTick
}

type pageData struct {
	Title       string
	Description string
	SVG         template.HTML
	PointerURL  string
	FontSize    int
}
