package chart

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/egandro/temperature-heatmap/pkg/colormap"
	"github.com/egandro/temperature-heatmap/pkg/config"
	"github.com/egandro/temperature-heatmap/pkg/dataset"
	"github.com/egandro/temperature-heatmap/pkg/grid"
	"github.com/egandro/temperature-heatmap/pkg/legend"
	"github.com/egandro/temperature-heatmap/pkg/metrics"
	"github.com/egandro/temperature-heatmap/pkg/scale"
)

// Options holds the layout and color settings of a chart.
type Options struct {
	Width       float64 // plot area
	Height      float64
	Margins     config.Margins
	LegendSteps int
	LegendWidth float64
	Calibration [2]float64
	Palette     colormap.Interpolator
}

// OptionsFromConfig translates the service configuration.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	interp, err := colormap.ByName(cfg.Palette)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Width:       float64(cfg.PlotWidth()),
		Height:      float64(cfg.PlotHeight()),
		Margins:     cfg.Margins,
		LegendSteps: cfg.LegendSteps,
		LegendWidth: float64(cfg.LegendWidth),
		Calibration: [2]float64{cfg.CalibrationMin, cfg.CalibrationMax},
		Palette:     interp,
	}, nil
}

// AxisTick is a labelled tick at the center of its band.
type AxisTick struct {
	Value int
	Pos   float64
	Label string
}

// Chart is the fully built, immutable heat map.
type Chart struct {
	Options     Options
	Dataset     *dataset.Dataset
	X, Y        *scale.Band
	Color       *scale.Sequential
	Grid        *grid.Grid
	Legend      *legend.Legend
	XTicks      []AxisTick
	YTicks      []AxisTick
	Description string
}

// Build runs the scale, grid and legend stages once over a fully ingested dataset.
// A degenerate temperature domain is not fatal: the chart is returned with a
// single-color legend alongside a *legend.DomainDegenerateError.
func Build(ds *dataset.Dataset, opts Options) (*Chart, error) {
	if ds == nil {
		return nil, errors.New("chart needs an ingested dataset")
	}
	if opts.Palette == nil {
		opts.Palette = colormap.Turbo
	}

	x, y := scale.BuildPositionScales(ds, opts.Width, opts.Height)
	color := scale.BuildColorScale(opts.Calibration, opts.Palette)

	g, err := grid.Render(ds, x, y, color)
	if err != nil {
		return nil, fmt.Errorf("render grid: %w", err)
	}

	c := &Chart{
		Options:     opts,
		Dataset:     ds,
		X:           x,
		Y:           y,
		Color:       color,
		Grid:        g,
		Description: Description(ds),
	}

	for _, yr := range scale.DecadeTicks(x.Domain()) {
		pos, _ := x.Scale(yr)
		c.XTicks = append(c.XTicks, AxisTick{Value: yr, Pos: pos + x.Bandwidth()/2, Label: scale.FormatYear(yr)})
	}
	for _, m := range scale.MonthTicks() {
		pos, _ := y.Scale(m)
		c.YTicks = append(c.YTicks, AxisTick{Value: m, Pos: pos + y.Bandwidth()/2, Label: scale.MonthName(m)})
	}

	lg, lerr := legend.Build(g.Temperatures(), color.Interpolator(), legend.Options{
		Steps: opts.LegendSteps,
		Width: opts.LegendWidth,
	})
	if lerr != nil && !errors.Is(lerr, legend.ErrDegenerateDomain) {
		return nil, fmt.Errorf("build legend: %w", lerr)
	}
	c.Legend = lg
	return c, lerr
}

// Description is the caption under the title, e.g. "1753 - 2015: base temperature 8.66℃".
func Description(ds *dataset.Dataset) string {
	return fmt.Sprintf("%d - %d: base temperature %s℃",
		ds.FirstYear(), ds.LastYear(), strconv.FormatFloat(ds.BaseTemperature(), 'f', -1, 64))
}

// Builder wraps Build with logging and metrics.
type Builder struct {
	clock   clockwork.Clock
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewBuilder creates a builder. metrics may be nil.
func NewBuilder(m *metrics.Metrics, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{clock: clockwork.NewRealClock(), metrics: m, logger: logger}
}

// WithClock swaps the time source used for durations.
func (b *Builder) WithClock(c clockwork.Clock) *Builder {
	b.clock = c
	return b
}

// Build builds the chart and reports a degenerate legend as a warning only.
func (b *Builder) Build(ds *dataset.Dataset, opts Options) (*Chart, error) {
	start := b.clock.Now()
	c, err := Build(ds, opts)

	var de *legend.DomainDegenerateError
	switch {
	case errors.As(err, &de):
		b.logger.Warn("Legend falls back to a single color", "temperature", de.Value)
	case err != nil:
		return nil, err
	}

	d := b.clock.Since(start)
	if b.metrics != nil {
		b.metrics.RenderDuration.Observe(d.Seconds())
		if c.Legend.Degenerate {
			b.metrics.LegendDegenerate.Set(1)
		} else {
			b.metrics.LegendDegenerate.Set(0)
		}
	}
	b.logger.Info("Chart built",
		"cells", c.Grid.Len(),
		"years", len(c.X.Domain()),
		"legend_min", c.Legend.Min,
		"legend_max", c.Legend.Max,
		"duration", d.Round(time.Microsecond))
	return c, nil
}
