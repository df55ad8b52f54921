package legend

import (
	"errors"
	"fmt"
	"sort"

	"github.com/egandro/temperature-heatmap/pkg/colormap"
	"github.com/egandro/temperature-heatmap/pkg/scale"
)

const (
	DefaultSteps = 9
	DefaultWidth = 400
	// swatch band height is derived from this total as in the layout: total/(steps+1)
	swatchHeightTotal = 300
)

var (
	ErrNoTemperatures   = errors.New("legend needs at least one temperature")
	ErrInvalidSteps     = errors.New("legend steps must be at least 1")
	ErrDegenerateDomain = errors.New("degenerate temperature domain")
)

// DomainDegenerateError is returned together with a usable single-color
// legend when the observed temperatures are identical or too close to bin.
type DomainDegenerateError struct {
	Value float64
}

func (e *DomainDegenerateError) Error() string {
	return fmt.Sprintf("temperature range at %.3f is too narrow to bin, legend falls back to a single color", e.Value)
}

func (e *DomainDegenerateError) Is(target error) bool {
	return target == ErrDegenerateDomain
}

// Options configures the legend. Steps drives both the number of sampled
// colors and the number of bins.
type Options struct {
	Steps int
	Width float64
}

// Swatch is one legend bin. Lo and Hi are always finite and clamped to [Min, Max].
type Swatch struct {
	Color string  `json:"color"`
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	X     float64 `json:"x"`
	Width float64 `json:"width"`
}

type Tick struct {
	Value float64 `json:"value"`
	X     float64 `json:"x"`
	Label string  `json:"label"`
}

// Legend is a threshold legend over the observed temperature range.
type Legend struct {
	Min          float64       `json:"min"`
	Max          float64       `json:"max"`
	Colors       []string      `json:"colors"`
	Breakpoints  []float64     `json:"breakpoints"`
	Swatches     []Swatch      `json:"swatches"`
	Ticks        []Tick        `json:"ticks"`
	Width        float64       `json:"width"`
	SwatchHeight float64       `json:"swatch_height"`
	Degenerate   bool          `json:"degenerate"`
	Scale        *scale.Linear `json:"-"`
}

// SampleColors evaluates interp at steps evenly spaced points strictly inside (0,1).
func SampleColors(interp colormap.Interpolator, steps int) []string {
	colors := make([]string, steps)
	for i := range colors {
		colors[i] = interp(float64(i+1) / float64(steps+1)).Hex()
	}
	return colors
}

// Breakpoints returns the count-1 interior boundaries of count equal bins over [lo, hi].
func Breakpoints(lo, hi float64, count int) []float64 {
	if count < 2 {
		return nil
	}
	step := (hi - lo) / float64(count)
	out := make([]float64, count-1)
	for i := range out {
		out[i] = lo + float64(i+1)*step
	}
	return out
}

// Build derives the legend from the rendered temperatures. min and max are
// taken from temperatures, never from the color calibration domain.
func Build(temperatures []float64, interp colormap.Interpolator, opts Options) (*Legend, error) {
	if len(temperatures) == 0 {
		return nil, ErrNoTemperatures
	}
	if opts.Steps < 1 {
		return nil, ErrInvalidSteps
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}

	lo, hi := temperatures[0], temperatures[0]
	for _, t := range temperatures[1:] {
		if t < lo {
			lo = t
		}
		if t > hi {
			hi = t
		}
	}

	l := &Legend{
		Min:          lo,
		Max:          hi,
		Width:        opts.Width,
		SwatchHeight: swatchHeightTotal / float64(opts.Steps+1),
		Scale:        scale.NewLinear(lo, hi, 0, opts.Width),
	}
	colors := SampleColors(interp, opts.Steps)

	bps := Breakpoints(lo, hi, opts.Steps)
	if lo == hi || !resolvable(lo, hi, bps) {
		l.Degenerate = true
		l.Colors = []string{colors[len(colors)/2]}
		l.Swatches = []Swatch{{Color: l.Colors[0], Lo: lo, Hi: hi, X: 0, Width: opts.Width}}
		l.Ticks = []Tick{{Value: lo, X: opts.Width / 2, Label: formatTick(lo)}}
		return l, &DomainDegenerateError{Value: lo}
	}

	l.Colors = colors
	l.Breakpoints = bps
	for i, c := range l.Colors {
		slo, shi := l.InvertExtent(i)
		x0, x1 := l.Scale.Scale(slo), l.Scale.Scale(shi)
		l.Swatches = append(l.Swatches, Swatch{Color: c, Lo: slo, Hi: shi, X: x0, Width: x1 - x0})
	}
	for _, b := range l.Breakpoints {
		l.Ticks = append(l.Ticks, Tick{Value: b, X: l.Scale.Scale(b), Label: formatTick(b)})
	}
	return l, nil
}

// resolvable reports whether bps split (lo, hi) into strictly increasing
// interior boundaries. Ranges only a few ulps wide collapse them.
func resolvable(lo, hi float64, bps []float64) bool {
	prev := lo
	for _, b := range bps {
		if b <= prev {
			return false
		}
		prev = b
	}
	return len(bps) == 0 || prev < hi
}

// Color is the threshold step function. Values below Min get the first
// color and values above Max the last.
func (l *Legend) Color(t float64) string {
	i := sort.Search(len(l.Breakpoints), func(i int) bool { return l.Breakpoints[i] > t })
	return l.Colors[i]
}

// InvertExtent returns the temperature interval covered by color i.
// The open ends are clamped to Min and Max.
func (l *Legend) InvertExtent(i int) (float64, float64) {
	lo, hi := l.Min, l.Max
	if i > 0 && i-1 < len(l.Breakpoints) {
		lo = l.Breakpoints[i-1]
	}
	if i < len(l.Breakpoints) {
		hi = l.Breakpoints[i]
	}
	return lo, hi
}

func formatTick(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
