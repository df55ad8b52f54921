package scale

import (
	"strconv"
	"time"

	"github.com/egandro/temperature-heatmap/pkg/colormap"
	"github.com/egandro/temperature-heatmap/pkg/dataset"
)

// Band maps a discrete, ascending integer domain onto equal slots of [0, extent].
type Band struct {
	domain []int
	index  map[int]int
	extent float64
}

// NewBand creates a band scale. The domain must already be ascending.
func NewBand(domain []int, extent float64) *Band {
	b := &Band{
		domain: append([]int(nil), domain...),
		index:  make(map[int]int, len(domain)),
		extent: extent,
	}
	for i, v := range b.domain {
		b.index[v] = i
	}
	return b
}

// Scale returns the band origin of v, or false if v is not in the domain.
func (b *Band) Scale(v int) (float64, bool) {
	i, ok := b.index[v]
	if !ok {
		return 0, false
	}
	return float64(i) * b.Bandwidth(), true
}

func (b *Band) Bandwidth() float64 {
	if len(b.domain) == 0 {
		return 0
	}
	return b.extent / float64(len(b.domain))
}

func (b *Band) Domain() []int {
	return append([]int(nil), b.domain...)
}

func (b *Band) Extent() float64 {
	return b.extent
}

// BuildPositionScales derives the year (x) and month (y) band scales.
func BuildPositionScales(ds *dataset.Dataset, width, height float64) (*Band, *Band) {
	return NewBand(ds.Years(), width), NewBand(ds.Months(), height)
}

// Linear is a continuous scale mapping [d0,d1] onto [r0,r1].
// A zero-width domain maps every value to r0.
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

func NewLinear(d0, d1, r0, r1 float64) *Linear {
	return &Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

func (l *Linear) Scale(v float64) float64 {
	if l.d1 == l.d0 {
		return l.r0
	}
	return l.r0 + (v-l.d0)/(l.d1-l.d0)*(l.r1-l.r0)
}

func (l *Linear) Invert(px float64) float64 {
	if l.r1 == l.r0 {
		return l.d0
	}
	return l.d0 + (px-l.r0)/(l.r1-l.r0)*(l.d1-l.d0)
}

func (l *Linear) Domain() (float64, float64) {
	return l.d0, l.d1
}

func (l *Linear) Range() (float64, float64) {
	return l.r0, l.r1
}

// Sequential maps temperatures onto a color interpolator over a fixed
// calibration domain. It does not depend on the data being rendered.
type Sequential struct {
	domain [2]float64
	interp colormap.Interpolator
}

// BuildColorScale creates the temperature color scale.
func BuildColorScale(domain [2]float64, interp colormap.Interpolator) *Sequential {
	return &Sequential{domain: domain, interp: interp}
}

// Color returns the fill for temperature t as #rrggbb.
func (s *Sequential) Color(t float64) string {
	return s.interp(s.normalize(t)).Hex()
}

func (s *Sequential) normalize(t float64) float64 {
	span := s.domain[1] - s.domain[0]
	if span == 0 {
		return 0.5
	}
	return (t - s.domain[0]) / span
}

func (s *Sequential) Domain() [2]float64 {
	return s.domain
}

// Interpolator exposes the underlying continuous color function.
func (s *Sequential) Interpolator() colormap.Interpolator {
	return s.interp
}

// DecadeTicks keeps the years divisible by ten.
func DecadeTicks(years []int) []int {
	var ticks []int
	for _, y := range years {
		if y%10 == 0 {
			ticks = append(ticks, y)
		}
	}
	return ticks
}

func FormatYear(year int) string {
	return strconv.Itoa(year)
}

// MonthTicks returns every zero-based month index.
func MonthTicks() []int {
	ticks := make([]int, dataset.MonthsPerYear)
	for i := range ticks {
		ticks[i] = i
	}
	return ticks
}

// MonthName converts a zero-based month index into its English name.
func MonthName(index int) string {
	return time.Month(index + 1).String()
}
