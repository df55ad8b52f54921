package colormap

import (
	"fmt"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// Interpolator maps a normalized value t in [0,1] to a color.
// Values outside [0,1] are clamped.
type Interpolator func(t float64) colorful.Color

const (
	PaletteTurbo  = "turbo"
	PaletteRdYlBu = "rdylbu"
)

var palettes = map[string]Interpolator{
	PaletteTurbo:  Turbo,
	PaletteRdYlBu: RdYlBu,
}

// ByName returns the interpolator registered under name.
func ByName(name string) (Interpolator, error) {
	if ip, ok := palettes[name]; ok {
		return ip, nil
	}
	return nil, fmt.Errorf("unknown palette %q (available: %v)", name, Names())
}

// Names lists the registered palettes.
func Names() []string {
	names := make([]string, 0, len(palettes))
	for n := range palettes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func channel(v float64) float64 {
	return math.Max(0, math.Min(255, math.Round(v))) / 255
}

// Turbo is the polynomial approximation of Google's Turbo colormap
// (Mikhailov 2019), quantized to 8 bits per channel.
func Turbo(t float64) colorful.Color {
	t = clamp01(t)
	return colorful.Color{
		R: channel(34.61 + t*(1172.33-t*(10793.56-t*(33300.12-t*(38394.49-t*14825.05))))),
		G: channel(23.31 + t*(557.33+t*(1225.33-t*(3574.96-t*(1073.77+t*707.56))))),
		B: channel(27.2 + t*(3211.1-t*(15327.97-t*(27814-t*(22569.18-t*6838.66))))),
	}
}

// RdYlBu_r colormap (Blue -> Yellow -> Red)
// Approximated from Matplotlib's RdYlBu_r
var rdylbuStops = []struct {
	val float64
	col colorful.Color
}{
	{0.00, rgb(49, 54, 149)},   // Deep Blue
	{0.25, rgb(116, 173, 209)}, // Light Blue
	{0.50, rgb(255, 255, 191)}, // Pale Yellow
	{0.75, rgb(253, 174, 97)},  // Orange
	{1.00, rgb(215, 48, 39)},   // Red
}

func rgb(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// RdYlBu interpolates linearly in RGB between the stops above.
func RdYlBu(t float64) colorful.Color {
	t = clamp01(t)

	// Find the segment t falls into
	for i := 0; i < len(rdylbuStops)-1; i++ {
		lo, hi := rdylbuStops[i], rdylbuStops[i+1]
		if t >= lo.val && t <= hi.val {
			f := (t - lo.val) / (hi.val - lo.val)
			return lo.col.BlendRgb(hi.col, f).Clamped()
		}
	}
	return rdylbuStops[len(rdylbuStops)-1].col
}

// TextColor picks black or white text for legibility on top of c.
// Standard luminance formula: 0.299R + 0.587G + 0.114B
func TextColor(c colorful.Color) string {
	r, g, b := c.RGB255()
	lum := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
	if lum < 128 {
		return "white"
	}
	return "black"
}
