package grid

import (
	"fmt"
	"strconv"

	"github.com/egandro/temperature-heatmap/pkg/dataset"
	"github.com/egandro/temperature-heatmap/pkg/scale"
)

// Attribute names carried by every rendered cell.
const (
	AttrYear        = "data-year"
	AttrMonth       = "data-month"
	AttrTemperature = "data-temp"
	AttrVariance    = "data-var"
)

// CellID indexes a cell inside its Grid.
type CellID int

// Provenance is the source sample a cell was rendered from. Month is zero-based.
type Provenance struct {
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	Temperature float64 `json:"temperature"`
	Variance    float64 `json:"variance"`
}

// Cell is one positioned, colored rectangle of the heat map.
type Cell struct {
	ID         CellID     `json:"id"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Fill       string     `json:"fill"`
	Provenance Provenance `json:"provenance"`
}

// ColorScale is satisfied by scale.Sequential.
type ColorScale interface {
	Color(t float64) string
}

// Grid holds the cells in source order; a cell's ID is its index.
type Grid struct {
	cells []Cell
}

// Render emits one cell per observation.
func Render(ds *dataset.Dataset, x, y *scale.Band, color ColorScale) (*Grid, error) {
	base := ds.BaseTemperature()
	g := &Grid{cells: make([]Cell, 0, ds.Len())}

	for i, o := range ds.Observations() {
		px, ok := x.Scale(o.Year)
		if !ok {
			return nil, fmt.Errorf("year %d is not in the x domain", o.Year)
		}
		py, ok := y.Scale(o.Month)
		if !ok {
			return nil, fmt.Errorf("month %d is not in the y domain", o.Month)
		}
		temp := o.Temperature(base)
		g.cells = append(g.cells, Cell{
			ID:     CellID(i),
			X:      px,
			Y:      py,
			Width:  x.Bandwidth(),
			Height: y.Bandwidth(),
			Fill:   color.Color(temp),
			Provenance: Provenance{
				Year:        o.Year,
				Month:       o.Month,
				Temperature: temp,
				Variance:    o.Variance,
			},
		})
	}
	return g, nil
}

func (g *Grid) Len() int {
	return len(g.cells)
}

// Cells returns a copy of all cells.
func (g *Grid) Cells() []Cell {
	return append([]Cell(nil), g.cells...)
}

// Cell returns the cell with the given id.
func (g *Grid) Cell(id CellID) (Cell, bool) {
	if id < 0 || int(id) >= len(g.cells) {
		return Cell{}, false
	}
	return g.cells[id], true
}

// Lookup returns the provenance of a cell.
func (g *Grid) Lookup(id CellID) (Provenance, bool) {
	c, ok := g.Cell(id)
	return c.Provenance, ok
}

// Temperatures lists the rendered absolute temperatures.
func (g *Grid) Temperatures() []float64 {
	out := make([]float64, len(g.cells))
	for i, c := range g.cells {
		out[i] = c.Provenance.Temperature
	}
	return out
}

// Attributes formats the provenance as element attributes. Floats use the
// shortest representation that parses back to the same value.
func (p Provenance) Attributes() map[string]string {
	return map[string]string{
		AttrYear:        strconv.Itoa(p.Year),
		AttrMonth:       strconv.Itoa(p.Month),
		AttrTemperature: strconv.FormatFloat(p.Temperature, 'g', -1, 64),
		AttrVariance:    strconv.FormatFloat(p.Variance, 'g', -1, 64),
	}
}

// AttributeParseError reports a missing or unparsable provenance attribute.
type AttributeParseError struct {
	Attr  string
	Value string
	Err   error
}

func (e *AttributeParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("attribute %s missing", e.Attr)
	}
	return fmt.Sprintf("attribute %s=%q: %v", e.Attr, e.Value, e.Err)
}

func (e *AttributeParseError) Unwrap() error {
	return e.Err
}

// ParseAttributes is the inverse of Provenance.Attributes.
func ParseAttributes(attrs map[string]string) (Provenance, error) {
	var p Provenance
	var err error

	if p.Year, err = parseInt(attrs, AttrYear); err != nil {
		return Provenance{}, err
	}
	if p.Month, err = parseInt(attrs, AttrMonth); err != nil {
		return Provenance{}, err
	}
	if p.Month < 0 || p.Month >= dataset.MonthsPerYear {
		return Provenance{}, &AttributeParseError{Attr: AttrMonth, Value: attrs[AttrMonth], Err: fmt.Errorf("month index out of range")}
	}
	if p.Temperature, err = parseFloat(attrs, AttrTemperature); err != nil {
		return Provenance{}, err
	}
	if p.Variance, err = parseFloat(attrs, AttrVariance); err != nil {
		return Provenance{}, err
	}
	return p, nil
}

func parseInt(attrs map[string]string, key string) (int, error) {
	v, ok := attrs[key]
	if !ok {
		return 0, &AttributeParseError{Attr: key}
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, &AttributeParseError{Attr: key, Value: v, Err: err}
	}
	return i, nil
}

func parseFloat(attrs map[string]string, key string) (float64, error) {
	v, ok := attrs[key]
	if !ok {
		return 0, &AttributeParseError{Attr: key}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, &AttributeParseError{Attr: key, Value: v, Err: err}
	}
	return f, nil
}
