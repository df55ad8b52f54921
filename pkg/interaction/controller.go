package interaction

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/egandro/temperature-heatmap/pkg/grid"
	"github.com/egandro/temperature-heatmap/pkg/scale"
)

// HighlightStroke is the outline of the hovered cell.
const HighlightStroke = "#000"

// DefaultOffset keeps the tooltip clear of the pointer.
var DefaultOffset = Point{X: 50, Y: 0}

var ErrUnknownCell = errors.New("unknown cell")

// Point is a screen position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CellIndex resolves a rendered cell to its source sample. *grid.Grid implements it.
type CellIndex interface {
	Lookup(id grid.CellID) (grid.Provenance, bool)
}

// TooltipState is what the tooltip layer shows. Opacity is 0 or 1.
type TooltipState struct {
	Opacity     int          `json:"opacity"`
	Year        int          `json:"year,omitempty"`
	Date        string       `json:"date,omitempty"`
	Temperature string       `json:"temperature,omitempty"`
	Variance    string       `json:"variance,omitempty"`
	Position    Point        `json:"position"`
	Highlight   *grid.CellID `json:"highlight,omitempty"`
}

func (s TooltipState) Visible() bool {
	return s.Opacity == 1
}

// Controller drives the tooltip from pointer events. It assumes a single
// pointer: at most one cell is hovered at any time.
type Controller struct {
	mu     sync.Mutex
	index  CellIndex
	offset Point
	logger *slog.Logger

	hovering bool
	cell     grid.CellID
	state    TooltipState
}

// New creates a controller over the given cell index.
func New(index CellIndex, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{index: index, offset: DefaultOffset, logger: logger}
}

// SetOffset changes the tooltip offset from the pointer.
func (c *Controller) SetOffset(p Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset = p
}

// Enter moves the controller to the hovering state for cell id.
// An unknown id leaves the tooltip untouched.
func (c *Controller) Enter(id grid.CellID, at Point) error {
	p, ok := c.index.Lookup(id)
	if !ok {
		c.logger.Debug("Pointer entered unknown cell", "cell", id)
		return fmt.Errorf("%w: %d", ErrUnknownCell, id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.hover(id, p, at)
	return nil
}

// EnterElement is Enter for hosts that only hand over the element's
// provenance attributes. Parse failures leave the tooltip untouched.
func (c *Controller) EnterElement(id grid.CellID, attrs map[string]string, at Point) error {
	p, err := grid.ParseAttributes(attrs)
	if err != nil {
		c.logger.Debug("Ignoring pointer event with bad attributes", "cell", id, "error", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.hover(id, p, at)
	return nil
}

func (c *Controller) hover(id grid.CellID, p grid.Provenance, at Point) {
	c.hovering = true
	c.cell = id
	c.state = TooltipState{
		Opacity:     1,
		Year:        p.Year,
		Date:        FormatDate(p.Year, p.Month),
		Temperature: FormatTemperature(p.Temperature),
		Variance:    FormatVariance(p.Variance),
		Position:    c.track(at),
		Highlight:   &c.cell,
	}
}

// Move repositions the tooltip. It does nothing while idle.
func (c *Controller) Move(at Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hovering {
		return
	}
	c.state.Position = c.track(at)
}

// Leave hides the tooltip and clears the highlight.
func (c *Controller) Leave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hovering = false
	c.state.Opacity = 0
	c.state.Highlight = nil
}

// State returns a snapshot of the tooltip.
func (c *Controller) State() TooltipState {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	if s.Highlight != nil {
		id := *s.Highlight
		s.Highlight = &id
	}
	return s
}

// Stroke returns the outline for cell id.
func (c *Controller) Stroke(id grid.CellID) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hovering && c.cell == id {
		return HighlightStroke
	}
	return "none"
}

func (c *Controller) track(at Point) Point {
	return Point{X: at.X + c.offset.X, Y: at.Y + c.offset.Y}
}

// FormatDate renders a zero-based month index and year as "January, 2000".
func FormatDate(year, month int) string {
	return fmt.Sprintf("%s, %d", scale.MonthName(month), year)
}

func FormatTemperature(t float64) string {
	return fmt.Sprintf("%.1f", dropNegativeZero(t))
}

// FormatVariance always carries a sign.
func FormatVariance(v float64) string {
	return fmt.Sprintf("%+.1f", dropNegativeZero(v))
}

// dropNegativeZero keeps values that round to zero from printing as "-0.0".
func dropNegativeZero(v float64) float64 {
	if math.Abs(v) < 0.05 {
		return 0
	}
	return v
}
