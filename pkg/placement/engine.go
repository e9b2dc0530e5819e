// Package placement positions labels and callout comments next to a target
// rectangle without covering the target, without colliding with regions that
// are already occupied and, for callouts, inside the viewport when possible.
//
// Place never fails. When every candidate position conflicts it returns a
// documented fallback and marks the result Degraded.
package placement

import (
	"github.com/entrhq/annotator/pkg/geometry"
)

// Mode selects the placement strategy.
type Mode int

const (
	// ModeLabel places a short tag above the target's top-left corner.
	ModeLabel Mode = iota
	// ModeCallout places a bubble on a preferred side of the target.
	ModeCallout
)

func (m Mode) String() string {
	if m == ModeCallout {
		return "callout"
	}
	return "label"
}

// Config holds the placement constants.
type Config struct {
	// LabelGutter is the gap between a label and the top of its target.
	LabelGutter float64
	// LabelFallbackGap is the gap used when every label offset conflicts.
	LabelFallbackGap float64
	// LabelOffsets are tried vertically first, then horizontally.
	LabelOffsets []float64
	// LabelMargin separates labels from occupied regions.
	LabelMargin float64
	// LabelTargetMargin applies against the label's own target.
	LabelTargetMargin float64

	// CalloutGap is the distance between a callout and its target.
	CalloutGap float64
	// CalloutSpacing is added to the callout size for each search step.
	CalloutSpacing float64
	// CalloutMargin separates callouts from occupied regions.
	CalloutMargin float64
	// CalloutTargetMargin applies against the callout's own target.
	CalloutTargetMargin float64
	// CalloutRings is how many multiples of each compass step are searched.
	CalloutRings int

	// ViewportInset keeps clamped callouts off the viewport edge.
	ViewportInset float64
}

// DefaultConfig returns the standard constants.
func DefaultConfig() Config {
	return Config{
		LabelGutter:       10,
		LabelFallbackGap:  40,
		LabelOffsets:      []float64{-10, -20, -30, -40, -50, -60, 10, 20, 30, 40, 50},
		LabelMargin:       5,
		LabelTargetMargin: -2,

		CalloutGap:          15,
		CalloutSpacing:      15,
		CalloutMargin:       10,
		CalloutTargetMargin: -5,
		CalloutRings:        3,

		ViewportInset: 10,
	}
}

// Region is an occupied rectangle. A region with HasMargin set is compared
// using Margin instead of the mode's default margin.
type Region struct {
	Rect      geometry.Rect
	Margin    float64
	HasMargin bool
}

// Occupied wraps a rectangle as a region using the default margin.
func Occupied(r geometry.Rect) Region {
	return Region{Rect: r}
}

// OccupiedWithMargin wraps a rectangle with a margin override.
func OccupiedWithMargin(r geometry.Rect, margin float64) Region {
	return Region{Rect: r, Margin: margin, HasMargin: true}
}

// Request describes one visual to place.
type Request struct {
	Mode Mode
	// Size is the measured size of the visual.
	Size geometry.Size
	// Target is the annotated element in document coordinates.
	Target geometry.Rect
	// Anchor is the preferred side for callouts. Empty means right.
	Anchor geometry.Direction
	// Viewport is the visible area in document coordinates.
	Viewport geometry.Rect
}

// Result is a concrete position.
type Result struct {
	Left float64
	Top  float64
	// Side is where the visual sits relative to its target after edge
	// correction. Labels always report top.
	Side geometry.Direction
	// Arrow is the edge of a callout its pointer is drawn on. Empty for labels.
	Arrow geometry.Direction
	// Shifted reports that collision search moved the visual.
	Shifted bool
	// Degraded reports that no conflict-free position was found.
	Degraded bool
}

// Rect returns the placed rectangle for a visual of the given size.
func (r Result) Rect(size geometry.Size) geometry.Rect {
	return geometry.Point{Left: r.Left, Top: r.Top}.Rect(size)
}

// Engine places visuals. It is stateless and safe for concurrent use.
type Engine struct {
	cfg Config
}

// New creates an engine.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the engine's constants.
func (e *Engine) Config() Config {
	return e.cfg
}

// Place computes the position for req given the regions already occupied.
// The result depends only on its inputs.
func (e *Engine) Place(req Request, occupied []Region) Result {
	if req.Mode == ModeCallout {
		return e.placeCallout(req, occupied)
	}
	return e.placeLabel(req, occupied)
}

type checker struct {
	target       geometry.Rect
	targetMargin float64
	margin       float64
	occupied     []Region
}

func (c checker) conflicts(r geometry.Rect) bool {
	if geometry.Overlaps(r, c.target, c.targetMargin) {
		return true
	}
	for _, o := range c.occupied {
		margin := c.margin
		if o.HasMargin {
			margin = o.Margin
		}
		if geometry.Overlaps(r, o.Rect, margin) {
			return true
		}
	}
	return false
}
