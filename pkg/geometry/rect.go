// Package geometry holds the axis-aligned rectangle math shared by the
// resolver and the placement engine. All coordinates are document
// coordinates (viewport coordinates plus the scroll offset) unless a
// function says otherwise.
package geometry

import "fmt"

// Rect is an axis-aligned bounding box.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// NewRect builds a Rect from an origin and a size. Negative sizes collapse to 0
// so Right >= Left and Bottom >= Top always hold.
func NewRect(left, top, width, height float64) Rect {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return Rect{Left: left, Top: top, Right: left + width, Bottom: top + height}
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the vertical extent.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size {
	return Size{Width: r.Width(), Height: r.Height()}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{Left: r.Left, Top: r.Top}
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Translate returns the rectangle moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// IntersectsVertically reports whether r and other share any vertical span.
// Used to decide whether a target is on screen at all.
func (r Rect) IntersectsVertically(other Rect) bool {
	return r.Top < other.Bottom && r.Bottom > other.Top
}

// Contains reports whether other lies fully inside r.
func (r Rect) Contains(other Rect) bool {
	return other.Left >= r.Left && other.Right <= r.Right &&
		other.Top >= r.Top && other.Bottom <= r.Bottom
}

func (r Rect) String() string {
	return fmt.Sprintf("(%.1f,%.1f %.1fx%.1f)", r.Left, r.Top, r.Width(), r.Height())
}

// Overlaps reports whether a and b collide once both are inflated by margin.
// A positive margin keeps rectangles apart; a negative margin lets them touch
// or slightly overlap without counting as a collision.
func Overlaps(a, b Rect, margin float64) bool {
	return !(a.Right+margin < b.Left ||
		a.Left-margin > b.Right ||
		a.Bottom+margin < b.Top ||
		a.Top-margin > b.Bottom)
}

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is a top-left position.
type Point struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

// Rect returns the rectangle of the given size anchored at p.
func (p Point) Rect(size Size) Rect {
	return NewRect(p.Left, p.Top, size.Width, size.Height)
}
