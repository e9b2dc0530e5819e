package dom

import (
	"strings"

	"github.com/entrhq/annotator/pkg/geometry"
)

// Tree is a queryable rendered document.
type Tree interface {
	// Query returns the nodes matching a CSS selector (a comma separated list
	// counts as one query) in document order, without duplicates.
	Query(selector string) ([]Node, error)

	// Metrics reports viewport size, scroll offset and document size.
	Metrics() (Metrics, error)
}

// Node is a single element of a Tree.
type Node interface {
	// BoundingRect returns the element box relative to the viewport, the way
	// getBoundingClientRect does. Add Metrics.Scroll to get document coordinates.
	BoundingRect() (geometry.Rect, error)

	// Text returns the element's text content.
	Text() (string, error)

	// Style returns the computed properties that decide visibility.
	Style() (ComputedStyle, error)

	// Landmarks returns the landmark roles of the element and its ancestors.
	Landmarks() (LandmarkSet, error)

	// Attribute returns an attribute value and whether it is present.
	Attribute(name string) (string, bool, error)

	// RequestScroll asks the document to bring the element into view. It
	// returns immediately; geometry read afterwards may still be pre-scroll.
	RequestScroll()
}

// Metrics describes the current view of a document.
type Metrics struct {
	ViewportWidth  float64 `json:"viewportWidth"`
	ViewportHeight float64 `json:"viewportHeight"`
	ScrollX        float64 `json:"scrollX"`
	ScrollY        float64 `json:"scrollY"`
	DocumentWidth  float64 `json:"documentWidth"`
	DocumentHeight float64 `json:"documentHeight"`
}

// Viewport returns the visible area in document coordinates.
func (m Metrics) Viewport() geometry.Rect {
	return geometry.NewRect(m.ScrollX, m.ScrollY, m.ViewportWidth, m.ViewportHeight)
}

// Document returns the full document area.
func (m Metrics) Document() geometry.Rect {
	return geometry.NewRect(0, 0, m.DocumentWidth, m.DocumentHeight)
}

// ToDocument converts a viewport-relative rectangle to document coordinates.
func (m Metrics) ToDocument(r geometry.Rect) geometry.Rect {
	return r.Translate(m.ScrollX, m.ScrollY)
}

// ComputedStyle holds the subset of computed CSS the resolver looks at.
type ComputedStyle struct {
	Display    string  `json:"display"`
	Visibility string  `json:"visibility"`
	Opacity    float64 `json:"opacity"`
}

// DefaultStyle is the style of an element with no overrides.
func DefaultStyle() ComputedStyle {
	return ComputedStyle{Display: "block", Visibility: "visible", Opacity: 1}
}

// IsVisible reports whether an element with the given box and style can be
// seen: non-zero size, displayed, not hidden and not fully transparent.
func IsVisible(rect geometry.Rect, style ComputedStyle) bool {
	return rect.Width() > 0 && rect.Height() > 0 &&
		style.Display != "none" &&
		style.Visibility != "hidden" &&
		style.Opacity != 0
}

// NormalizeText trims and collapses runs of whitespace.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
