package overlay

import "github.com/entrhq/annotator/pkg/geometry"

// Renderer materializes visuals. Implementations exist for live browser pages
// and for in-memory documents.
type Renderer interface {
	// Measure returns the rendered size of a label or comment before it is
	// positioned. Highlights and underlines take their size from the target.
	Measure(v Visual) (geometry.Size, error)

	// Render draws a positioned visual.
	Render(v Visual) error

	// Remove deletes visuals by ID. Unknown IDs are ignored.
	Remove(ids []string) error

	// Existing lists the visuals currently on the page.
	Existing() ([]Visual, error)

	// Clear removes every visual and returns how many were removed.
	Clear() (int, error)
}
