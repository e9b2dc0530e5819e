package overlay

import (
	"errors"
	"fmt"
	"sync"

	"github.com/entrhq/annotator/pkg/geometry"
	"github.com/entrhq/annotator/pkg/placement"
)

// Surface tracks the annotations of one page and the regions they occupy.
// Its lifecycle is create, mutate per request, clear.
type Surface struct {
	mu          sync.Mutex
	renderer    Renderer
	annotations []Visual
}

// NewSurface creates an empty surface drawing through r.
func NewSurface(r Renderer) *Surface {
	return &Surface{renderer: r}
}

// Renderer returns the surface's renderer.
func (s *Surface) Renderer() Renderer {
	return s.renderer
}

// Sync reloads the annotation list from the renderer so visuals placed by
// other means, or lost to a navigation, are accounted for.
func (s *Surface) Sync() error {
	existing, err := s.renderer.Existing()
	if err != nil {
		return fmt.Errorf("failed to list existing annotations: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.annotations = existing
	return nil
}

// Occupied returns the regions later labels and comments must avoid.
func (s *Surface) Occupied() []placement.Region {
	s.mu.Lock()
	defer s.mu.Unlock()

	var regions []placement.Region
	for _, v := range s.annotations {
		if v.Kind.Occupies() {
			regions = append(regions, placement.Occupied(v.Rect))
		}
	}
	return regions
}

// Measure sizes a visual. Highlights and underlines are not measured.
func (s *Surface) Measure(v Visual) (geometry.Size, error) {
	switch v.Kind {
	case KindHighlight:
		return v.Target.Size(), nil
	case KindUnderline:
		return geometry.Size{Width: v.Target.Width(), Height: UnderlineHeight}, nil
	}
	size, err := s.renderer.Measure(v)
	if err != nil {
		return geometry.Size{}, fmt.Errorf("failed to measure %s: %w", v.Kind, err)
	}
	return size, nil
}

// Commit renders a batch. Either every visual is rendered and recorded, or
// the ones already drawn are removed again and an error is returned.
func (s *Surface) Commit(batch []Visual) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rendered := make([]string, 0, len(batch))
	for _, v := range batch {
		if err := s.renderer.Render(v); err != nil {
			renderErr := fmt.Errorf("failed to render %s %s: %w", v.Kind, v.ID, err)
			if len(rendered) > 0 {
				if rmErr := s.renderer.Remove(rendered); rmErr != nil {
					return errors.Join(renderErr, fmt.Errorf("rollback failed: %w", rmErr))
				}
			}
			return renderErr
		}
		rendered = append(rendered, v.ID)
	}
	s.annotations = append(s.annotations, batch...)
	return nil
}

// Clear removes every annotation.
func (s *Surface) Clear() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.renderer.Clear()
	if err != nil {
		return 0, fmt.Errorf("failed to clear annotations: %w", err)
	}
	s.annotations = nil
	return n, nil
}

// Annotations returns a copy of the tracked annotations.
func (s *Surface) Annotations() []Visual {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Visual(nil), s.annotations...)
}

// UnderlineHeight is the thickness of a comment underline.
const UnderlineHeight = 2
