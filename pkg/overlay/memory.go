package overlay

import (
	"fmt"
	"math"
	"sync"
	"unicode/utf8"

	"github.com/entrhq/annotator/pkg/geometry"
)

// averageGlyphWidth approximates the advance of one character as a fraction
// of the font size for the sans-serif fonts used by labels and comments.
const averageGlyphWidth = 0.6

// MemoryRenderer keeps visuals in memory and measures text with fixed glyph
// metrics. It backs static documents and tests.
type MemoryRenderer struct {
	mu      sync.Mutex
	visuals []Visual

	// FailOn makes Render fail for the visual with this ID.
	FailOn string
}

// NewMemoryRenderer creates an empty renderer.
func NewMemoryRenderer() *MemoryRenderer {
	return &MemoryRenderer{}
}

// Measure implements Renderer.
func (m *MemoryRenderer) Measure(v Visual) (geometry.Size, error) {
	return MeasureText(v.Text, v.Metrics()), nil
}

// MeasureText estimates the rendered box of text under the given metrics,
// wrapping at MaxWidth when set.
func MeasureText(text string, bm BoxMetrics) geometry.Size {
	glyph := bm.FontSize * averageGlyphWidth
	if bm.Bold {
		glyph *= 1.1
	}
	chars := utf8.RuneCountInString(bm.Icon + text)
	textWidth := float64(chars) * glyph
	frameX := 2*bm.PaddingX + bm.Border + bm.BorderLeft
	frameY := 2*bm.PaddingY + 2*bm.Border
	lineHeight := bm.FontSize * bm.LineHeight

	lines := 1.0
	if bm.MaxWidth > 0 && textWidth+frameX > bm.MaxWidth {
		content := bm.MaxWidth - frameX
		perLine := math.Max(1, math.Floor(content/glyph))
		lines = math.Ceil(float64(chars) / perLine)
		textWidth = content
	}

	return geometry.Size{
		Width:  math.Ceil(textWidth + frameX),
		Height: math.Ceil(lines*lineHeight + frameY),
	}
}

// Render implements Renderer.
func (m *MemoryRenderer) Render(v Visual) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailOn != "" && v.ID == m.FailOn {
		return fmt.Errorf("render refused for %s", v.ID)
	}
	m.visuals = append(m.visuals, v)
	return nil
}

// Remove implements Renderer.
func (m *MemoryRenderer) Remove(ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := m.visuals[:0]
	for _, v := range m.visuals {
		if !drop[v.ID] {
			kept = append(kept, v)
		}
	}
	m.visuals = kept
	return nil
}

// Existing implements Renderer.
func (m *MemoryRenderer) Existing() ([]Visual, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Visual(nil), m.visuals...), nil
}

// Clear implements Renderer.
func (m *MemoryRenderer) Clear() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.visuals)
	m.visuals = nil
	return n, nil
}
