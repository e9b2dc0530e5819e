package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRect(t *testing.T) {
	r := NewRect(10, 20, 30, 40)
	assert.Equal(t, 10.0, r.Left)
	assert.Equal(t, 20.0, r.Top)
	assert.Equal(t, 40.0, r.Right)
	assert.Equal(t, 60.0, r.Bottom)
	assert.Equal(t, 30.0, r.Width())
	assert.Equal(t, 40.0, r.Height())
	assert.False(t, r.IsEmpty())

	collapsed := NewRect(5, 5, -3, -1)
	assert.Equal(t, 0.0, collapsed.Width())
	assert.Equal(t, 0.0, collapsed.Height())
	assert.True(t, collapsed.IsEmpty())
}

func TestOverlaps(t *testing.T) {
	base := NewRect(0, 0, 100, 20)

	tests := []struct {
		name   string
		other  Rect
		margin float64
		want   bool
	}{
		{"identical", base, 0, true},
		{"far right", NewRect(200, 0, 10, 10), 5, false},
		{"gap smaller than margin", NewRect(103, 0, 10, 10), 5, true},
		{"gap larger than margin", NewRect(110, 0, 10, 10), 5, false},
		{"touching edge", NewRect(100, 0, 10, 10), 0, true},
		{"touching edge with negative margin", NewRect(100, 0, 10, 10), -2, false},
		{"slight overlap tolerated", NewRect(99, 0, 10, 10), -2, false},
		{"real overlap with negative margin", NewRect(90, 0, 10, 10), -2, true},
		{"above", NewRect(0, -50, 100, 20), 10, false},
		{"just above within margin", NewRect(0, -25, 100, 20), 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(base, tt.other, tt.margin))
			assert.Equal(t, tt.want, Overlaps(tt.other, base, tt.margin), "overlap must be symmetric")
		})
	}
}

func TestTranslateAndContains(t *testing.T) {
	r := NewRect(0, 0, 10, 10).Translate(5, -5)
	assert.Equal(t, Rect{Left: 5, Top: -5, Right: 15, Bottom: 5}, r)

	outer := NewRect(0, 0, 100, 100)
	assert.True(t, outer.Contains(NewRect(10, 10, 10, 10)))
	assert.False(t, outer.Contains(NewRect(95, 10, 10, 10)))
	assert.True(t, outer.IntersectsVertically(NewRect(500, 90, 10, 50)))
	assert.False(t, outer.IntersectsVertically(NewRect(0, 100, 10, 10)))
}

func TestPointRect(t *testing.T) {
	p := Point{Left: 3, Top: 4}
	assert.Equal(t, NewRect(3, 4, 8, 2), p.Rect(Size{Width: 8, Height: 2}))
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection(" Right ")
	require.NoError(t, err)
	assert.Equal(t, DirectionRight, d)
	assert.Equal(t, DirectionLeft, d.Opposite())
	assert.True(t, d.Horizontal())
	assert.Equal(t, DirectionBottom, DirectionTop.Opposite())

	_, err = ParseDirection("diagonal")
	assert.Error(t, err)
}
