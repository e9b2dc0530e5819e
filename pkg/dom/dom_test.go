package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/entrhq/annotator/pkg/geometry"
)

func TestLandmarkScore(t *testing.T) {
	tests := []struct {
		name string
		set  LandmarkSet
		want int
	}{
		{"unclassified", 0, 5},
		{"main", LandmarkMain, 10},
		{"article", LandmarkArticle, 8},
		{"section", LandmarkSection, 6},
		{"nav", LandmarkNav, 1},
		{"chrome class", LandmarkChrome, 1},
		{"article in main", LandmarkMain | LandmarkArticle, 10},
		{"main wins over footer", LandmarkMain | LandmarkFooter, 10},
		{"section inside header", LandmarkSection | LandmarkHeader, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.set.Score())
		})
	}
}

func TestClassifyElement(t *testing.T) {
	assert.Equal(t, LandmarkFooter, ClassifyElement("FOOTER", ""))
	assert.Equal(t, LandmarkChrome, ClassifyElement("div", "wrapper sidebar"))
	assert.Equal(t, LandmarkNav|LandmarkChrome, ClassifyElement("nav", "navigation"))
	assert.Equal(t, LandmarkSet(0), ClassifyElement("div", "sidebar-item"))

	assert.True(t, (LandmarkAside | LandmarkMain).Excluded())
	assert.False(t, LandmarkArticle.Excluded())
	assert.Equal(t, "main|footer", (LandmarkMain | LandmarkFooter).String())
	assert.Equal(t, "none", LandmarkSet(0).String())
}

func TestIsVisible(t *testing.T) {
	box := geometry.NewRect(0, 0, 10, 10)

	tests := []struct {
		name  string
		rect  geometry.Rect
		style ComputedStyle
		want  bool
	}{
		{"default", box, DefaultStyle(), true},
		{"zero width", geometry.NewRect(0, 0, 0, 10), DefaultStyle(), false},
		{"zero height", geometry.NewRect(0, 0, 10, 0), DefaultStyle(), false},
		{"display none", box, ComputedStyle{Display: "none", Visibility: "visible", Opacity: 1}, false},
		{"visibility hidden", box, ComputedStyle{Display: "block", Visibility: "hidden", Opacity: 1}, false},
		{"transparent", box, ComputedStyle{Display: "block", Visibility: "visible", Opacity: 0}, false},
		{"half transparent", box, ComputedStyle{Display: "inline", Visibility: "visible", Opacity: 0.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsVisible(tt.rect, tt.style))
		})
	}
}

func TestMetrics(t *testing.T) {
	m := Metrics{ViewportWidth: 800, ViewportHeight: 600, ScrollX: 10, ScrollY: 300, DocumentWidth: 800, DocumentHeight: 3000}
	assert.Equal(t, geometry.NewRect(10, 300, 800, 600), m.Viewport())
	assert.Equal(t, geometry.NewRect(0, 0, 800, 3000), m.Document())
	assert.Equal(t, geometry.NewRect(15, 320, 5, 5), m.ToDocument(geometry.NewRect(5, 20, 5, 5)))
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "Hello big world", NormalizeText("  Hello\n\t big   world \n"))
	assert.Equal(t, "", NormalizeText(" \n "))
}
