// Package overlay owns the annotations placed on a page: their visual
// vocabulary (kinds, palettes, comment styles), the Renderer that
// materializes them and the Surface that tracks what is occupied.
package overlay

import (
	"strings"

	"github.com/google/uuid"

	"github.com/entrhq/annotator/pkg/geometry"
)

// Kind is the type of a visual.
type Kind string

const (
	KindHighlight Kind = "highlight"
	KindLabel     Kind = "label"
	KindComment   Kind = "comment"
	KindUnderline Kind = "underline"
)

// Occupies reports whether visuals of this kind reserve space that later
// labels and comments must avoid. Highlights and underlines sit on the
// target itself.
func (k Kind) Occupies() bool {
	return k == KindLabel || k == KindComment
}

// Color is a named palette.
type Color string

const (
	ColorYellow Color = "yellow"
	ColorRed    Color = "red"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorOrange Color = "orange"
)

// Colors lists the supported palette names.
var Colors = []Color{ColorYellow, ColorRed, ColorBlue, ColorGreen, ColorOrange}

// ParseColor maps a name to a Color. Unknown names fall back to yellow.
func ParseColor(s string) Color {
	c := Color(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := highlightPalettes[c]; ok {
		return c
	}
	return ColorYellow
}

// Palette is the set of CSS colors for one visual.
type Palette struct {
	Background string `json:"background"`
	Border     string `json:"border"`
	Text       string `json:"text"`
}

var highlightPalettes = map[Color]Palette{
	ColorYellow: {Background: "rgba(255, 255, 0, 0.3)", Border: "#FFD700", Text: "#000"},
	ColorRed:    {Background: "rgba(255, 0, 0, 0.2)", Border: "#FF4444", Text: "#FFF"},
	ColorBlue:   {Background: "rgba(0, 123, 255, 0.2)", Border: "#007BFF", Text: "#FFF"},
	ColorGreen:  {Background: "rgba(40, 167, 69, 0.2)", Border: "#28A745", Text: "#FFF"},
	ColorOrange: {Background: "rgba(255, 140, 0, 0.2)", Border: "#FF8C00", Text: "#FFF"},
}

var commentPalettes = map[Color]Palette{
	ColorYellow: {Background: "#FFFACD", Border: "#FFD700", Text: "#000"},
	ColorRed:    {Background: "#FFE4E1", Border: "#FF4444", Text: "#8B0000"},
	ColorBlue:   {Background: "#E6F2FF", Border: "#007BFF", Text: "#003D7A"},
	ColorGreen:  {Background: "#E8F5E9", Border: "#28A745", Text: "#1B5E20"},
	ColorOrange: {Background: "#FFF3E0", Border: "#FF8C00", Text: "#E65100"},
}

// HighlightPalette is used by highlights and labels.
func HighlightPalette(c Color) Palette {
	return highlightPalettes[ParseColor(string(c))]
}

// CommentPalette is used by comments and their underlines.
func CommentPalette(c Color) Palette {
	return commentPalettes[ParseColor(string(c))]
}

// CommentStyle is the look of a comment.
type CommentStyle string

const (
	StyleBubble CommentStyle = "bubble"
	StyleSticky CommentStyle = "sticky"
	StyleInline CommentStyle = "inline"
)

// ParseCommentStyle maps a name to a style. Unknown names fall back to bubble.
func ParseCommentStyle(s string) CommentStyle {
	switch st := CommentStyle(strings.ToLower(strings.TrimSpace(s))); st {
	case StyleSticky, StyleInline:
		return st
	default:
		return StyleBubble
	}
}

// BoxMetrics are the CSS box and type metrics used to size a text visual.
type BoxMetrics struct {
	PaddingX   float64
	PaddingY   float64
	Border     float64
	BorderLeft float64
	FontSize   float64
	LineHeight float64
	MaxWidth   float64 // 0 means no wrapping
	Bold       bool
	Icon       string
	HasArrow   bool
}

// LabelMetrics sizes labels: one bold line, never wrapped.
var LabelMetrics = BoxMetrics{PaddingX: 8, PaddingY: 4, FontSize: 12, LineHeight: 1.2, Bold: true}

var commentMetrics = map[CommentStyle]BoxMetrics{
	StyleBubble: {PaddingX: 12, PaddingY: 8, Border: 2, BorderLeft: 2, FontSize: 13, LineHeight: 1.4, MaxWidth: 200, HasArrow: true},
	StyleSticky: {PaddingX: 12, PaddingY: 10, Border: 2, BorderLeft: 4, FontSize: 13, LineHeight: 1.4, MaxWidth: 220, HasArrow: true, Icon: "📌 "},
	StyleInline: {PaddingX: 8, PaddingY: 4, Border: 1, BorderLeft: 1, FontSize: 12, LineHeight: 1.3, MaxWidth: 180},
}

// CommentMetrics returns the metrics of a comment style.
func CommentMetrics(s CommentStyle) BoxMetrics {
	return commentMetrics[ParseCommentStyle(string(s))]
}

// Visual is one rendered annotation.
type Visual struct {
	ID    string       `json:"id"`
	Kind  Kind         `json:"kind"`
	Text  string       `json:"text,omitempty"`
	Color Color        `json:"color"`
	Style CommentStyle `json:"style,omitempty"`
	// Rect is the placed box in document coordinates.
	Rect geometry.Rect `json:"rect"`
	// Target is the annotated element box in document coordinates.
	Target geometry.Rect `json:"target"`
	// Arrow is the comment edge the pointer is drawn on.
	Arrow geometry.Direction `json:"arrow,omitempty"`
	// Batch groups the visuals created by one request.
	Batch string `json:"batch,omitempty"`
}

// NewID returns a fresh visual ID.
func NewID(kind Kind) string {
	return string(kind) + "-" + uuid.NewString()
}

// Palette returns the colors for the visual.
func (v Visual) Palette() Palette {
	if v.Kind == KindComment || v.Kind == KindUnderline {
		return CommentPalette(v.Color)
	}
	return HighlightPalette(v.Color)
}

// Metrics returns the box metrics for text visuals.
func (v Visual) Metrics() BoxMetrics {
	if v.Kind == KindComment {
		return CommentMetrics(v.Style)
	}
	return LabelMetrics
}

// HasArrow reports whether a pointer is drawn.
func (v Visual) HasArrow() bool {
	return v.Kind == KindComment && v.Arrow != "" && v.Metrics().HasArrow
}
