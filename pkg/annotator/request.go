package annotator

import (
	"strings"

	"github.com/entrhq/annotator/pkg/geometry"
	"github.com/entrhq/annotator/pkg/overlay"
)

// Defaults fill in request fields the caller left empty.
type Defaults struct {
	Color       string `json:"color"`
	Position    string `json:"position"`
	Style       string `json:"style"`
	MaxMatches  int    `json:"max_matches"`
	AutoScroll  bool   `json:"auto_scroll"`
	OnlyVisible bool   `json:"only_visible"`
}

// DefaultDefaults returns yellow, right, bubble, one match, scrolling and
// visible-only matching.
func DefaultDefaults() Defaults {
	return Defaults{
		Color:       string(overlay.ColorYellow),
		Position:    string(geometry.DirectionRight),
		Style:       string(overlay.StyleBubble),
		MaxMatches:  1,
		AutoScroll:  true,
		OnlyVisible: true,
	}
}

// Locator is the target half shared by every request.
type Locator struct {
	Selector    string `json:"selector,omitempty" yaml:"selector,omitempty"`
	Text        string `json:"text,omitempty" yaml:"text,omitempty"`
	MaxMatches  int    `json:"maxMatches,omitempty" yaml:"max_matches,omitempty"`
	AutoScroll  *bool  `json:"autoScroll,omitempty" yaml:"auto_scroll,omitempty"`
	OnlyVisible *bool  `json:"onlyVisible,omitempty" yaml:"only_visible,omitempty"`
}

func (l Locator) validate() error {
	if strings.TrimSpace(l.Selector) == "" && l.Text == "" {
		return invalidRequest("selector or text is required")
	}
	if l.MaxMatches < 0 {
		return invalidRequest("maxMatches must be at least 1, got %d", l.MaxMatches)
	}
	return nil
}

func (l Locator) withDefaults(d Defaults) Locator {
	l.Selector = strings.TrimSpace(l.Selector)
	if l.MaxMatches == 0 {
		l.MaxMatches = d.MaxMatches
	}
	if l.MaxMatches < 1 {
		l.MaxMatches = 1
	}
	if l.AutoScroll == nil {
		l.AutoScroll = boolPtr(d.AutoScroll)
	}
	if l.OnlyVisible == nil {
		l.OnlyVisible = boolPtr(d.OnlyVisible)
	}
	return l
}

// AnnotateRequest highlights targets and optionally labels them.
type AnnotateRequest struct {
	Locator `yaml:",inline"`
	Label   string `json:"label,omitempty" yaml:"label,omitempty"`
	Color   string `json:"color,omitempty" yaml:"color,omitempty"`
}

// CommentRequest attaches a callout comment to targets.
type CommentRequest struct {
	Locator  `yaml:",inline"`
	Comment  string `json:"comment" yaml:"comment"`
	Position string `json:"position,omitempty" yaml:"position,omitempty"`
	Color    string `json:"color,omitempty" yaml:"color,omitempty"`
	Style    string `json:"style,omitempty" yaml:"style,omitempty"`
}

func boolPtr(b bool) *bool {
	return &b
}

// Bool returns a pointer to b, for optional request flags.
func Bool(b bool) *bool {
	return boolPtr(b)
}
