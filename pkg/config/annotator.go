package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/annotator/pkg/annotator"
	"github.com/entrhq/annotator/pkg/dedup"
	"github.com/entrhq/annotator/pkg/geometry"
	"github.com/entrhq/annotator/pkg/overlay"
)

// SectionIDAnnotator identifies the annotation settings section.
const SectionIDAnnotator = "annotator"

// AnnotatorSection holds the dedup windows and request defaults.
type AnnotatorSection struct {
	Debounce  time.Duration
	Retention time.Duration
	Defaults  annotator.Defaults
	mu        sync.RWMutex
}

// NewAnnotatorSection returns the section with built-in defaults.
func NewAnnotatorSection() *AnnotatorSection {
	return &AnnotatorSection{
		Debounce:  dedup.DefaultDebounce,
		Retention: dedup.DefaultRetention,
		Defaults:  annotator.DefaultDefaults(),
	}
}

func (s *AnnotatorSection) ID() string { return SectionIDAnnotator }

func (s *AnnotatorSection) Title() string { return "Annotation Settings" }

func (s *AnnotatorSection) Description() string {
	return "Duplicate-suppression windows and the defaults applied to annotate and comment requests."
}

// Data returns the section as plain JSON values.
func (s *AnnotatorSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"debounce":             s.Debounce.String(),
		"retention":            s.Retention.String(),
		"default_color":        s.Defaults.Color,
		"default_position":     s.Defaults.Position,
		"default_style":        s.Defaults.Style,
		"default_max_matches":  s.Defaults.MaxMatches,
		"default_auto_scroll":  s.Defaults.AutoScroll,
		"default_only_visible": s.Defaults.OnlyVisible,
	}
}

// SetData applies stored values. Unknown keys are ignored.
func (s *AnnotatorSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	for key, value := range data {
		switch key {
		case "debounce":
			s.Debounce, err = durationValue(key, value)
		case "retention":
			s.Retention, err = durationValue(key, value)
		case "default_color":
			s.Defaults.Color, err = stringValue(key, value)
		case "default_position":
			s.Defaults.Position, err = stringValue(key, value)
		case "default_style":
			s.Defaults.Style, err = stringValue(key, value)
		case "default_max_matches":
			s.Defaults.MaxMatches, err = intValue(key, value)
		case "default_auto_scroll":
			s.Defaults.AutoScroll, err = boolValue(key, value)
		case "default_only_visible":
			s.Defaults.OnlyVisible, err = boolValue(key, value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Validate checks window ordering and that every default names a known value.
func (s *AnnotatorSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive, got %v", s.Debounce)
	}
	if s.Retention < s.Debounce {
		return fmt.Errorf("retention (%v) must not be shorter than debounce (%v)", s.Retention, s.Debounce)
	}
	if s.Defaults.MaxMatches < 1 {
		return fmt.Errorf("default_max_matches must be at least 1, got %d", s.Defaults.MaxMatches)
	}
	if !knownColor(s.Defaults.Color) {
		return fmt.Errorf("unknown default_color %q", s.Defaults.Color)
	}
	if _, err := geometry.ParseDirection(s.Defaults.Position); err != nil {
		return fmt.Errorf("invalid default_position: %w", err)
	}
	if string(overlay.ParseCommentStyle(s.Defaults.Style)) != s.Defaults.Style {
		return fmt.Errorf("unknown default_style %q", s.Defaults.Style)
	}
	return nil
}

// Reset restores the built-in defaults.
func (s *AnnotatorSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Debounce = dedup.DefaultDebounce
	s.Retention = dedup.DefaultRetention
	s.Defaults = annotator.DefaultDefaults()
}

// GuardConfig returns the dedup windows.
func (s *AnnotatorSection) GuardConfig() dedup.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return dedup.Config{Debounce: s.Debounce, Retention: s.Retention}
}

// RequestDefaults returns the request defaults.
func (s *AnnotatorSection) RequestDefaults() annotator.Defaults {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Defaults
}

func knownColor(name string) bool {
	for _, c := range overlay.Colors {
		if string(c) == name {
			return true
		}
	}
	return false
}

func durationValue(key string, value interface{}) (time.Duration, error) {
	switch v := value.(type) {
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		return d, nil
	case float64:
		return time.Duration(v), nil
	case int64:
		return time.Duration(v), nil
	case time.Duration:
		return v, nil
	default:
		return 0, fmt.Errorf("invalid value type for %s: expected string or number, got %T", key, value)
	}
}

func stringValue(key string, value interface{}) (string, error) {
	v, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("invalid value type for %s: expected string, got %T", key, value)
	}
	return v, nil
}

func boolValue(key string, value interface{}) (bool, error) {
	v, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("invalid value type for %s: expected bool, got %T", key, value)
	}
	return v, nil
}

func intValue(key string, value interface{}) (int, error) {
	switch v := value.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("invalid value for %s: %v is not a whole number", key, v)
		}
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("invalid value type for %s: expected number, got %T", key, value)
	}
}
