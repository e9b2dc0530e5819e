package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/annotator/pkg/annotator"
)

func TestAnnotatorSectionSetData(t *testing.T) {
	tests := []struct {
		name    string
		data    map[string]interface{}
		check   func(t *testing.T, s *AnnotatorSection)
		wantErr string
	}{
		{
			name: "duration strings",
			data: map[string]interface{}{"debounce": "500ms", "retention": "1m"},
			check: func(t *testing.T, s *AnnotatorSection) {
				assert.Equal(t, 500*time.Millisecond, s.Debounce)
				assert.Equal(t, time.Minute, s.Retention)
			},
		},
		{
			name: "json numbers are nanoseconds and counts",
			data: map[string]interface{}{"debounce": float64(time.Second), "default_max_matches": float64(3)},
			check: func(t *testing.T, s *AnnotatorSection) {
				assert.Equal(t, time.Second, s.Debounce)
				assert.Equal(t, 3, s.Defaults.MaxMatches)
			},
		},
		{
			name: "defaults",
			data: map[string]interface{}{
				"default_color":        "green",
				"default_position":     "left",
				"default_style":        "sticky",
				"default_auto_scroll":  false,
				"default_only_visible": false,
			},
			check: func(t *testing.T, s *AnnotatorSection) {
				assert.Equal(t, annotator.Defaults{
					Color:       "green",
					Position:    "left",
					Style:       "sticky",
					MaxMatches:  1,
					AutoScroll:  false,
					OnlyVisible: false,
				}, s.RequestDefaults())
			},
		},
		{
			name:  "unknown keys ignored",
			data:  map[string]interface{}{"future_flag": true},
			check: func(t *testing.T, s *AnnotatorSection) { assert.Equal(t, NewAnnotatorSection().Data(), s.Data()) },
		},
		{name: "wrong bool type", data: map[string]interface{}{"default_auto_scroll": "yes"}, wantErr: "expected bool"},
		{name: "fractional count", data: map[string]interface{}{"default_max_matches": 1.5}, wantErr: "not a whole number"},
		{name: "wrong string type", data: map[string]interface{}{"default_color": 7.0}, wantErr: "expected string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewAnnotatorSection()
			err := s.SetData(tt.data)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestAnnotatorSectionValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *AnnotatorSection)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*AnnotatorSection) {}},
		{name: "zero debounce", mutate: func(s *AnnotatorSection) { s.Debounce = 0 }, wantErr: "debounce must be positive"},
		{name: "retention shorter than debounce", mutate: func(s *AnnotatorSection) { s.Retention = time.Second; s.Debounce = 2 * time.Second }, wantErr: "must not be shorter"},
		{name: "max matches", mutate: func(s *AnnotatorSection) { s.Defaults.MaxMatches = 0 }, wantErr: "default_max_matches"},
		{name: "color", mutate: func(s *AnnotatorSection) { s.Defaults.Color = "purple" }, wantErr: "unknown default_color"},
		{name: "position", mutate: func(s *AnnotatorSection) { s.Defaults.Position = "up" }, wantErr: "invalid default_position"},
		{name: "style", mutate: func(s *AnnotatorSection) { s.Defaults.Style = "fancy" }, wantErr: "unknown default_style"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewAnnotatorSection()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestAnnotatorSectionReset(t *testing.T) {
	s := NewAnnotatorSection()
	require.NoError(t, s.SetData(map[string]interface{}{"debounce": "9s", "default_color": "red"}))
	s.Reset()
	assert.Equal(t, NewAnnotatorSection().Data(), s.Data())
}

func TestBrowserSection(t *testing.T) {
	s := NewBrowserSection()
	require.NoError(t, s.Validate())
	assert.Equal(t, map[string]interface{}{
		"enabled":         true,
		"headless":        true,
		"viewport_width":  1280,
		"viewport_height": 720,
		"max_sessions":    5,
		"idle_timeout":    "5m0s",
	}, s.Data())

	require.NoError(t, s.SetData(map[string]interface{}{
		"enabled":         false,
		"viewport_width":  float64(800),
		"viewport_height": float64(600),
		"max_sessions":    float64(2),
		"idle_timeout":    "30s",
	}))
	assert.False(t, s.IsEnabled())
	w, h := s.Viewport()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assert.Equal(t, 2, s.MaxSessions)
	assert.Equal(t, 30*time.Second, s.IdleTimeout)
	require.NoError(t, s.Validate())

	tests := []struct {
		name    string
		mutate  func(s *BrowserSection)
		wantErr string
	}{
		{name: "tiny viewport", mutate: func(s *BrowserSection) { s.ViewportHeight = 50 }, wantErr: "viewport must be at least"},
		{name: "no sessions", mutate: func(s *BrowserSection) { s.MaxSessions = 0 }, wantErr: "max_sessions"},
		{name: "too many sessions", mutate: func(s *BrowserSection) { s.MaxSessions = 21 }, wantErr: "max_sessions"},
		{name: "short idle timeout", mutate: func(s *BrowserSection) { s.IdleTimeout = time.Second }, wantErr: "idle_timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewBrowserSection()
			tt.mutate(s)
			assert.ErrorContains(t, s.Validate(), tt.wantErr)
		})
	}

	assert.ErrorContains(t, s.SetData(map[string]interface{}{"headless": 1.0}), "expected bool")
}
