package config

import (
	"fmt"
	"sync"
	"time"
)

// SectionIDBrowser identifies the browser settings section.
const SectionIDBrowser = "browser"

const (
	defaultBrowserEnabled = true
	defaultHeadless       = true
	defaultViewportWidth  = 1280
	defaultViewportHeight = 720
	defaultMaxSessions    = 5
	defaultIdleTimeout    = 5 * time.Minute
	minViewportDimension  = 200
	maxConcurrentSessions = 20
	minIdleTimeout        = 10 * time.Second
)

// BrowserSection configures the playwright session manager.
type BrowserSection struct {
	Enabled        bool
	Headless       bool
	ViewportWidth  int
	ViewportHeight int
	MaxSessions    int
	IdleTimeout    time.Duration
	mu             sync.RWMutex
}

// NewBrowserSection returns the section with built-in defaults.
func NewBrowserSection() *BrowserSection {
	s := &BrowserSection{}
	s.Reset()
	return s
}

func (s *BrowserSection) ID() string { return SectionIDBrowser }

func (s *BrowserSection) Title() string { return "Browser Settings" }

func (s *BrowserSection) Description() string {
	return "Whether browser tools are available, and how sessions are launched and reaped."
}

// Data returns the section as plain JSON values.
func (s *BrowserSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"enabled":         s.Enabled,
		"headless":        s.Headless,
		"viewport_width":  s.ViewportWidth,
		"viewport_height": s.ViewportHeight,
		"max_sessions":    s.MaxSessions,
		"idle_timeout":    s.IdleTimeout.String(),
	}
}

// SetData applies stored values. Unknown keys are ignored.
func (s *BrowserSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	for key, value := range data {
		switch key {
		case "enabled":
			s.Enabled, err = boolValue(key, value)
		case "headless":
			s.Headless, err = boolValue(key, value)
		case "viewport_width":
			s.ViewportWidth, err = intValue(key, value)
		case "viewport_height":
			s.ViewportHeight, err = intValue(key, value)
		case "max_sessions":
			s.MaxSessions, err = intValue(key, value)
		case "idle_timeout":
			s.IdleTimeout, err = durationValue(key, value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the viewport, session limit and idle timeout ranges.
func (s *BrowserSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ViewportWidth < minViewportDimension || s.ViewportHeight < minViewportDimension {
		return fmt.Errorf("viewport must be at least %dx%d, got %dx%d",
			minViewportDimension, minViewportDimension, s.ViewportWidth, s.ViewportHeight)
	}
	if s.MaxSessions < 1 || s.MaxSessions > maxConcurrentSessions {
		return fmt.Errorf("max_sessions must be between 1 and %d, got %d", maxConcurrentSessions, s.MaxSessions)
	}
	if s.IdleTimeout < minIdleTimeout {
		return fmt.Errorf("idle_timeout must be at least %v, got %v", minIdleTimeout, s.IdleTimeout)
	}
	return nil
}

// Reset restores the built-in defaults.
func (s *BrowserSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Enabled = defaultBrowserEnabled
	s.Headless = defaultHeadless
	s.ViewportWidth = defaultViewportWidth
	s.ViewportHeight = defaultViewportHeight
	s.MaxSessions = defaultMaxSessions
	s.IdleTimeout = defaultIdleTimeout
}

// Viewport returns the configured width and height.
func (s *BrowserSection) Viewport() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ViewportWidth, s.ViewportHeight
}

// Limits returns the session cap and idle timeout.
func (s *BrowserSection) Limits() (int, time.Duration) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.MaxSessions, s.IdleTimeout
}

// IsEnabled reports whether browser tools should be registered.
func (s *BrowserSection) IsEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Enabled
}

// IsHeadless reports the default mode for new sessions.
func (s *BrowserSection) IsHeadless() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Headless
}
