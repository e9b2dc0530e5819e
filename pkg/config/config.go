// Package config persists annotator settings as named sections in a JSON
// file under ~/.annotator.
package config

import (
	"sync"
)

var (
	globalManager *Manager
	globalMu      sync.Mutex
)

// Initialize builds the global manager over the file at configPath (empty
// means the default location), registers the built-in sections and loads
// any stored values.
func Initialize(configPath string) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	manager, err := newDefaultManager(configPath)
	if err != nil {
		return err
	}
	globalManager = manager
	return nil
}

func newDefaultManager(configPath string) (*Manager, error) {
	store, err := NewFileStore(configPath)
	if err != nil {
		return nil, err
	}

	manager := NewManager(store)
	for _, section := range []Section{NewAnnotatorSection(), NewBrowserSection()} {
		if err := manager.RegisterSection(section); err != nil {
			return nil, err
		}
	}

	if err := manager.LoadAll(); err != nil {
		return nil, err
	}
	return manager, nil
}

// Global returns the global manager. It panics before Initialize.
func Global() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		panic("config not initialized: call config.Initialize first")
	}
	return globalManager
}

// IsInitialized reports whether Initialize has succeeded.
func IsInitialized() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalManager != nil
}

// GetAnnotator returns the annotation section, or nil before Initialize.
func GetAnnotator() *AnnotatorSection {
	return globalSection[*AnnotatorSection](SectionIDAnnotator)
}

// GetBrowser returns the browser section, or nil before Initialize.
func GetBrowser() *BrowserSection {
	return globalSection[*BrowserSection](SectionIDBrowser)
}

func globalSection[T Section](id string) T {
	var zero T
	if !IsInitialized() {
		return zero
	}
	section, ok := Global().GetSection(id)
	if !ok {
		return zero
	}
	typed, ok := section.(T)
	if !ok {
		return zero
	}
	return typed
}
