package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/annotator/pkg/dedup"
)

func resetGlobal(t *testing.T) {
	t.Helper()
	globalMu.Lock()
	globalManager = nil
	globalMu.Unlock()
	t.Cleanup(func() {
		globalMu.Lock()
		globalManager = nil
		globalMu.Unlock()
	})
}

func TestInitialize(t *testing.T) {
	resetGlobal(t)

	assert.False(t, IsInitialized())
	assert.Nil(t, GetAnnotator())
	assert.Nil(t, GetBrowser())
	assert.Panics(t, func() { Global() })

	require.NoError(t, Initialize(filepath.Join(t.TempDir(), "config.json")))
	assert.True(t, IsInitialized())

	ids := []string{}
	for _, s := range Global().GetSections() {
		ids = append(ids, s.ID())
	}
	assert.Equal(t, []string{SectionIDAnnotator, SectionIDBrowser}, ids)

	require.NotNil(t, GetAnnotator())
	assert.Equal(t, dedup.DefaultConfig(), GetAnnotator().GuardConfig())
	require.NotNil(t, GetBrowser())
	assert.True(t, GetBrowser().IsEnabled())
}

func TestInitializeRejectsBadStoredValues(t *testing.T) {
	resetGlobal(t)

	path := filepath.Join(t.TempDir(), "config.json")
	raw := `{"version":"1","sections":{"annotator":{"debounce":"soon"}}}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0600))

	err := Initialize(path)
	assert.ErrorContains(t, err, "invalid duration for debounce")
	assert.False(t, IsInitialized())
}

func TestPersistenceAcrossInitialize(t *testing.T) {
	resetGlobal(t)
	path := filepath.Join(t.TempDir(), "config.json")

	require.NoError(t, Initialize(path))
	a := GetAnnotator()
	a.Debounce = 3 * time.Second
	a.Retention = 30 * time.Second
	a.Defaults.Color = "blue"
	a.Defaults.MaxMatches = 4
	a.Defaults.OnlyVisible = false
	b := GetBrowser()
	b.Headless = false
	b.ViewportWidth = 1024
	require.NoError(t, Global().SaveAll())

	require.NoError(t, Initialize(path))
	a = GetAnnotator()
	assert.Equal(t, dedup.Config{Debounce: 3 * time.Second, Retention: 30 * time.Second}, a.GuardConfig())
	d := a.RequestDefaults()
	assert.Equal(t, "blue", d.Color)
	assert.Equal(t, 4, d.MaxMatches)
	assert.False(t, d.OnlyVisible)
	assert.True(t, d.AutoScroll)

	w, h := GetBrowser().Viewport()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 720, h)
	assert.False(t, GetBrowser().Headless)
}
