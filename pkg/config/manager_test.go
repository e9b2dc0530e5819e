package config

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSection struct {
	id          string
	data        map[string]interface{}
	validateErr error
	setErr      error
}

func (f *fakeSection) ID() string                   { return f.id }
func (f *fakeSection) Title() string                { return f.id }
func (f *fakeSection) Description() string          { return "" }
func (f *fakeSection) Data() map[string]interface{} { return f.data }
func (f *fakeSection) Validate() error              { return f.validateErr }
func (f *fakeSection) Reset()                       { f.data = map[string]interface{}{} }
func (f *fakeSection) SetData(data map[string]interface{}) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.data = data
	return nil
}

type memStore struct {
	sections map[string]map[string]interface{}
	loadErr  error
	saveErr  error
	saves    int
}

func newMemStore() *memStore {
	return &memStore{sections: map[string]map[string]interface{}{}}
}

func (m *memStore) Load() error { return m.loadErr }
func (m *memStore) Save() error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	return nil
}
func (m *memStore) GetSection(id string) (map[string]interface{}, error) {
	return copySection(m.sections[id]), nil
}
func (m *memStore) SetSection(id string, data map[string]interface{}) error {
	m.sections[id] = data
	return nil
}
func (m *memStore) GetAll() (map[string]map[string]interface{}, error) { return m.sections, nil }
func (m *memStore) SetAll(data map[string]map[string]interface{}) error {
	m.sections = data
	return nil
}

func TestManagerRegisterSection(t *testing.T) {
	m := NewManager(newMemStore())
	require.NoError(t, m.RegisterSection(&fakeSection{id: "b"}))
	require.NoError(t, m.RegisterSection(&fakeSection{id: "a"}))

	err := m.RegisterSection(&fakeSection{id: "b"})
	assert.ErrorContains(t, err, "already registered")

	ids := []string{}
	for _, s := range m.GetSections() {
		ids = append(ids, s.ID())
	}
	assert.Equal(t, []string{"b", "a"}, ids)

	_, ok := m.GetSection("a")
	assert.True(t, ok)
	_, ok = m.GetSection("missing")
	assert.False(t, ok)
}

func TestManagerLoadAll(t *testing.T) {
	t.Run("applies stored data and keeps defaults for absent sections", func(t *testing.T) {
		store := newMemStore()
		store.sections["stored"] = map[string]interface{}{"k": "v"}
		stored := &fakeSection{id: "stored"}
		absent := &fakeSection{id: "absent", data: map[string]interface{}{"default": true}}

		m := NewManager(store)
		require.NoError(t, m.RegisterSection(stored))
		require.NoError(t, m.RegisterSection(absent))
		require.NoError(t, m.LoadAll())

		assert.Equal(t, "v", stored.data["k"])
		assert.Equal(t, true, absent.data["default"])
	})

	t.Run("store failure", func(t *testing.T) {
		store := newMemStore()
		store.loadErr = errors.New("disk gone")
		err := NewManager(store).LoadAll()
		assert.ErrorContains(t, err, "disk gone")
	})

	t.Run("section failures are joined", func(t *testing.T) {
		store := newMemStore()
		store.sections["x"] = map[string]interface{}{"k": 1}
		store.sections["y"] = map[string]interface{}{"k": 2}

		m := NewManager(store)
		require.NoError(t, m.RegisterSection(&fakeSection{id: "x", setErr: errors.New("bad x")}))
		require.NoError(t, m.RegisterSection(&fakeSection{id: "y", setErr: errors.New("bad y")}))

		err := m.LoadAll()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad x")
		assert.Contains(t, err.Error(), "bad y")
	})
}

func TestManagerSaveAll(t *testing.T) {
	t.Run("writes every section then saves once", func(t *testing.T) {
		store := newMemStore()
		m := NewManager(store)
		require.NoError(t, m.RegisterSection(&fakeSection{id: "one", data: map[string]interface{}{"a": 1}}))
		require.NoError(t, m.RegisterSection(&fakeSection{id: "two", data: map[string]interface{}{"b": 2}}))

		require.NoError(t, m.SaveAll())
		assert.Equal(t, 1, store.sections["one"]["a"])
		assert.Equal(t, 2, store.sections["two"]["b"])
		assert.Equal(t, 1, store.saves)
	})

	t.Run("invalid section blocks the save", func(t *testing.T) {
		store := newMemStore()
		m := NewManager(store)
		require.NoError(t, m.RegisterSection(&fakeSection{id: "ok", data: map[string]interface{}{}}))
		require.NoError(t, m.RegisterSection(&fakeSection{id: "bad", validateErr: errors.New("nope")}))

		err := m.SaveAll()
		assert.ErrorContains(t, err, "invalid section bad")
		assert.Empty(t, store.sections)
		assert.Zero(t, store.saves)
	})

	t.Run("store failure", func(t *testing.T) {
		store := newMemStore()
		store.saveErr = errors.New("read-only")
		m := NewManager(store)
		assert.ErrorContains(t, m.SaveAll(), "read-only")
	})
}

func TestManagerResetAll(t *testing.T) {
	s := &fakeSection{id: "s", data: map[string]interface{}{"k": "v"}}
	m := NewManager(newMemStore())
	require.NoError(t, m.RegisterSection(s))

	m.ResetAll()
	assert.Empty(t, s.data)
}

func TestManagerConcurrentRegistration(t *testing.T) {
	m := NewManager(newMemStore())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = m.RegisterSection(&fakeSection{id: fmt.Sprintf("s%d", i)})
			m.GetSections()
		}(i)
	}
	wg.Wait()

	assert.Len(t, m.GetSections(), 10)
}
