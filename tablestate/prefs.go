package tablestate

import (
	"errors"
	"io/fs"
	"sync"

	"github.com/spf13/viper"
)

// DefaultPageSize is used when no preference has been stored for a kind.
const DefaultPageSize = 10

// PreferenceStore persists per-entity-kind table preferences durably, so a
// chosen page size survives remounts and restarts.
type PreferenceStore interface {
	// PageSize returns the stored page size for kind, or false when none
	// has been stored.
	PageSize(kind string) (int, bool)

	// SetPageSize stores the page size for kind.
	SetPageSize(kind string, size int) error
}

// MemoryPreferences is an in-memory PreferenceStore for embedding and tests.
type MemoryPreferences struct {
	mu    sync.Mutex
	sizes map[string]int
}

// NewMemoryPreferences returns an empty in-memory store.
func NewMemoryPreferences() *MemoryPreferences {
	return &MemoryPreferences{sizes: make(map[string]int)}
}

// PageSize implements PreferenceStore.
func (m *MemoryPreferences) PageSize(kind string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	size, ok := m.sizes[kind]
	return size, ok
}

// SetPageSize implements PreferenceStore.
func (m *MemoryPreferences) SetPageSize(kind string, size int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sizes[kind] = size
	return nil
}

// ViperPreferences is a file-backed PreferenceStore. Sizes are stored under
// the namespaced key "table.page_size.<kind>" in the given config file.
type ViperPreferences struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string
}

// NewViperPreferences opens (or prepares to create) the preference file at
// path. The file format follows the extension viper recognises, e.g.
// "prefs.yaml". A missing file is not an error; it is created on the first
// write.
func NewViperPreferences(path string) (*ViperPreferences, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return &ViperPreferences{v: v, path: path}, nil
}

// PageSize implements PreferenceStore.
func (p *ViperPreferences) PageSize(kind string) (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := prefKey(kind)
	if !p.v.IsSet(key) {
		return 0, false
	}
	return p.v.GetInt(key), true
}

// SetPageSize implements PreferenceStore.
func (p *ViperPreferences) SetPageSize(kind string, size int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.v.Set(prefKey(kind), size)
	return p.v.WriteConfigAs(p.path)
}

func prefKey(kind string) string {
	return "table.page_size." + kind
}
