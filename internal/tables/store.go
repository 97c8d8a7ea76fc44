package tables

import "sync/atomic"

// Store owns the live table set. Readers take a snapshot with Get and keep
// using it for the whole parse; Reload swaps in a freshly loaded set without
// disturbing parses already in flight.
type Store struct {
	dir     string
	current atomic.Pointer[Tables]
}

// NewStore loads the tables from dir (embedded defaults when dir is empty)
// and returns a store serving them.
func NewStore(dir string) (*Store, error) {
	t, err := Load(dir)
	if err != nil {
		return nil, err
	}
	s := &Store{dir: dir}
	s.current.Store(t)
	return s, nil
}

// Get returns the current table snapshot.
func (s *Store) Get() *Tables {
	return s.current.Load()
}

// Dir returns the directory the store loads from; empty means embedded
// defaults only.
func (s *Store) Dir() string {
	return s.dir
}

// Reload re-reads the table files and atomically swaps them in. On any load
// failure the previous tables stay active and the error is returned.
func (s *Store) Reload() (*Tables, error) {
	t, err := Load(s.dir)
	if err != nil {
		return nil, err
	}
	s.current.Store(t)
	return t, nil
}
