// Package library keeps named postures that users save from the editor
// and apply again later.
package library

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/teslashibe/go-mannequin/pkg/posture"
)

var (
	// ErrNotFound is returned for names not in the library.
	ErrNotFound = errors.New("posture not in library")

	// ErrInvalidName is returned for empty or oversized names.
	ErrInvalidName = errors.New("invalid posture name")
)

// MaxNameLength bounds entry names.
const MaxNameLength = 64

// Entry is one saved posture.
type Entry struct {
	Name    string          `json:"name"`
	Kind    string          `json:"kind,omitempty"` // figure it was saved from
	Saved   time.Time       `json:"saved"`
	Posture posture.Posture `json:"posture"`
}

// Library is a set of named postures. Every change goes to the store
// first; without one the library lives in memory only.
type Library struct {
	mu      sync.RWMutex
	entries map[string]Entry
	store   Store
}

// New creates an in-memory library.
func New() *Library {
	return &Library{entries: make(map[string]Entry)}
}

// Open creates a library over store and loads what it holds. Saved
// postures of older versions are upgraded on load.
func Open(store Store) (*Library, error) {
	entries, err := store.Load()
	if err != nil {
		return nil, err
	}

	l := New()
	l.store = store
	for _, e := range entries {
		p, err := posture.Upgrade(e.Posture)
		if err != nil {
			return nil, fmt.Errorf("library entry %q: %w", e.Name, err)
		}
		e.Posture = p
		l.entries[key(e.Name)] = e
	}
	return l, nil
}

// OpenFile opens a library persisted at path: a SQLite database for .db
// and .sqlite files, a JSON file otherwise.
func OpenFile(path string) (*Library, error) {
	switch filepath.Ext(path) {
	case ".db", ".sqlite":
		store, err := NewSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		l, err := Open(store)
		if err != nil {
			store.Close()
			return nil, err
		}
		return l, nil
	}
	return Open(NewFileStore(path))
}

// Close releases the store.
func (l *Library) Close() error {
	if l.store == nil {
		return nil
	}
	return l.store.Close()
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func checkName(name string) error {
	n := strings.TrimSpace(name)
	if n == "" || len(n) > MaxNameLength {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Save stores p under name, replacing any entry with the same name.
// Names compare case-insensitively.
func (l *Library) Save(name, kind string, p posture.Posture) (Entry, error) {
	if err := checkName(name); err != nil {
		return Entry{}, err
	}
	p, err := posture.Upgrade(p)
	if err != nil {
		return Entry{}, err
	}
	if err := posture.Validate(p); err != nil {
		return Entry{}, err
	}

	e := Entry{Name: strings.TrimSpace(name), Kind: kind, Saved: time.Now().UTC(), Posture: p.Clone()}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.store != nil {
		if err := l.store.Put(key(name), e); err != nil {
			return Entry{}, err
		}
	}
	l.entries[key(name)] = e
	return e, nil
}

// Get returns the entry saved under name.
func (l *Library) Get(name string) (Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.entries[key(name)]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	e.Posture = e.Posture.Clone()
	return e, nil
}

// Delete removes the entry saved under name.
func (l *Library) Delete(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries[key(name)]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if l.store != nil {
		if err := l.store.Delete(key(name)); err != nil {
			return err
		}
	}
	delete(l.entries, key(name))
	return nil
}

// List returns the entries sorted by name, without their postures.
func (l *Library) List() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		e.Posture = posture.Posture{}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return key(out[i].Name) < key(out[j].Name) })
	return out
}

// Len returns the number of entries.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
