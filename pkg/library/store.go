package library

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Store persists library entries. Names arrive already normalized.
type Store interface {
	// Load returns every stored entry.
	Load() ([]Entry, error)

	// Put inserts or replaces the entry stored under key.
	Put(key string, e Entry) error

	// Delete removes the entry stored under key.
	Delete(key string) error

	// Close releases any resources held by the store.
	Close() error
}

// FileStore keeps the library in one JSON file, rewritten on every change.
type FileStore struct {
	Path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the file. A missing file is an empty library.
func (s *FileStore) Load() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.read()
	if err != nil {
		return nil, err
	}
	return sorted(m), nil
}

// Put rewrites the file with e stored under key.
func (s *FileStore) Put(key string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.read()
	if err != nil {
		return err
	}
	m[key] = e
	return s.write(m)
}

// Delete rewrites the file without key.
func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.read()
	if err != nil {
		return err
	}
	delete(m, key)
	return s.write(m)
}

// Close is a no-op for files.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) read() (map[string]Entry, error) {
	m := make(map[string]Entry)
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.Path, err)
	}
	for _, e := range entries {
		m[key(e.Name)] = e
	}
	return m, nil
}

// write replaces the file through a temporary sibling.
func (s *FileStore) write(m map[string]Entry) error {
	data, err := json.MarshalIndent(sorted(m), "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return os.Rename(tmp, s.Path)
}

func sorted(m map[string]Entry) []Entry {
	out := make([]Entry, 0, len(m))
	for _, e := range m {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return key(out[i].Name) < key(out[j].Name) })
	return out
}

var _ Store = (*FileStore)(nil)
