// Package filekv implements kv.Store with one file per key.
package filekv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/billbook-dev/billbook/internal/kv"
)

var _ kv.Store = (*Store)(nil)

// Store keeps each key in <dir>/<escaped key>.json.
type Store struct {
	dir    string
	mu     sync.RWMutex
	closed bool
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Get reads the file for key. A missing file means a missing key.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, kv.ErrClosed
	}

	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set writes value to a temp file and renames it over the key's file, so
// readers see either the old blob or the new one.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return kv.ErrClosed
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file for %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return fmt.Errorf("replacing %s: %w", key, err)
	}
	return nil
}

// Close marks the store closed. There are no open handles to release.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+".json")
}
