// Package kv defines the key-value storage primitive that bill and expense
// blobs are persisted in.
package kv

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("kv store is closed")

// Store is a string-to-string key-value store. A missing key is reported
// through ok, not as an error. Set replaces the whole value.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

var _ Store = (*Memory)(nil)

// Memory is an in-process Store.
type Memory struct {
	mu     sync.RWMutex
	data   map[string]string
	closed bool
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", false, ErrClosed
	}
	v, ok := m.data[key]
	return v, ok, nil
}

// Set stores value under key.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.data[key] = value
	return nil
}

// Close marks the store closed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
