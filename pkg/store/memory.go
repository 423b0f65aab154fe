package store

import (
	"context"
	"sync"
)

// Memory is a KV kept in process memory, used for ephemeral runs and tests
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory makes an empty in-memory KV
func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

// GetValue returns the value stored under key
func (m *Memory) GetValue(_ context.Context, key string) (value string, found bool, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, found = m.values[key]
	return value, found, nil
}

// SetValue stores value under key
func (m *Memory) SetValue(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
