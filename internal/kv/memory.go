package kv

import (
	"context"
	"sync"
)

// Memory is an in-process Store used by tests and as a substitute backend.
// Values are copied on the way in and out so callers cannot alias the
// internal map.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
	// when set, every operation fails with ErrUnavailable
	unavailable bool
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// SetUnavailable toggles simulated storage failure.
func (m *Memory) SetUnavailable(unavailable bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unavailable = unavailable
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.unavailable {
		return nil, false, ErrUnavailable
	}
	value, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	copied := make([]byte, len(value))
	copy(copied, value)
	return copied, true, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unavailable {
		return ErrUnavailable
	}
	copied := make([]byte, len(value))
	copy(copied, value)
	m.data[key] = copied
	return nil
}

func (m *Memory) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.unavailable {
		return ErrUnavailable
	}
	return nil
}

func (m *Memory) Close() error { return nil }
