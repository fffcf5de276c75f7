package storage

import (
	"context"
	"sync"
)

// Memory is a process-local Backend for tests and the "memory" driver.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte

	// Fail, when set, is returned by every call.
	Fail error
}

func NewMemory() *Memory {
	return &Memory{data: map[string][]byte{}}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	_ = ctx
	if m.Fail != nil {
		return nil, m.Fail
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Put(ctx context.Context, key string, value []byte) error {
	_ = ctx
	if m.Fail != nil {
		return m.Fail
	}
	if err := validKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	_ = ctx
	if m.Fail != nil {
		return m.Fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) String() string { return "memory" }
