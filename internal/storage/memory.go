package storage

import (
	"context"
	"encoding/json"
	"sync"
)

// Memory is an in-process KV used by tests and as a stand-in when no Redis
// is configured. TTLs are ignored; keys live until deleted.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// GetJSON implements KV.
func (m *Memory) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	if m == nil || key == "" {
		return false, nil
	}
	m.mu.Lock()
	data, ok := m.data[key]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON implements KV.
func (m *Memory) SetJSON(_ context.Context, key string, v any) error {
	if m == nil || key == "" {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[key] = data
	m.mu.Unlock()
	return nil
}

// Delete implements KV.
func (m *Memory) Delete(_ context.Context, key string) error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// Len reports the number of stored keys.
func (m *Memory) Len() int {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
