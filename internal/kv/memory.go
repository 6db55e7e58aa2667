package kv

import (
	"context"
	"sync"
)

// Memory is an in-process KV used by tests and as a scratch store. It honors
// the same contract as Store, including absent-key reporting.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string

	// FailWrites makes every Set/Delete fail with the given error, to
	// exercise storage-failure paths.
	FailWrites error
	// FailReads makes every Get fail with the given error.
	FailReads error
}

func NewMemory() *Memory {
	return &Memory{data: map[string]string{}}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	if m.FailReads != nil {
		return "", false, m.FailReads
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
