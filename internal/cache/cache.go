// Package cache holds the content cache backends.
package cache

import (
	"context"
	"sync"
)

// Cache stores raw values without expiry. Writers bump a generation counter;
// readers filling a miss use SetIfGeneration so a fill computed before a write
// never lands after it.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	Generation(ctx context.Context, genKey string) (int64, error)
	Bump(ctx context.Context, genKey string) (int64, error)
	SetIfGeneration(ctx context.Context, genKey string, gen int64, key string, value []byte) (bool, error)
}

type Memory struct {
	mu    sync.RWMutex
	items map[string][]byte
	gens  map[string]int64
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string][]byte), gens: make(map[string]int64)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.items[key] = append([]byte(nil), value...)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.items, k)
	}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Generation(_ context.Context, genKey string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gens[genKey], nil
}

func (m *Memory) Bump(_ context.Context, genKey string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gens[genKey]++
	return m.gens[genKey], nil
}

// SetIfGeneration stores value only while genKey still holds gen.
func (m *Memory) SetIfGeneration(_ context.Context, genKey string, gen int64, key string, value []byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gens[genKey] != gen {
		return false, nil
	}
	m.items[key] = append([]byte(nil), value...)
	return true, nil
}
