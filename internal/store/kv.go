package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Backend identifiers accepted by NewKV.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// ErrNotFound is returned by KV.Get for a missing key.
var ErrNotFound = errors.New("key not found")

// KV is the persistence port used by the Store.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// KVConfig selects and configures a backend.
type KVConfig struct {
	Backend string
	Redis   RedisConfig
}

// NewKV creates the configured backend. An empty backend means memory.
func NewKV(ctx context.Context, cfg KVConfig) (KV, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryKV(), nil
	case BackendNone:
		return NopKV{}, nil
	case BackendRedis:
		return NewRedisKV(ctx, cfg.Redis)
	default:
		return nil, fmt.Errorf("unsupported persistence backend: %s", cfg.Backend)
	}
}

type MemoryKV struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.items[key] = append([]byte(nil), value...)
	m.mu.Unlock()
	return nil
}

func (m *MemoryKV) Close() error { return nil }

// NopKV forgets everything.
type NopKV struct{}

func (NopKV) Get(context.Context, string) ([]byte, error) { return nil, ErrNotFound }
func (NopKV) Set(context.Context, string, []byte) error   { return nil }
func (NopKV) Close() error                                { return nil }
