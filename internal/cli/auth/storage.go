package auth

import (
	"fmt"
	"sync"

	"github.com/tripjournal/tripjournal/internal/config"
)

// Storage is the durable key/value port behind the credential store.
// Implementations must make a removed key indistinguishable from a key never set.
type Storage interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// MemoryStorage keeps items in process memory; it does not survive restarts
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryStorage creates an empty in-memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

func (m *MemoryStorage) GetItem(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MemoryStorage) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MemoryStorage) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// NewStorage builds the storage backend selected by configuration
func NewStorage(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Backend {
	case config.StorageKeyring:
		return NewKeyringStorage(KeyringService), nil
	case config.StorageFile:
		return NewFileStorage(cfg.StateDir), nil
	case config.StorageMemory:
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
