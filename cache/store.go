package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Tuyet3005/english-vocab-tracker/vocab"
)

// Entry is one cached raw payload.
type Entry struct {
	Key      string             `json:"key"`
	Document *vocab.RawDocument `json:"document"`
	CachedAt time.Time          `json:"cachedAt"`
}

// Store persists raw workbook payloads between runs. Get reports found=false
// for unknown keys rather than an error.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Put(ctx context.Context, entry Entry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) (int, error)
	Close() error
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendNone   = "none"
)

// Open builds the store for a configured backend.
func Open(backend, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendFile:
		return NewFileStore(path)
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendNone, "":
		return NoopStore{}, nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", backend)
	}
}

// NoopStore never stores anything.
type NoopStore struct{}

func (NoopStore) Get(context.Context, string) (Entry, bool, error) { return Entry{}, false, nil }
func (NoopStore) Put(context.Context, Entry) error                 { return nil }
func (NoopStore) Delete(context.Context, string) error             { return nil }
func (NoopStore) Clear(context.Context) (int, error)               { return 0, nil }
func (NoopStore) Close() error                                     { return nil }

// MemoryStore keeps entries for the lifetime of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	return entry, ok, nil
}

func (s *MemoryStore) Put(_ context.Context, entry Entry) error {
	if entry.Key == "" {
		return fmt.Errorf("cache key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Key] = entry
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *MemoryStore) Clear(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.entries)
	s.entries = make(map[string]Entry)
	return n, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
