// Package cachestore provides the persistence backends for the serialized
// token cache. Load and Save are symmetric: whatever bytes Save wrote, Load
// returns. A missing or unreadable cache is reported as empty, never as an
// error, so a corrupted cache file cannot abort startup.
package cachestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/azw-io/azapi/internal/constants"
	"github.com/azw-io/azapi/pkg/azapi"
)

// Static errors for configuration failures.
var (
	ErrUnsupportedCacheType = errors.New("unsupported cache type")
	ErrNATSConfigRequired   = errors.New("NATS URL and bucket required for NATS cache")
)

// Store persists one opaque token cache blob.
type Store interface {
	// Load returns the persisted blob, or nil when nothing usable is stored.
	Load(ctx context.Context) ([]byte, error)

	// Save persists the blob, replacing any previous one.
	Save(ctx context.Context, data []byte) error
}

// DefaultFilePath derives the cache file path from the invoking entry point
// and the API type, so REST and Graph caches are stored separately and keyed
// by which top-level command is running.
func DefaultFilePath(apiType azapi.APIType) string {
	return os.Args[0] + constants.CacheFileInfix + string(apiType)
}

// New creates a store from configuration. A nil config or empty type means
// the file backend with the default path for the API type.
func New(config *azapi.CacheConfig, apiType azapi.APIType) (Store, error) {
	if config == nil {
		return NewFileStore(DefaultFilePath(apiType)), nil
	}

	switch config.Type {
	case azapi.CacheTypeFile, "":
		path := config.FilePath
		if path == "" {
			path = DefaultFilePath(apiType)
		}

		return NewFileStore(path), nil

	case azapi.CacheTypeMemory:
		return NewMemoryStore(), nil

	case azapi.CacheTypeNATS:
		if config.NATSURL == "" || config.NATSBucket == "" {
			return nil, ErrNATSConfigRequired
		}

		return NewNATSKVStore(config.NATSURL, config.NATSBucket, string(apiType))

	case azapi.CacheTypeNone:
		return NewNoOpStore(), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCacheType, config.Type)
	}
}

// FileStore persists the cache as a single file.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the cache file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the cache file. A missing or unreadable file yields an empty
// cache.
func (s *FileStore) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, nil
	}

	return data, nil
}

// Save writes the cache file, owner read/write only.
func (s *FileStore) Save(ctx context.Context, data []byte) error {
	err := os.WriteFile(s.path, data, constants.CacheFilePerm)
	if err != nil {
		return fmt.Errorf("writing token cache %s: %w", s.path, err)
	}

	return nil
}

// MemoryStore keeps the cache in process memory. Useful for tests and for
// callers that want MSAL's cache semantics without persistence.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored blob.
func (s *MemoryStore) Load(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.data, nil
}

// Save replaces the stored blob.
func (s *MemoryStore) Save(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make([]byte, len(data))
	copy(s.data, data)

	return nil
}

// NoOpStore disables persistence entirely.
type NoOpStore struct{}

// NewNoOpStore creates a store that never persists anything.
func NewNoOpStore() *NoOpStore {
	return &NoOpStore{}
}

// Load always reports an empty cache.
func (s *NoOpStore) Load(ctx context.Context) ([]byte, error) {
	return nil, nil
}

// Save does nothing.
func (s *NoOpStore) Save(ctx context.Context, data []byte) error {
	return nil
}
