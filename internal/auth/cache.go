package auth

import (
	"context"

	msalcache "github.com/AzureAD/microsoft-authentication-library-for-go/apps/cache"
	"github.com/azw-io/azapi/internal/cachestore"
)

// CacheAccessor bridges the identity library's serialization hooks to a
// cachestore backend. The library calls Replace before reading its cache and
// Export after every write, so the persisted blob tracks every acquisition
// rather than only a process-exit flush.
type CacheAccessor struct {
	store cachestore.Store
}

// NewCacheAccessor wraps a store for use as the client's token cache.
func NewCacheAccessor(store cachestore.Store) *CacheAccessor {
	return &CacheAccessor{store: store}
}

// Replace loads the persisted cache into the in-memory one. A missing or
// corrupted blob leaves the cache empty; startup must never fail on it.
func (a *CacheAccessor) Replace(ctx context.Context, cache msalcache.Unmarshaler, hints msalcache.ReplaceHints) error {
	data, err := a.store.Load(ctx)
	if err != nil || len(data) == 0 {
		return nil
	}

	// A blob the library cannot deserialize resets to an empty cache.
	_ = cache.Unmarshal(data)

	return nil
}

// Export persists the serialized cache.
func (a *CacheAccessor) Export(ctx context.Context, cache msalcache.Marshaler, hints msalcache.ExportHints) error {
	data, err := cache.Marshal()
	if err != nil {
		return err
	}

	return a.store.Save(ctx, data)
}
