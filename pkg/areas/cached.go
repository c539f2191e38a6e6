package areas

import (
	"context"
	"time"

	"github.com/hotspotlabs/viewgate/pkg/cache"
)

// cachedDirectoryMaxTenants bounds the per-tenant cache size.
const cachedDirectoryMaxTenants = 1000

// CachedDirectory wraps a Directory with a per-tenant TTL cache. Lookup
// failures are not cached; only successful listings are.
type CachedDirectory struct {
	inner Directory
	cache *cache.LRUCache
}

// NewCachedDirectory creates a caching wrapper around dir.
func NewCachedDirectory(dir Directory, ttl time.Duration) *CachedDirectory {
	return &CachedDirectory{
		inner: dir,
		cache: cache.NewLRUCache(cachedDirectoryMaxTenants, ttl),
	}
}

// ListAreas serves from cache when fresh, delegating otherwise.
func (d *CachedDirectory) ListAreas(ctx context.Context, tenantID string) ([]Area, error) {
	if cached, ok := d.cache.Get(tenantID); ok {
		if areas, ok := cached.([]Area); ok {
			return areas, nil
		}
	}

	areas, err := d.inner.ListAreas(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	d.cache.Set(tenantID, areas)
	return areas, nil
}
