// internal/theme/cached.go
//
// CachedStore keeps recent Get results in memory.  Version manifests are
// read on every `version="true"` tag, which on a busy page means the same
// two files dozens of times per render.
//
// Notes
// -----
//   - Both hits and "absent" results are cached for ttl.  Other I/O errors
//     are returned but never cached.
//   - Concurrent misses on one name collapse into a single read through
//     singleflight.
//   - Returned slices are shared between callers and must not be modified.
//   - LastModified is never cached; cache busting must see fresh mtimes.
package theme

import (
	"errors"
	"io/fs"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yanizio/themetags/internal/cache"
	"github.com/yanizio/themetags/internal/metrics"
)

// DefaultCacheSize bounds the number of cached reads.
const DefaultCacheSize = 64

// CachedStore wraps another Store with a TTL cache on Get.
type CachedStore struct {
	next Store
	ttl  time.Duration
	lru  *cache.LRU[string, cachedRead]
	sfg  singleflight.Group
	now  func() time.Time
}

type cachedRead struct {
	data []byte
	err  error
	exp  time.Time
}

// NewCachedStore caches next's reads for ttl.  size < 1 uses
// DefaultCacheSize.
func NewCachedStore(next Store, ttl time.Duration, size int) *CachedStore {
	if size < 1 {
		size = DefaultCacheSize
	}
	return &CachedStore{
		next: next,
		ttl:  ttl,
		lru:  cache.New[string, cachedRead](size),
		now:  time.Now,
	}
}

// Get serves name from cache when fresh, else reads through.
func (c *CachedStore) Get(name string) ([]byte, error) {
	key := storeKey(name)
	if r, ok := c.lru.Get(key); ok && c.now().Before(r.exp) {
		metrics.StoreCacheTotal.WithLabelValues("hit").Inc()
		return r.data, r.err
	}
	metrics.StoreCacheTotal.WithLabelValues("miss").Inc()

	v, _, _ := c.sfg.Do(key, func() (any, error) {
		data, err := c.next.Get(name)
		r := cachedRead{data: data, err: err, exp: c.now().Add(c.ttl)}
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			c.lru.Add(key, r)
		}
		return r, nil
	})
	r := v.(cachedRead)
	return r.data, r.err
}

// LastModified passes straight through.
func (c *CachedStore) LastModified(name string) (int64, error) {
	return c.next.LastModified(name)
}

// Forget drops name from the cache, e.g. after a rebuild rewrote it.
func (c *CachedStore) Forget(name string) { c.lru.Remove(storeKey(name)) }

var _ Store = (*CachedStore)(nil)
