// evictor.go houses the eviction loop for Cache.  Every EvictInterval it
// scans the map and removes hosts idle longer than idleTTL.  Each eviction
// is logged and updates Prometheus counters.
package tenant

import (
	"sync/atomic"
	"time"

	"github.com/yanizio/themetags/internal/metrics"
)

func (c *Cache) evictLoop(t *time.Ticker) {
	defer t.Stop()
	for {
		select {
		case <-c.stop:
			return
		case now := <-t.C:
			c.evictIdle(now)
		}
	}
}

// evictIdle drops every entry last seen more than idleTTL before now and
// returns how many were removed.
func (c *Cache) evictIdle(now time.Time) int {
	var n int
	c.m.Range(func(key, value any) bool {
		ent := value.(*entry)
		idle := time.Duration(now.UnixNano() - atomic.LoadInt64(&ent.lastSeen))
		if idle > c.idleTTL {
			c.m.Delete(key)
			n++
			c.log.Infow("theme evicted", "host", key, "idle", idle.Truncate(time.Second))
			metrics.ThemeEvictTotal.Inc()
			metrics.ActiveThemes.Dec()
		}
		return true
	})
	return n
}
