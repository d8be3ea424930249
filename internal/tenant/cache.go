// internal/tenant/cache.go
//
// Per-host theme cache.
//
// Context
// -------
// Each host serves one theme.  The first request for a host asks the
// ThemeLookup which theme it uses (or falls back to the default), loads it
// through the Loader, and stores the result in a sync.Map.  Concurrent
// first hits collapse into one load through singleflight.  The evictor in
// evictor.go drops hosts that stay idle longer than idleTTL.
//
// Notes
// -----
//   - A lookup that fails with site.ErrNotFound is not an error; the host
//     gets the fallback theme.  Any other lookup failure is returned.
//   - The shared load runs on a context detached from the first caller and
//     bounded by LoadTimeout, so one disconnecting client cannot fail every
//     request collapsed onto the same load.
//   - Prime hands over an already-parsed fallback theme; hosts that resolve
//     to it share that instance instead of parsing it again.
//   - Oxford commas, two spaces after periods.
package tenant

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/themetags/internal/metrics"
	"github.com/yanizio/themetags/internal/site"
	"github.com/yanizio/themetags/internal/theme"
)

// Static defaults.  Override via config.
const (
	IdleTTL       = 30 * time.Minute
	EvictInterval = 5 * time.Minute
	LoadTimeout   = 10 * time.Second
)

// ThemeLookup maps a host to its theme name.
type ThemeLookup interface {
	ThemeFor(ctx context.Context, host string) (string, error)
}

// Loader builds a Theme by name.  *theme.Manager satisfies it.
type Loader interface {
	Load(name string) (*theme.Theme, error)
}

// Cache lazily loads host themes and evicts idle ones.
type Cache struct {
	lookup   ThemeLookup // nil: every host uses fallback
	loader   Loader
	fallback string
	idleTTL  time.Duration
	log      *zap.SugaredLogger

	sfg    singleflight.Group
	m      sync.Map // host → *entry
	primed atomic.Pointer[theme.Theme]
	stop   chan struct{}
	once   sync.Once
}

type entry struct {
	theme    *theme.Theme
	lastSeen int64 // UnixNano
}

// New constructs a Cache and starts the background evictor.  idleTTL <= 0
// disables eviction.
func New(lookup ThemeLookup, loader Loader, fallback string, idleTTL time.Duration, log *zap.SugaredLogger) *Cache {
	if log == nil {
		log = zap.S()
	}
	c := &Cache{
		lookup:   lookup,
		loader:   loader,
		fallback: fallback,
		idleTTL:  idleTTL,
		log:      log,
		stop:     make(chan struct{}),
	}
	if idleTTL > 0 {
		go c.evictLoop(time.NewTicker(EvictInterval))
	}
	return c
}

// Get returns the Theme for host, loading it on demand.
func (c *Cache) Get(ctx context.Context, host string) (*theme.Theme, error) {
	if v, ok := c.m.Load(host); ok {
		ent := v.(*entry)
		atomic.StoreInt64(&ent.lastSeen, time.Now().UnixNano())
		return ent.theme, nil
	}

	v, err, _ := c.sfg.Do(host, func() (any, error) {
		// Double-check after singleflight barrier.
		if v, ok := c.m.Load(host); ok {
			ent := v.(*entry)
			atomic.StoreInt64(&ent.lastSeen, time.Now().UnixNano())
			return ent.theme, nil
		}

		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), LoadTimeout)
		defer cancel()

		name, err := c.themeName(loadCtx, host)
		if err != nil {
			metrics.ThemeLoadErrorsTotal.Inc()
			return nil, err
		}
		th, err := c.load(name)
		if err != nil {
			metrics.ThemeLoadErrorsTotal.Inc()
			return nil, fmt.Errorf("load theme %s for %s: %w", name, host, err)
		}
		c.m.Store(host, &entry{theme: th, lastSeen: time.Now().UnixNano()})
		metrics.ThemeLoadTotal.Inc()
		metrics.ActiveThemes.Inc()
		c.log.Infow("theme online", "host", host, "theme", name)
		return th, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*theme.Theme), nil
}

// Prime registers th as the already-loaded fallback theme.  It is ignored
// when th is nil or not named after the fallback.
func (c *Cache) Prime(th *theme.Theme) {
	if th == nil || th.Name != c.fallback {
		return
	}
	c.primed.Store(th)
}

// load returns the primed fallback when name matches it, else asks the
// Loader.
func (c *Cache) load(name string) (*theme.Theme, error) {
	if th := c.primed.Load(); th != nil && th.Name == name {
		return th, nil
	}
	return c.loader.Load(name)
}

// Close stops the evictor.  Safe to call more than once.
func (c *Cache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Cache) themeName(ctx context.Context, host string) (string, error) {
	if c.lookup == nil {
		return c.fallback, nil
	}
	name, err := c.lookup.ThemeFor(ctx, host)
	switch {
	case errors.Is(err, site.ErrNotFound):
		c.log.Debugw("host has no site row, using fallback theme",
			"host", host, "theme", c.fallback)
		return c.fallback, nil
	case err != nil:
		return "", fmt.Errorf("theme lookup %s: %w", host, err)
	}
	return name, nil
}
