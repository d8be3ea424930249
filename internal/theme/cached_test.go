package theme

import (
	"errors"
	"io/fs"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// countingStore counts reads and can fail with a transient error.
type countingStore struct {
	mu    sync.Mutex
	files map[string]string
	fail  error
	reads atomic.Int32
}

func (c *countingStore) Get(name string) ([]byte, error) {
	c.reads.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return nil, c.fail
	}
	v, ok := c.files[storeKey(name)]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(v), nil
}

func (c *countingStore) LastModified(string) (int64, error) { return 7, nil }

func TestCachedStore_CachesWithinTTL(t *testing.T) {
	t.Parallel()

	next := &countingStore{files: map[string]string{"mix-manifest.json": "{}"}}
	c := NewCachedStore(next, time.Minute, 4)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if got, err := c.Get("/mix-manifest.json"); err != nil || string(got) != "{}" {
			t.Fatalf("Get = %q, %v", got, err)
		}
	}
	if n := next.reads.Load(); n != 1 {
		t.Fatalf("reads = %d, want 1", n)
	}

	now = now.Add(2 * time.Minute)
	if _, err := c.Get("mix-manifest.json"); err != nil {
		t.Fatalf("Get after TTL: %v", err)
	}
	if n := next.reads.Load(); n != 2 {
		t.Fatalf("reads after TTL = %d, want 2", n)
	}
}

func TestCachedStore_CachesAbsence(t *testing.T) {
	t.Parallel()

	next := &countingStore{}
	c := NewCachedStore(next, time.Minute, 0)

	for i := 0; i < 2; i++ {
		if _, err := c.Get("build/rev-manifest.json"); !errors.Is(err, fs.ErrNotExist) {
			t.Fatalf("Get error = %v, want fs.ErrNotExist", err)
		}
	}
	if n := next.reads.Load(); n != 1 {
		t.Fatalf("reads = %d, want 1", n)
	}
}

func TestCachedStore_DoesNotCacheIOErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk on fire")
	next := &countingStore{fail: boom}
	c := NewCachedStore(next, time.Minute, 0)

	for i := 0; i < 2; i++ {
		if _, err := c.Get("mix-manifest.json"); !errors.Is(err, boom) {
			t.Fatalf("Get error = %v, want boom", err)
		}
	}
	if n := next.reads.Load(); n != 2 {
		t.Fatalf("reads = %d, want 2", n)
	}
}

func TestCachedStore_Forget(t *testing.T) {
	t.Parallel()

	next := &countingStore{files: map[string]string{"a.json": "1"}}
	c := NewCachedStore(next, time.Hour, 0)

	_, _ = c.Get("a.json")
	c.Forget("/a.json")
	_, _ = c.Get("a.json")

	if n := next.reads.Load(); n != 2 {
		t.Fatalf("reads = %d, want 2", n)
	}
}

func TestCachedStore_LastModifiedPassesThrough(t *testing.T) {
	t.Parallel()

	c := NewCachedStore(&countingStore{}, time.Hour, 0)
	if ts, err := c.LastModified("/js/app.js"); err != nil || ts != 7 {
		t.Fatalf("LastModified = %d, %v, want 7", ts, err)
	}
}
