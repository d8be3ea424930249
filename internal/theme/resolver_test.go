// internal/theme/resolver_test.go
//
// Unit-tests for the theme tag resolver.
//
// Context
// -------
// memStore stands in for the public and theme stores so each test can
// decide which manifests exist and what a file's mtime is.  The cases
// cover the plain path rules (default src, extension, directory), tag
// wrapping, cache busting, both manifest formats, and every fallback to
// the plain path.

package theme

import (
	"io/fs"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap/zaptest"

	"github.com/yanizio/themetags/internal/metrics"
)

// memStore is an in-memory Store.  files is keyed by normalised name,
// mtimes by the exact name the resolver asks for.
type memStore struct {
	files  map[string]string
	mtimes map[string]int64
	gets   []string
}

func (m *memStore) Get(name string) ([]byte, error) {
	m.gets = append(m.gets, name)
	v, ok := m.files[storeKey(name)]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(v), nil
}

func (m *memStore) LastModified(name string) (int64, error) {
	v, ok := m.mtimes[name]
	if !ok {
		return 0, fs.ErrNotExist
	}
	return v, nil
}

func newTestResolver(t *testing.T, s *memStore, opts ...Option) *Resolver {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t).Sugar())}, opts...)
	return NewResolver(s, opts...)
}

func TestResolve_Paths(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, &memStore{})

	tests := []struct {
		name string
		kind Kind
		p    Params
		want string
	}{
		{"default js", KindJS, nil, "/js/app.js"},
		{"named js", KindJS, Pairs("src", "script.js"), "/js/script.js"},
		{"js appends extension", KindJS, Pairs("src", "script"), "/js/script.js"},
		{"js tag", KindJS, Pairs("src", "script", "tag", "true"),
			`<script src="/js/script.js"></script>`},
		{"default css", KindCSS, nil, "/css/app.css"},
		{"named css", KindCSS, Pairs("src", "style.css"), "/css/style.css"},
		{"css appends extension", KindCSS, Pairs("src", "style"), "/css/style.css"},
		{"css tag", KindCSS, Pairs("src", "style", "tag", "true"),
			`<link rel="stylesheet" href="/css/style.css" />`},
		{"asset path", KindAsset, Pairs("src", "img/hat.jpg"), "/img/hat.jpg"},
		{"asset keeps extension", KindAsset, Pairs("src", "img/hat"), "/img/hat"},
		{"asset leading slash", KindAsset, Pairs("src", "/img/hat.jpg"), "/img/hat.jpg"},
		{"asset ignores tag", KindAsset, Pairs("src", "img/hat.jpg", "tag", "true"), "/img/hat.jpg"},
		{"directory kind", KindImg, Pairs("src", "hat.jpg"), "/img/hat.jpg"},
		{"other directory kind", Kind("fonts"), Pairs("src", "serif.woff2"), "/fonts/serif.woff2"},
		{"img tag", KindImg, Pairs("src", "hat.jpg", "tag", "true", "alt", `A "red" hat`),
			`<img src="/img/hat.jpg" alt="A &#34;red&#34; hat" />`},
		{"empty src falls back to app", KindJS, Pairs("src", ""), "/js/app.js"},
		{"tag false", KindJS, Pairs("tag", "false"), "/js/app.js"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := r.Resolve(tc.kind, tc.p); got != tc.want {
				t.Fatalf("Resolve(%s, %v) = %q, want %q", tc.kind, tc.p, got, tc.want)
			}
		})
	}
}

func TestResolve_Root(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, &memStore{}, WithRoot("/themes/redwood/"))

	if got := r.Resolve(KindJS, nil); got != "/themes/redwood/js/app.js" {
		t.Fatalf("js = %q", got)
	}
	if got := r.Resolve(KindAsset, Pairs("src", "img/hat.jpg")); got != "/themes/redwood/img/hat.jpg" {
		t.Fatalf("asset = %q", got)
	}
}

func TestResolve_CacheBust(t *testing.T) {
	t.Parallel()

	s := &memStore{mtimes: map[string]int64{"/js/foo.js": 12345}}
	r := newTestResolver(t, s)

	got := r.Resolve(KindJS, Pairs("src", "foo", "cache_bust", "true"))
	if got != "/js/foo.js?v=12345" {
		t.Fatalf("cache bust = %q, want %q", got, "/js/foo.js?v=12345")
	}

	// Tag wrapping applies after the query string is appended.
	got = r.Resolve(KindJS, Pairs("src", "foo", "cache_bust", "true", "tag", "true"))
	if got != `<script src="/js/foo.js?v=12345"></script>` {
		t.Fatalf("cache bust tag = %q", got)
	}

	// A file that cannot be stat'ed keeps the plain path.
	if got := r.Resolve(KindJS, Pairs("src", "missing", "cache_bust", "true")); got != "/js/missing.js" {
		t.Fatalf("missing mtime = %q, want plain path", got)
	}
}

func TestResolve_Version(t *testing.T) {
	t.Parallel()

	const (
		mix = `{"/js/foo.js": "/js/foo.js?id=12345"}`
		rev = `{"js/foo.js": "js/foo-12345.js"}`
	)

	tests := []struct {
		name  string
		files map[string]string
		src   string
		want  string
	}{
		{"mix hit", map[string]string{"mix-manifest.json": mix},
			"foo", "/js/foo.js?id=12345"},
		{"rev hit when mix absent", map[string]string{"build/rev-manifest.json": rev},
			"foo", "/build/js/foo-12345.js"},
		{"mix miss does not fall through", map[string]string{
			"mix-manifest.json":       mix,
			"build/rev-manifest.json": `{"js/other.js": "js/other-1.js"}`,
		}, "other", "/js/other.js"},
		{"mix miss", map[string]string{"mix-manifest.json": mix},
			"non-versioned-file", "/js/non-versioned-file.js"},
		{"rev miss", map[string]string{"build/rev-manifest.json": rev},
			"non-versioned-file", "/js/non-versioned-file.js"},
		{"no manifests", nil, "foo", "/js/foo.js"},
		{"corrupt mix falls through to rev", map[string]string{
			"mix-manifest.json":       `{not json`,
			"build/rev-manifest.json": rev,
		}, "foo", "/build/js/foo-12345.js"},
		{"null mix falls through to rev", map[string]string{
			"mix-manifest.json":       `null`,
			"build/rev-manifest.json": rev,
		}, "foo", "/build/js/foo-12345.js"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := newTestResolver(t, &memStore{files: tc.files})
			got := r.Resolve(KindJS, Pairs("src", tc.src, "version", "true"))
			if got != tc.want {
				t.Fatalf("Resolve = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestResolve_VersionReadsManifestsInOrder(t *testing.T) {
	t.Parallel()

	s := &memStore{}
	r := newTestResolver(t, s)
	r.Resolve(KindCSS, Pairs("src", "style", "version", "true"))

	want := []string{"mix-manifest.json", "build/rev-manifest.json"}
	if len(s.gets) != len(want) {
		t.Fatalf("gets = %v, want %v", s.gets, want)
	}
	for i := range want {
		if s.gets[i] != want[i] {
			t.Fatalf("gets[%d] = %q, want %q", i, s.gets[i], want[i])
		}
	}
}

func TestResolve_VersionWinsOverCacheBust(t *testing.T) {
	t.Parallel()

	s := &memStore{
		files:  map[string]string{"mix-manifest.json": `{"/css/app.css": "/css/app.css?id=9"}`},
		mtimes: map[string]int64{"/css/app.css": 1},
	}
	r := newTestResolver(t, s)

	got := r.Resolve(KindCSS, Pairs("version", "true", "cache_bust", "true", "tag", "true"))
	if got != `<link rel="stylesheet" href="/css/app.css?id=9" />` {
		t.Fatalf("Resolve = %q", got)
	}
}

func TestResolve_Output(t *testing.T) {
	t.Parallel()

	public := &memStore{files: map[string]string{"package.json": "public copy"}}
	themeFiles := &memStore{files: map[string]string{"package.json": `{"name": "redwood"}`}}
	r := newTestResolver(t, public, WithThemeStore(themeFiles))

	if got := r.Resolve(KindOutput, Pairs("src", "package.json", "tag", "true")); got != `{"name": "redwood"}` {
		t.Fatalf("output = %q", got)
	}
	if got := r.Resolve(KindOutput, Pairs("src", "missing.txt")); got != "" {
		t.Fatalf("missing output = %q, want empty", got)
	}
	if got := r.Resolve(KindOutput, nil); got != "" {
		t.Fatalf("output without src = %q, want empty", got)
	}
}

func TestResolve_NilStoreDegrades(t *testing.T) {
	t.Parallel()

	r := NewResolver(nil, WithLogger(zaptest.NewLogger(t).Sugar()))
	if got := r.Resolve(KindJS, Pairs("src", "foo", "version", "true")); got != "/js/foo.js" {
		t.Fatalf("version with nil store = %q", got)
	}
	if got := r.Resolve(KindJS, Pairs("src", "foo", "cache_bust", "true")); got != "/js/foo.js" {
		t.Fatalf("cache bust with nil store = %q", got)
	}
}

// Not parallel: reads global counters.
func TestResolve_ManifestMetrics(t *testing.T) {
	hit := metrics.ManifestLookupTotal.WithLabelValues("rev", "hit")
	absent := metrics.ManifestLookupTotal.WithLabelValues("mix", "absent")
	hitBefore, absentBefore := testutil.ToFloat64(hit), testutil.ToFloat64(absent)

	s := &memStore{files: map[string]string{"build/rev-manifest.json": `{"js/foo.js": "js/foo-1.js"}`}}
	newTestResolver(t, s).Resolve(KindJS, Pairs("src", "foo", "version", "true"))

	if d := testutil.ToFloat64(hit) - hitBefore; d != 1 {
		t.Fatalf("rev hit delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(absent) - absentBefore; d != 1 {
		t.Fatalf("mix absent delta = %v, want 1", d)
	}
}
