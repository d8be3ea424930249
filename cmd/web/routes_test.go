package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/yanizio/themetags/internal/theme"
)

type staticThemes struct {
	th  *theme.Theme
	err error
}

func (s staticThemes) Get(context.Context, string) (*theme.Theme, error) { return s.th, s.err }

func write(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	root := t.TempDir()
	base := filepath.Join(root, "themes")
	pub := filepath.Join(root, "public")

	write(t, filepath.Join(base, "redwood", "templates", "home.html"),
		`{{ theme "js" "tag" "true" "version" "true" }} {{ .Host }}`)
	write(t, filepath.Join(base, "redwood", "templates", "about.html"), `about {{ .Theme }}`)
	write(t, filepath.Join(base, "redwood", "templates", "layout.html"),
		`{{ .Head.Title }}{{ .Head.Links }}{{ .Head.Scripts }}`)
	write(t, filepath.Join(pub, "js", "app.js"), "console.log(1)")
	write(t, filepath.Join(pub, "build", "rev-manifest.json"), `{"js/app.js": "js/app-1.js"}`)

	public, err := theme.NewDirStore(pub)
	if err != nil {
		t.Fatalf("NewDirStore: %v", err)
	}
	log := zaptest.NewLogger(t).Sugar()
	mgr := &theme.Manager{BaseDir: base, Public: public, Logger: log}
	th, err := mgr.Load("redwood")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return newRouter(staticThemes{th: th}, pub, log)
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Host = "example.test:8080"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouter_Pages(t *testing.T) {
	h := newTestRouter(t)

	rr := get(h, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("GET / status = %d, want 200", rr.Code)
	}
	want := `<script src="/build/js/app-1.js"></script> example.test`
	if rr.Body.String() != want {
		t.Fatalf("GET / body = %q, want %q", rr.Body.String(), want)
	}

	rr = get(h, "/pages/about")
	if rr.Code != http.StatusOK || rr.Body.String() != "about redwood" {
		t.Fatalf("GET /pages/about = %d %q", rr.Code, rr.Body.String())
	}

	if rr = get(h, "/pages/missing"); rr.Code != http.StatusNotFound {
		t.Fatalf("GET /pages/missing status = %d, want 404", rr.Code)
	}
}

func TestRouter_HeadDefaults(t *testing.T) {
	h := newTestRouter(t)

	rr := get(h, "/pages/layout")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	want := `<title>redwood</title>` +
		`<link rel="stylesheet" href="/css/app.css" />` +
		`<script src="/build/js/app-1.js"></script>`
	if rr.Body.String() != want {
		t.Fatalf("body = %q, want %q", rr.Body.String(), want)
	}
}

func TestRouter_StaticAssets(t *testing.T) {
	h := newTestRouter(t)

	rr := get(h, "/js/app.js?v=12345")
	if rr.Code != http.StatusOK || rr.Body.String() != "console.log(1)" {
		t.Fatalf("GET asset = %d %q", rr.Code, rr.Body.String())
	}
	if cc := rr.Header().Get("Cache-Control"); !strings.Contains(cc, "immutable") {
		t.Fatalf("Cache-Control = %q, want immutable", cc)
	}

	if rr = get(h, "/js/nope.js"); rr.Code != http.StatusNotFound {
		t.Fatalf("GET missing asset status = %d, want 404", rr.Code)
	}
}

func TestRouter_Metrics(t *testing.T) {
	h := newTestRouter(t)
	_ = get(h, "/") // make sure theme counters have samples

	rr := get(h, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /metrics status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "theme_tag_resolve_total") {
		t.Fatalf("metrics output missing theme_tag_resolve_total")
	}
}

func TestRouter_ThemeUnavailable(t *testing.T) {
	h := newRouter(staticThemes{err: errors.New("db down")}, t.TempDir(), zaptest.NewLogger(t).Sugar())
	if rr := get(h, "/"); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
}

func TestStripPort(t *testing.T) {
	tests := map[string]string{
		"example.test:8080": "example.test",
		"example.test":      "example.test",
		"[::1]:8080":        "[::1]",
		"[::1]":             "[::1]",
	}
	for in, want := range tests {
		if got := stripPort(in); got != want {
			t.Errorf("stripPort(%q) = %q, want %q", in, got, want)
		}
	}
}
