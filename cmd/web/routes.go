// cmd/web/routes.go
//
// Preview routes.
//
//   /                → home.html from the host's theme
//   /pages/{page}    → <page>.html from the host's theme
//   /metrics         → Prometheus
//   everything else  → static file from the public directory
//
// Every page gets a head.Builder preloaded with the theme's default
// bundles (css/app and js/app, versioned) and a title, exposed to the
// layout as .Head.  Pages are rendered into a buffer first so a template
// error never leaves half a page on the wire.
package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/themetags/internal/head"
	"github.com/yanizio/themetags/internal/middleware"
	"github.com/yanizio/themetags/internal/theme"
)

// themeSource returns the theme for a host.  *tenant.Cache satisfies it.
type themeSource interface {
	Get(ctx context.Context, host string) (*theme.Theme, error)
}

// pageData is what every page template receives as dot.
type pageData struct {
	Host  string
	Theme string
	Path  string
	Head  *head.Builder
}

// defaultBundle is the tag every page head carries for each kind.
var defaultBundle = theme.Pairs("tag", "true", "version", "true")

// newHead resolves the theme's default bundles into a fresh Builder.
func newHead(th *theme.Theme) *head.Builder {
	b := head.New()
	b.SetTitle(th.Name)
	if th.Assets != nil {
		b.Link(th.Assets.Resolve(theme.KindCSS, defaultBundle))
		b.Script(th.Assets.Resolve(theme.KindJS, defaultBundle))
	}
	return b
}

func newRouter(themes themeSource, publicDir string, log *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()

	r.Handle("/metrics", promhttp.Handler())

	page := func(w http.ResponseWriter, req *http.Request, name string) {
		host := stripPort(req.Host)
		th, err := themes.Get(req.Context(), host)
		if err != nil {
			log.Errorw("theme unavailable", "host", host, "err", err)
			http.Error(w, "theme unavailable", http.StatusServiceUnavailable)
			return
		}

		var buf bytes.Buffer
		data := pageData{Host: host, Theme: th.Name, Path: req.URL.Path, Head: newHead(th)}
		if err := th.Render(&buf, name, data); err != nil {
			if errors.Is(err, theme.ErrTemplateNotFound) {
				http.NotFound(w, req)
				return
			}
			log.Errorw("render error", "host", host, "page", name, "err", err)
			http.Error(w, "template error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = buf.WriteTo(w)
	}

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		page(w, req, "home")
	})
	r.Get("/pages/{page}", func(w http.ResponseWriter, req *http.Request) {
		page(w, req, chi.URLParam(req, "page"))
	})

	r.NotFound(middleware.CacheControl(http.FileServer(http.Dir(publicDir))).ServeHTTP)

	return r
}

// stripPort removes any “:port” suffix from the Host header.
func stripPort(h string) string {
	if i := strings.LastIndexByte(h, ':'); i != -1 && !strings.HasSuffix(h, "]") {
		return h[:i]
	}
	return h
}
