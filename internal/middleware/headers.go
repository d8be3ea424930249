// internal/middleware/headers.go
//
// Response-header middleware for the preview server.
//
//   • Security      – HSTS, CSP, frame, sniffing, referrer, and permissions
//                     headers on every response.
//   • CacheControl  – long-lived caching for fingerprinted asset URLs.
//
// Notes
// -----
// • Security headers are set *before* next.ServeHTTP, because
//   http.FileServer and template rendering commit the header map on first
//   write.  Handlers that want a different value simply overwrite it.
// • CacheControl decides at WriteHeader time.  Only a 2xx or 304 for a
//   fingerprinted URL is immutable; errors such as a 404 for a stale
//   `?v=` link always get no-cache.
// • A URL is considered fingerprinted when its query carries `v` (the
//   cache_bust timestamp) or `id` (the mix manifest hash), or when it lives
//   under /build/ (rev output, hash in the file name).  Manifest files
//   themselves are never fingerprinted.
// • Oxford commas, two spaces after periods.

// Package middleware holds small, composable HTTP wrappers.
package middleware

import (
	"net/http"
	"strings"
)

const (
	immutable = "public, max-age=31536000, immutable"
	revalid   = "no-cache"
)

// Security sets security headers for every response.
func Security(next http.Handler) http.Handler {
	headers := [][2]string{
		{"Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload"},
		{"Content-Security-Policy", "default-src 'self'; img-src 'self' data:; " +
			"object-src 'none'; base-uri 'self'; frame-ancestors 'none'"},
		{"X-Frame-Options", "DENY"},
		{"X-Content-Type-Options", "nosniff"},
		{"Referrer-Policy", "strict-origin-when-cross-origin"},
		{"Permissions-Policy", "geolocation=(), microphone=(), camera=()"},
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for _, kv := range headers {
			h.Set(kv[0], kv[1])
		}
		next.ServeHTTP(w, r)
	})
}

// CacheControl marks successful fingerprinted asset responses as immutable
// and every other response as needing revalidation.
func CacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", revalid)
		if !Fingerprinted(r) {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(&cacheWriter{ResponseWriter: w}, r)
	})
}

// Fingerprinted reports whether r addresses a versioned asset URL.
func Fingerprinted(r *http.Request) bool {
	if strings.HasSuffix(r.URL.Path, "manifest.json") {
		return false
	}
	q := r.URL.Query()
	if q.Get("v") != "" || q.Get("id") != "" {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/build/")
}

// cacheWriter upgrades Cache-Control to immutable once the status is
// known to be cacheable.
type cacheWriter struct {
	http.ResponseWriter
	wrote bool
}

func (cw *cacheWriter) WriteHeader(code int) {
	if !cw.wrote {
		cw.wrote = true
		if (code >= 200 && code < 300) || code == http.StatusNotModified {
			cw.Header().Set("Cache-Control", immutable)
		} else {
			cw.Header().Set("Cache-Control", revalid)
		}
	}
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *cacheWriter) Write(b []byte) (int, error) {
	if !cw.wrote {
		cw.WriteHeader(http.StatusOK)
	}
	return cw.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (cw *cacheWriter) Unwrap() http.ResponseWriter { return cw.ResponseWriter }
