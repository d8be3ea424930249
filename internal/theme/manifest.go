// internal/theme/manifest.go
//
// Build-tool version manifests.
//
// Context
// -------
// Front-end build tools write a JSON object mapping each source asset to
// its fingerprinted output.  Two conventions are supported, tried in
// order:
//
//  1. mix  – `mix-manifest.json`, keys with a leading slash, values are
//     public paths used verbatim:
//     {"/js/foo.js": "/js/foo.js?id=12345"}
//  2. rev  – `build/rev-manifest.json`, keys without a leading slash,
//     values relative to `/build/`:
//     {"js/foo.js": "js/foo-12345.js"}
//
// The first manifest that loads decides the answer.  A later format is
// consulted only when an earlier file is absent, unreadable, or not a JSON
// object; a missing key in a loaded manifest does not fall through.
package theme

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/yanizio/themetags/internal/metrics"
)

// ManifestFormat describes one manifest document and its key convention.
type ManifestFormat struct {
	Name         string // metrics and log label
	File         string // path relative to the public store
	LeadingSlash bool   // keys start with "/"
	Prefix       string // prepended to values on output
}

var (
	MixManifest = ManifestFormat{
		Name:         "mix",
		File:         "mix-manifest.json",
		LeadingSlash: true,
	}
	RevManifest = ManifestFormat{
		Name:   "rev",
		File:   "build/rev-manifest.json",
		Prefix: "/build/",
	}
)

// DefaultManifests is the lookup order used when none is configured.
var DefaultManifests = []ManifestFormat{MixManifest, RevManifest}

// Key converts a public path into this format's key.
func (f ManifestFormat) Key(publicPath string) string {
	k := strings.TrimPrefix(publicPath, "/")
	if f.LeadingSlash {
		return "/" + k
	}
	return k
}

// Output converts a manifest value into a public path.
func (f ManifestFormat) Output(value string) string {
	if f.Prefix == "" {
		return value
	}
	return f.Prefix + strings.TrimPrefix(value, "/")
}

// load reads and decodes the manifest.  ok is false when the file cannot
// be used at all.
func (f ManifestFormat) load(s Store) (entries map[string]string, ok bool) {
	if s == nil {
		return nil, false
	}
	data, err := s.Get(f.File)
	if err != nil {
		return nil, false
	}
	if err := json.Unmarshal(data, &entries); err != nil || entries == nil {
		return nil, false
	}
	return entries, true
}

// lookupVersion walks formats in order and returns the versioned path for
// publicPath.  found is false when no manifest loaded or the loaded one
// has no entry.
func lookupVersion(s Store, formats []ManifestFormat, publicPath string, log *zap.SugaredLogger) (string, bool) {
	for _, f := range formats {
		entries, ok := f.load(s)
		if !ok {
			metrics.ManifestLookupTotal.WithLabelValues(f.Name, "absent").Inc()
			continue
		}
		v, hit := entries[f.Key(publicPath)]
		if !hit || v == "" {
			metrics.ManifestLookupTotal.WithLabelValues(f.Name, "miss").Inc()
			log.Debugw("manifest entry missing", "manifest", f.File, "path", publicPath)
			return "", false
		}
		metrics.ManifestLookupTotal.WithLabelValues(f.Name, "hit").Inc()
		return f.Output(v), true
	}
	log.Debugw("no version manifest available", "path", publicPath)
	return "", false
}
