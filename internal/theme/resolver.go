// internal/theme/resolver.go
//
// Asset path resolver behind the `theme:*` template tags.
//
// Context
// -------
// A tag such as `{{ theme "js" "src" "app" "tag" "true" }}` arrives here as
// a Kind plus ordered Params.  Resolve turns it into one string: a public
// path, an HTML tag wrapping that path, or (for output) raw file contents.
//
// Workflow
// --------
//  1. Build the base path: `<root>/<dir>/<src><ext>`.
//  2. version="true" on js or css rewrites the path through the manifests.
//  3. Otherwise cache_bust="true" appends `?v=<mtime>`.
//  4. tag="true" wraps the result in <script>, <link>, or <img>.
//
// Notes
// -----
//   - Resolve never fails.  Missing manifests, entries, and files degrade
//     to the plain path (or empty output) and log at debug level, so a
//     page render is never aborted by a theme tag.
//   - Safe for concurrent use once built; Resolver holds no mutable state.
//   - Oxford commas, two spaces after periods.
package theme

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/yanizio/themetags/internal/metrics"
)

const (
	scriptFmt = `<script src="%s"></script>`
	linkFmt   = `<link rel="stylesheet" href="%s" />`
	imgFmt    = `<img src="%s" alt="%s" />`
)

// Resolver resolves theme tags against a public store and a theme store.
type Resolver struct {
	root      string
	public    Store
	theme     Store
	manifests []ManifestFormat
	log       *zap.SugaredLogger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRoot sets the theme root URL prefix, e.g. "/themes/redwood".  The
// default is empty, so paths start at "/".
func WithRoot(root string) Option {
	return func(r *Resolver) { r.root = strings.TrimRight(root, "/") }
}

// WithThemeStore sets the store theme:output reads from.  Without one,
// output reads from the public store.
func WithThemeStore(s Store) Option {
	return func(r *Resolver) { r.theme = s }
}

// WithManifests overrides the manifest lookup order.
func WithManifests(formats ...ManifestFormat) Option {
	return func(r *Resolver) { r.manifests = formats }
}

// WithLogger sets the logger.  The default is zap.S().
func WithLogger(l *zap.SugaredLogger) Option {
	return func(r *Resolver) { r.log = l }
}

// NewResolver builds a Resolver over the public store.
func NewResolver(public Store, opts ...Option) *Resolver {
	r := &Resolver{
		public:    public,
		manifests: DefaultManifests,
	}
	for _, o := range opts {
		o(r)
	}
	if r.theme == nil {
		r.theme = public
	}
	if r.log == nil {
		r.log = zap.S()
	}
	return r
}

// Root returns the theme root URL prefix.
func (r *Resolver) Root() string { return r.root }

// Resolve is the tag entry point: kind plus raw parameters.
func (r *Resolver) Resolve(kind Kind, p Params) string {
	return r.ResolveRequest(NewRequest(kind, p))
}

// ResolveRequest resolves an already-typed request.
func (r *Resolver) ResolveRequest(req Request) string {
	metrics.ResolveTotal.WithLabelValues(req.Kind.label()).Inc()

	if req.Kind == KindOutput {
		return r.output(req.Src)
	}

	p := r.Path(req)
	switch {
	case req.Version && req.Kind.Versioned():
		p = r.versioned(p)
	case req.CacheBust:
		p = r.cacheBust(p)
	}

	if req.Tag && req.Kind.Wraps() {
		return wrap(req, p)
	}
	return p
}

// Path returns the plain public path for req: no version, no query.
func (r *Resolver) Path(req Request) string {
	src := strings.TrimPrefix(req.Src, "/")
	if ext := req.Kind.Ext(); ext != "" && !strings.HasSuffix(src, ext) {
		src += ext
	}
	if dir := req.Kind.Dir(); dir != "" {
		return r.root + "/" + dir + "/" + src
	}
	return r.root + "/" + src
}

// IsMarkup reports whether req resolves to HTML rather than a path.
func IsMarkup(req Request) bool {
	return req.Kind == KindOutput || (req.Tag && req.Kind.Wraps())
}

//
// internal helpers
//

func (r *Resolver) versioned(p string) string {
	if v, ok := lookupVersion(r.public, r.manifests, p, r.log); ok {
		return v
	}
	return p
}

func (r *Resolver) cacheBust(p string) string {
	if r.public == nil {
		return p
	}
	ts, err := r.public.LastModified(p)
	if err != nil {
		r.log.Debugw("cache bust skipped", "path", p, "err", err)
		return p
	}
	return p + "?v=" + strconv.FormatInt(ts, 10)
}

func (r *Resolver) output(src string) string {
	if r.theme == nil || src == "" {
		return ""
	}
	data, err := r.theme.Get(src)
	if err != nil {
		r.log.Debugw("theme output unavailable", "src", src, "err", err)
		return ""
	}
	return string(data)
}

func wrap(req Request, p string) string {
	esc := template.HTMLEscapeString(p)
	switch req.Kind {
	case KindJS:
		return fmt.Sprintf(scriptFmt, esc)
	case KindCSS:
		return fmt.Sprintf(linkFmt, esc)
	case KindImg:
		return fmt.Sprintf(imgFmt, esc, template.HTMLEscapeString(req.Alt))
	}
	return p
}
