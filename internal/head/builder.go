// internal/head/builder.go
//
// The Builder collects the tags a page’s <head> element should carry.  It
// is scoped to a single render call.  The preview server fills it with the
// theme’s default bundles (already resolved to <link> and <script> tags),
// and the theme’s layout decides where to emit each slice.
//
// Features
// --------
//   - SetTitle      – single <title> tag (last call wins).
//   - Link, Script  – resolved tags, deduplicated by their exact markup.
//   - Render helpers return template.HTML for {{ .Head.Links }} and friends.
package head

import (
	"html/template"
	"strings"
	"sync"
)

// Builder is safe for concurrent writes; reads are expected after the
// writes are done.
type Builder struct {
	mu sync.Mutex

	title   string
	links   []string
	scripts []string

	seen map[string]struct{}
}

func New() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

// SetTitle overrides the page <title>.  The last caller wins.
func (b *Builder) SetTitle(t string) {
	b.mu.Lock()
	b.title = t
	b.mu.Unlock()
}

// Link adds a stylesheet tag.  Empty and repeated tags are ignored.
func (b *Builder) Link(tag string) { b.add("link:"+tag, &b.links, tag) }

// Script adds a script tag.  Empty and repeated tags are ignored.
func (b *Builder) Script(tag string) { b.add("script:"+tag, &b.scripts, tag) }

func (b *Builder) add(key string, tgt *[]string, tag string) {
	if tag == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	*tgt = append(*tgt, tag)
}

// ------------------------------------------------------------------
// Rendering helpers called from theme templates
// ------------------------------------------------------------------

// Title returns a fully formed <title> tag or an empty string.
func (b *Builder) Title() template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.title == "" {
		return ""
	}
	return template.HTML("<title>" + template.HTMLEscapeString(b.title) + "</title>")
}

func (b *Builder) Links() template.HTML   { return b.concat(b.links) }
func (b *Builder) Scripts() template.HTML { return b.concat(b.scripts) }

// concat joins tags without a separator.  Tags come from the resolver,
// which escapes the paths it wraps.
func (b *Builder) concat(sl []string) template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()
	return template.HTML(strings.Join(sl, ""))
}
