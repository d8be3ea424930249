//
//  internal/theme/helper.go
//
//  Template function that exposes the resolver to html/template.  Tag
//  parameters are passed as alternating key/value arguments:
//
//	{{ theme "js" }}                                 → /js/app.js
//	{{ theme "css" "src" "style" "tag" "true" }}     → <link …/>
//	{{ theme "img" "src" "hat.jpg" "tag" true "alt" .Title }}
//	{{ theme "output" "src" "icons.svg" }}            → file contents
//
//  Markup results come back as template.HTML so they are spliced in as-is.
//  Plain paths come back as strings and are escaped by the template for
//  whatever context they land in.
//

package theme

import (
	"html/template"
)

// FuncMap returns the theme template functions bound to r.
func FuncMap(r *Resolver) template.FuncMap {
	return template.FuncMap{
		"theme": tagFunc(r),
	}
}

// tagFunc never returns an error.  An unknown tag is hidden behind an
// <!-- comment --> so a typo in a theme never breaks the page.
func tagFunc(r *Resolver) func(string, ...any) any {
	return func(tag string, kv ...any) any {
		kind, err := ParseKind(tag)
		if err != nil {
			r.log.Debugw("theme tag rejected", "tag", tag, "err", err)
			return template.HTML("<!-- theme: invalid tag -->")
		}
		req := NewRequest(kind, Pairs(kv...))
		out := r.ResolveRequest(req)
		if IsMarkup(req) {
			return template.HTML(out) // #nosec G203 -- escaped in wrap, output is trusted theme content
		}
		return out
	}
}
