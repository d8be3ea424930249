// Package theme resolves public asset paths for a site's visual theme and
// loads the theme's templates.
//
// A Theme combines:
//
//   - Name      – the theme directory name (for example, “redwood”).
//   - Dir       – absolute path to that directory on disk.
//   - Renderer  – parsed templates with the `theme` function installed.
//   - Assets    – the Resolver behind `{{ theme "js" … }}`.
//
// The Resolver is usable on its own; the Manager only adds template
// discovery and per-theme stores.
package theme

import (
	"fmt"
	"html/template"
	"io"
)

// Theme is returned by the Manager once all templates are parsed.
type Theme struct {
	Name     string
	Dir      string
	Renderer *template.Template
	Assets   *Resolver
}

// Render executes the page template "<page>.html" into w.
func (t *Theme) Render(w io.Writer, page string, data any) error {
	name := page + ".html"
	if t.Renderer == nil || t.Renderer.Lookup(name) == nil {
		return fmt.Errorf("%w: %s/%s", ErrTemplateNotFound, t.Name, name)
	}
	return t.Renderer.ExecuteTemplate(w, name, data)
}

// Has reports whether the theme defines "<page>.html".
func (t *Theme) Has(page string) bool {
	return t.Renderer != nil && t.Renderer.Lookup(page+".html") != nil
}
