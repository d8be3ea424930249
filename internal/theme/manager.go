package theme

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Manager discovers and loads themes.
type Manager struct {
	BaseDir string // e.g., "themes" (relative) or "/srv/themes" (absolute)
	Public  Store  // shared public store: manifests and cache-bust mtimes
	RootURL string // theme root URL prefix handed to every Resolver
	Logger  *zap.SugaredLogger
}

// Load parses templates for the named theme and builds its Resolver.
//
// Layout on disk:
//
//	<BaseDir>/<name>/templates/**/*.html   page templates
//	<BaseDir>/<name>/...                   files readable by theme:output
func (m *Manager) Load(name string) (*Theme, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	root := filepath.Join(m.BaseDir, name)
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s at %s", ErrThemeNotFound, name, root)
	}

	themeStore, err := NewDirStore(root)
	if err != nil {
		return nil, fmt.Errorf("theme %s store: %w", name, err)
	}

	log := m.Logger
	if log == nil {
		log = zap.S()
	}
	res := NewResolver(m.Public,
		WithRoot(m.RootURL),
		WithThemeStore(themeStore),
		WithLogger(log.With("theme", name)),
	)

	tpl := template.New(name).Funcs(FuncMap(res))
	tplDir := filepath.Join(root, "templates")
	if files, _ := CollectHTML(tplDir); len(files) > 0 {
		if _, err := tpl.ParseFiles(files...); err != nil {
			return nil, fmt.Errorf("parse theme %s templates: %w", name, err)
		}
	}

	log.Debugw("theme loaded", "theme", name, "dir", themeStore.Root())
	return &Theme{
		Name:     name,
		Dir:      themeStore.Root(),
		Renderer: tpl,
		Assets:   res,
	}, nil
}

// validateName rejects names that could leave BaseDir.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: theme %q", ErrInvalidName, name)
	}
	return nil
}
