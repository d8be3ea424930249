// internal/theme/store.go
//
// File-store collaborator for the resolver.
//
// Context
// -------
// The resolver needs exactly two things from disk: the bytes of a small
// file (version manifests, or a file echoed by theme:output) and the
// modification time of a public asset for cache busting.  Store captures
// that surface so tests can swap in an in-memory fake.
//
// Paths are slash-separated and relative to the store root.  A leading
// slash is accepted, so "/js/foo.js" and "js/foo.js" name the same file.
// Absence is reported with an error that satisfies
// errors.Is(err, fs.ErrNotExist).
package theme

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Store reads files and modification times beneath a root.
type Store interface {
	Get(name string) ([]byte, error)
	LastModified(name string) (int64, error) // Unix seconds
}

// DirStore is a Store over a directory on disk.
type DirStore struct {
	root string
}

// NewDirStore returns a DirStore for dir.  The directory must exist.
func NewDirStore(dir string) (*DirStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("store root %s: %w", dir, err)
	}
	// Resolve symlinks once so the containment check compares like with like.
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("store root %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("store root %s: not a directory", abs)
	}
	return &DirStore{root: abs}, nil
}

// Root returns the absolute directory backing the store.
func (d *DirStore) Root() string { return d.root }

// Get reads the whole file.
func (d *DirStore) Get(name string) ([]byte, error) {
	p, err := d.path(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p) // #nosec G304 -- path contained by d.path
}

// LastModified returns the file's mtime in Unix seconds.
func (d *DirStore) LastModified(name string) (int64, error) {
	p, err := d.path(name)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(p)
	if err != nil {
		return 0, err
	}
	return info.ModTime().Unix(), nil
}

// path maps name onto the filesystem and rejects anything that ends up
// outside root, including via symlinks.
func (d *DirStore) path(name string) (string, error) {
	clean := strings.TrimPrefix(path.Clean("/"+name), "/")
	if clean == "" {
		return "", fmt.Errorf("%w: %q", ErrPathEscape, name)
	}
	p := filepath.Join(d.root, filepath.FromSlash(clean))
	if real, err := filepath.EvalSymlinks(p); err == nil {
		p = real
	}
	if !within(d.root, p) {
		return "", fmt.Errorf("%w: %q", ErrPathEscape, name)
	}
	return p, nil
}

// within reports whether p lies strictly below root.  A root of "/" holds
// every absolute path.
func within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == "." || filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// storeKey normalises a name the same way for every Store implementation.
func storeKey(name string) string {
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}

// Compile-time interface check.
var _ Store = (*DirStore)(nil)
