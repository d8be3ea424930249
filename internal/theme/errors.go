package theme

import "errors"

// Sentinel errors for theme loading and file access.  The resolver itself
// never surfaces these; they come from stores and the Manager.
var (
	// ErrThemeNotFound indicates the theme directory does not exist.
	ErrThemeNotFound = errors.New("theme not found")

	// ErrTemplateNotFound indicates the theme has no such page template.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidName indicates a theme or tag name with illegal characters.
	ErrInvalidName = errors.New("invalid name")

	// ErrPathEscape indicates a store path that resolves outside its root.
	ErrPathEscape = errors.New("path escapes store root")
)
