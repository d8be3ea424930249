package theme

import (
	"fmt"
	"strings"
)

// Kind is the tag method that selects how src is resolved.
//
// The four fixed kinds cover scripts, stylesheets, free-form asset paths,
// and raw file output.  Any other valid name is a directory kind, so
// `theme:img src="hat.jpg"` resolves to `<root>/img/hat.jpg`.
type Kind string

const (
	KindJS     Kind = "js"
	KindCSS    Kind = "css"
	KindAsset  Kind = "asset"
	KindOutput Kind = "output"

	// KindImg is a directory kind with its own tag form.
	KindImg Kind = "img"
)

// tagNamespace is the prefix templates use, as in "theme:js".
const tagNamespace = "theme:"

// ParseKind accepts "theme:js" or "js".  Names are lowercased; anything
// other than letters, digits, '-', or '_' is rejected.
func ParseKind(tag string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(tag))
	name = strings.TrimPrefix(name, tagNamespace)
	if name == "" {
		return "", fmt.Errorf("%w: empty tag", ErrInvalidName)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return "", fmt.Errorf("%w: tag %q", ErrInvalidName, tag)
		}
	}
	return Kind(name), nil
}

// Ext is the extension appended to src when missing (js and css only).
func (k Kind) Ext() string {
	switch k {
	case KindJS:
		return ".js"
	case KindCSS:
		return ".css"
	}
	return ""
}

// Dir is the public sub-directory for k.  Asset and output have none.
func (k Kind) Dir() string {
	switch k {
	case KindAsset, KindOutput:
		return ""
	}
	return string(k)
}

// Versioned reports whether the version manifests apply to k.
func (k Kind) Versioned() bool { return k == KindJS || k == KindCSS }

// Wraps reports whether tag="true" produces markup for k.
func (k Kind) Wraps() bool { return k == KindJS || k == KindCSS || k == KindImg }

func (k Kind) label() string {
	switch k {
	case KindJS, KindCSS, KindAsset, KindOutput:
		return string(k)
	}
	return "dir"
}
