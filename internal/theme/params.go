package theme

import (
	"fmt"
	"strings"
)

// Param is one named tag parameter, e.g. src="script".
type Param struct {
	Key   string
	Value string
}

// Params is the ordered parameter list handed over by the tag-dispatch
// layer.  When a key repeats, the last value wins.
type Params []Param

// Pairs builds Params from alternating key/value arguments.  A trailing key
// without a value gets the empty string.
func Pairs(kv ...any) Params {
	p := make(Params, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		val := ""
		if i+1 < len(kv) {
			val = fmt.Sprint(kv[i+1])
		}
		p = append(p, Param{Key: fmt.Sprint(kv[i]), Value: val})
	}
	return p
}

// Get returns the value for key and whether it was present.
func (p Params) Get(key string) (string, bool) {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].Key == key {
			return p[i].Value, true
		}
	}
	return "", false
}

// String returns the value for key, or def when missing or empty.
func (p Params) String(key, def string) string {
	if v, ok := p.Get(key); ok && v != "" {
		return v
	}
	return def
}

// Bool interprets key as a flag.  true, 1, yes, and on count as set.
func (p Params) Bool(key string) bool {
	v, _ := p.Get(key)
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

// Request is the typed form of one tag invocation.
type Request struct {
	Kind      Kind
	Src       string
	Tag       bool
	CacheBust bool
	Version   bool
	Alt       string
}

// defaultSrc is used by js and css when src is not given.
const defaultSrc = "app"

// NewRequest reads the known parameters for kind from p.
func NewRequest(kind Kind, p Params) Request {
	def := ""
	if kind == KindJS || kind == KindCSS {
		def = defaultSrc
	}
	return Request{
		Kind:      kind,
		Src:       p.String("src", def),
		Tag:       p.Bool("tag"),
		CacheBust: p.Bool("cache_bust"),
		Version:   p.Bool("version"),
		Alt:       p.String("alt", ""),
	}
}
