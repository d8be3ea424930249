package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yanizio/themetags/internal/theme"
)

// Sentinel errors for argument parsing.
var (
	ErrNoTag    = errors.New("missing tag argument")
	ErrBadParam = errors.New("parameter must be key=value")
	ErrEmptyKey = errors.New("parameter key is empty")
)

// invocation is one parsed `<tag> [key=value ...]` command line.
type invocation struct {
	kind   theme.Kind
	params theme.Params
}

// parseArgs turns positional arguments into a tag invocation.  Parameter
// order is kept so a repeated key resolves the same way it would in a
// template.
func parseArgs(args []string) (invocation, error) {
	if len(args) == 0 {
		return invocation{}, ErrNoTag
	}
	kind, err := theme.ParseKind(args[0])
	if err != nil {
		return invocation{}, err
	}

	params := make(theme.Params, 0, len(args)-1)
	for _, a := range args[1:] {
		k, v, ok := strings.Cut(a, "=")
		if !ok {
			return invocation{}, fmt.Errorf("%w: %q", ErrBadParam, a)
		}
		k = strings.TrimSpace(k)
		if k == "" {
			return invocation{}, fmt.Errorf("%w: %q", ErrEmptyKey, a)
		}
		params = append(params, theme.Param{Key: k, Value: v})
	}
	return invocation{kind: kind, params: params}, nil
}
