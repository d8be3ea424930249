// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` after it unmarshals
// and defaults the merged Koanf tree.  Any tag mismatch or validation error
// aborts startup, so the binary never runs with malformed configuration.
//
// Beyond the tag rules, one cross-field check lives here: a DSN template
// with a %s verb needs a password to fill it.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.

package config

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = validator.New()

// ErrMissingPassword is returned when database.global_dsn expects a
// password that is not configured.
var ErrMissingPassword = errors.New("database.global_dsn has %s but database.global_password is empty")

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	if err := v.Struct(c); err != nil {
		return err
	}
	if strings.Count(c.Database.GlobalDSN, "%s") > 1 {
		return errors.New("database.global_dsn may contain at most one %s verb")
	}
	if strings.Contains(c.Database.GlobalDSN, "%s") && c.Database.GlobalPassword == "" {
		return ErrMissingPassword
	}
	return nil
}
