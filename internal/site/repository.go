// internal/site/repository.go
//
// Read-only access to the control-plane `site` table.
//
// Context
// -------
// The preview server can serve many hosts, each with its own theme.  When
// a global DSN is configured, the theme name for a host comes from the
// `site.theme` column; otherwise every host uses the configured default
// theme and this package is never touched.
//
// Notes
// -----
//   - ErrNotFound covers unknown hosts, suspended or deleted sites, and
//     rows with an empty theme.  Callers fall back to the default theme.
//   - Oxford commas, two spaces after periods.
package site

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a host has no active site row.
var ErrNotFound = errors.New("site not found")

const byHostQuery = `
        SELECT id, host, theme, suspended_at, deleted_at
        FROM   site
        WHERE  host = ?
          AND  suspended_at IS NULL
          AND  deleted_at   IS NULL
        LIMIT  1`

// ByHost fetches a single site row that is not suspended or deleted.  The
// caller supplies a context so the lookup respects request deadlines.
func ByHost(ctx context.Context, db *sqlx.DB, host string) (*Record, error) {
	var rec Record
	if err := db.GetContext(ctx, &rec, byHostQuery, host); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, host)
		}
		return nil, fmt.Errorf("site by host %s: %w", host, err)
	}
	return &rec, nil
}

// Lookup adapts the site table to tenant.ThemeLookup.
type Lookup struct {
	DB *sqlx.DB
}

// ThemeFor returns the theme column for host.
func (l Lookup) ThemeFor(ctx context.Context, host string) (string, error) {
	rec, err := ByHost(ctx, l.DB, host)
	if err != nil {
		return "", err
	}
	if rec.Theme == "" {
		return "", fmt.Errorf("%w: %s has no theme", ErrNotFound, host)
	}
	return rec.Theme, nil
}
