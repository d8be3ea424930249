package site

import "time"

// Record mirrors the columns of the `site` table this layer reads.  The
// operational state is captured by two nullable timestamps:
//
//   - SuspendedAt – site is temporarily disabled (e.g., billing).
//   - DeletedAt   – site is permanently removed.
//
// Either timestamp being non-NULL hides the site from ByHost.
type Record struct {
	ID          uint64     `db:"id"`
	Host        string     `db:"host"`
	Theme       string     `db:"theme"`
	SuspendedAt *time.Time `db:"suspended_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}
