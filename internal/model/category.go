package model

import "time"

// Category is a user-defined series that groups snapshots, typically one per
// financial account. Categories are created and deleted by the user; the
// analysis pipeline only ever assigns them, never invents them.
type Category struct {
	CreatedAt time.Time
	Name      string
	Color     string
	ID        int64
}
