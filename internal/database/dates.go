package database

import (
	"database/sql"
	"time"
)

// Dates are stored as "2006-01-02" strings so the SQLite and PostgreSQL
// paths scan identically.
const dateLayout = "2006-01-02"

func dateArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func scanDate(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, ns.String)
	if err != nil {
		// Tolerate timestamps written by other tools.
		t, err = time.Parse(time.RFC3339, ns.String)
		if err != nil {
			return nil
		}
	}
	return &t
}
