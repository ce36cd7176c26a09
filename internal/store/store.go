// Package store persists nomadcloset data. Every query is scoped by user id and
// written with "?" placeholders that are rebound for the active driver.
package store

import (
	"database/sql"

	"github.com/google/uuid"
)

func newID() string {
	return uuid.NewString()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// validIDs drops empty ids and duplicates, keeping first-seen order.
func validIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
