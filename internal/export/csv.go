// Package export serialises the action log to CSV and archives exports to
// S3-compatible storage.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/dukerupert/nomadcloset/internal/apperr"
	"github.com/dukerupert/nomadcloset/internal/model"
)

// FileName is the download name of an export.
const FileName = "nomadcloset_actions_export.csv"

// Columns is the header row of an export.
var Columns = []string{
	"id", "user_id", "session_id", "action_type", "item_id", "item_name",
	"from_place_id", "to_place_id", "metadata", "created_at",
}

// Pseudonym replaces a user id with "user_" and its first 8 characters.
func Pseudonym(userID string) string {
	if len(userID) > 8 {
		userID = userID[:8]
	}
	return "user_" + userID
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// WriteCSV writes the header and one row per action. NULL fields are empty.
func WriteCSV(w io.Writer, actions []model.Action) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, a := range actions {
		record := []string{
			a.ID,
			Pseudonym(a.UserID),
			a.SessionID,
			string(a.ActionType),
			optional(a.ItemID),
			optional(a.ItemName),
			optional(a.FromPlaceID),
			optional(a.ToPlaceID),
			optional(a.Metadata),
			a.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write action %s: %w", a.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ActionLister reads a user's action log, oldest first.
type ActionLister interface {
	ListByUser(ctx context.Context, userID string) ([]model.Action, error)
}

// Render builds the CSV export of userID's action log and returns it with the
// number of rows. An empty log is a not-found error.
func Render(ctx context.Context, actions ActionLister, userID string) ([]byte, int, error) {
	list, err := actions.ListByUser(ctx, userID)
	if err != nil {
		return nil, 0, apperr.Remote(err)
	}
	if len(list) == 0 {
		return nil, 0, apperr.NotFound("no actions to export")
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, list); err != nil {
		return nil, 0, apperr.Remote(err)
	}
	return buf.Bytes(), len(list), nil
}
