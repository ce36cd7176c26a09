package model

import "time"

type ActionType string

const (
	ActionCreatePlace       ActionType = "create_place"
	ActionCreateItem        ActionType = "create_item"
	ActionModifyItem        ActionType = "modify_item"
	ActionMoveItem          ActionType = "move_item"
	ActionDeleteItem        ActionType = "delete_item"
	ActionBulkMoveItems     ActionType = "bulk_move_items"
	ActionBulkDeleteItems   ActionType = "bulk_delete_items"
	ActionExportCSV         ActionType = "export_csv"
	ActionSetLuggage        ActionType = "set_luggage"
	ActionCreatePackingList ActionType = "create_packing_list"
)

// Action is an append-only audit record. Metadata holds JSON text.
type Action struct {
	ID          string     `db:"id" json:"id"`
	UserID      string     `db:"user_id" json:"user_id"`
	SessionID   string     `db:"session_id" json:"session_id"`
	ActionType  ActionType `db:"action_type" json:"action_type"`
	ItemID      *string    `db:"item_id" json:"item_id"`
	ItemName    *string    `db:"item_name" json:"item_name"`
	FromPlaceID *string    `db:"from_place_id" json:"from_place_id"`
	ToPlaceID   *string    `db:"to_place_id" json:"to_place_id"`
	Metadata    *string    `db:"metadata" json:"metadata"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}
