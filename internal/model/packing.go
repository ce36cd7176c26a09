package model

import "time"

// PackingList is a named snapshot of items taken when the list was created.
type PackingList struct {
	ID        string         `db:"id" json:"id"`
	UserID    string         `db:"user_id" json:"-"`
	Name      string         `db:"name" json:"name"`
	Entries   []PackingEntry `db:"-" json:"items"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// PackingEntry references an item by id. Name and Quantity are the values at
// snapshot time and are used when the item no longer exists.
type PackingEntry struct {
	ListID   string `db:"list_id" json:"-"`
	Position int    `db:"position" json:"-"`
	ItemID   string `db:"item_id" json:"id"`
	Name     string `db:"name" json:"name"`
	Quantity int    `db:"quantity" json:"quantity"`
}
