package model

import "time"

type ShoppingBoard struct {
	ID        string         `db:"id" json:"id"`
	UserID    string         `db:"user_id" json:"-"`
	PlaceID   string         `db:"place_id" json:"place_id"`
	Name      string         `db:"name" json:"name"`
	Items     []ShoppingItem `db:"-" json:"items"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

type ShoppingItem struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"-"`
	ListID    string    `db:"list_id" json:"list_id"`
	Name      string    `db:"name" json:"name"`
	IsTaken   bool      `db:"is_taken" json:"is_taken"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
