package model

import "time"

type Place struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"-"`
	Name      string    `db:"name" json:"name"`
	IsLuggage bool      `db:"is_luggage" json:"is_luggage"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Category struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"-"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Item is an inventory row. PlaceName and CategoryName are filled by joins and
// stay nil when the reference is null or points at a deleted row.
type Item struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"-"`
	Name         string    `db:"name" json:"name"`
	Quantity     int       `db:"quantity" json:"quantity"`
	PlaceID      *string   `db:"place_id" json:"place_id"`
	CategoryID   *string   `db:"category_id" json:"category_id"`
	PlaceName    *string   `db:"place_name" json:"place_name,omitempty"`
	CategoryName *string   `db:"category_name" json:"category_name,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
