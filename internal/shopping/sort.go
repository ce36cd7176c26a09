// Package shopping orders shopping boards and applies taken toggles
// optimistically with a compensating undo.
package shopping

import (
	"cmp"
	"slices"
	"strings"

	"github.com/dukerupert/nomadcloset/internal/model"
)

// SortBoards orders boards by name and sorts each board's items.
func SortBoards(boards []model.ShoppingBoard) {
	slices.SortStableFunc(boards, func(a, b model.ShoppingBoard) int {
		return cmp.Or(model.CompareNames(a.Name, b.Name), strings.Compare(a.ID, b.ID))
	})
	for i := range boards {
		SortItems(boards[i].Items)
	}
}

// SortItems puts untaken items first, then orders by name.
func SortItems(items []model.ShoppingItem) {
	slices.SortStableFunc(items, func(a, b model.ShoppingItem) int {
		if a.IsTaken != b.IsTaken {
			if a.IsTaken {
				return 1
			}
			return -1
		}
		return model.CompareNames(a.Name, b.Name)
	})
}
