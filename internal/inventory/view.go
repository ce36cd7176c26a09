// Package inventory derives what the inventory and packing views show from
// items, places, packing lists and the current selection. Nothing here
// touches storage.
package inventory

import (
	"cmp"
	"slices"
	"strings"

	"github.com/dukerupert/nomadcloset/internal/model"
)

const (
	// FilterAll passes every item.
	FilterAll = "all"
	// FilterUnassigned passes items without a place.
	FilterUnassigned = "null"

	LabelUncategorized = "Uncategorized"
	LabelUnassigned    = "Unassigned"
	LabelUnknown       = "Unknown"
)

type RowType string

const (
	RowHeader RowType = "header"
	RowItem   RowType = "item"
)

// Row is one line of the inventory view. Header rows only carry Category.
type Row struct {
	Type         RowType `json:"type"`
	Category     string  `json:"category"`
	ID           string  `json:"id,omitempty"`
	Name         string  `json:"name,omitempty"`
	Quantity     int     `json:"quantity,omitempty"`
	PlaceID      *string `json:"place_id,omitempty"`
	PlaceName    string  `json:"place_name,omitempty"`
	CategoryID   *string `json:"category_id,omitempty"`
	CategoryName string  `json:"category_name,omitempty"`
	Selected     bool    `json:"selected,omitempty"`
}

type View struct {
	Rows          []Row    `json:"rows"`
	VisibleIDs    []string `json:"visible_ids"`
	SelectAll     TriState `json:"select_all"`
	SelectedCount int      `json:"selected_count"`
}

// MatchesPlace applies the place filter: "all", "null" or a place id.
func MatchesPlace(item model.Item, filter string) bool {
	switch filter {
	case "", FilterAll:
		return true
	case FilterUnassigned:
		return item.PlaceID == nil
	default:
		return item.PlaceID != nil && *item.PlaceID == filter
	}
}

// MatchesQuery is a case-insensitive substring match on the item name.
func MatchesQuery(item model.Item, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.Name), strings.ToLower(query))
}

// Filter returns the items passing both the place filter and the query.
func Filter(items []model.Item, filter, query string) []model.Item {
	out := make([]model.Item, 0, len(items))
	for _, item := range items {
		if MatchesPlace(item, filter) && MatchesQuery(item, query) {
			out = append(out, item)
		}
	}
	return out
}

// CategoryName resolves an item's category label.
func CategoryName(item model.Item) string {
	if item.CategoryID == nil || item.CategoryName == nil || *item.CategoryName == "" {
		return LabelUncategorized
	}
	return *item.CategoryName
}

// PlaceName resolves the label for placeID against the known places.
func PlaceName(placeID *string, places map[string]model.Place) string {
	if placeID == nil {
		return LabelUnassigned
	}
	if p, ok := places[*placeID]; ok {
		return p.Name
	}
	return LabelUnknown
}

func indexPlaces(places []model.Place) map[string]model.Place {
	m := make(map[string]model.Place, len(places))
	for _, p := range places {
		m[p.ID] = p
	}
	return m
}

// ComputeView filters, sorts and groups items for display. Rows are ordered by
// category label, then name, then id, and a header precedes each category.
func ComputeView(items []model.Item, places []model.Place, filter, query string, sel *Selection) View {
	if sel == nil {
		sel = &Selection{}
	}
	byID := indexPlaces(places)

	visible := Filter(items, filter, query)
	slices.SortStableFunc(visible, func(a, b model.Item) int {
		return cmp.Or(
			model.CompareNames(CategoryName(a), CategoryName(b)),
			model.CompareNames(a.Name, b.Name),
			strings.Compare(a.ID, b.ID),
		)
	})

	view := View{
		Rows:       make([]Row, 0, len(visible)),
		VisibleIDs: make([]string, 0, len(visible)),
	}
	current := ""
	for i, item := range visible {
		category := CategoryName(item)
		if i == 0 || category != current {
			view.Rows = append(view.Rows, Row{Type: RowHeader, Category: category})
			current = category
		}
		row := Row{
			Type:         RowItem,
			Category:     category,
			ID:           item.ID,
			Name:         item.Name,
			Quantity:     item.Quantity,
			PlaceID:      item.PlaceID,
			PlaceName:    PlaceName(item.PlaceID, byID),
			CategoryID:   item.CategoryID,
			CategoryName: category,
			Selected:     sel.Contains(item.ID),
		}
		view.Rows = append(view.Rows, row)
		view.VisibleIDs = append(view.VisibleIDs, item.ID)
	}
	view.SelectAll = sel.State(view.VisibleIDs)
	view.SelectedCount = sel.Len()
	return view
}
