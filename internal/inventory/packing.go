package inventory

import (
	"github.com/dukerupert/nomadcloset/internal/apperr"
	"github.com/dukerupert/nomadcloset/internal/model"
)

type PackState string

const (
	PackMissing      PackState = "missing"
	PackPacked       PackState = "packed"
	PackNeedsPacking PackState = "needs_packing"
)

// PackRow is one template entry checked against live inventory.
type PackRow struct {
	ItemID    string    `json:"id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	State     PackState `json:"state"`
	PlaceID   *string   `json:"place_id,omitempty"`
	PlaceName string    `json:"place_name,omitempty"`
}

type Reconciliation struct {
	Luggage        model.Place `json:"luggage"`
	Rows           []PackRow   `json:"rows"`
	MoveCandidates []string    `json:"move_candidates"`
}

// LuggagePlace returns the single place flagged as luggage.
func LuggagePlace(places []model.Place) (model.Place, error) {
	var (
		found model.Place
		n     int
	)
	for _, p := range places {
		if p.IsLuggage {
			found = p
			n++
		}
	}
	switch n {
	case 0:
		return model.Place{}, apperr.Configuration("no luggage place set")
	case 1:
		return found, nil
	default:
		return model.Place{}, apperr.Configuration("more than one luggage place set")
	}
}

// ReconcilePackingList classifies each entry of list, in list order, as
// missing, packed or needing packing, and collects the ids that can be moved
// to the luggage place.
func ReconcilePackingList(list model.PackingList, items []model.Item, places []model.Place) (*Reconciliation, error) {
	luggage, err := LuggagePlace(places)
	if err != nil {
		return nil, err
	}

	live := make(map[string]model.Item, len(items))
	for _, item := range items {
		live[item.ID] = item
	}
	byID := indexPlaces(places)

	rec := &Reconciliation{
		Luggage:        luggage,
		Rows:           make([]PackRow, 0, len(list.Entries)),
		MoveCandidates: []string{},
	}
	queued := make(map[string]bool)
	for _, entry := range list.Entries {
		item, ok := live[entry.ItemID]
		if !ok || !ValidID(entry.ItemID) {
			rec.Rows = append(rec.Rows, PackRow{
				ItemID:   entry.ItemID,
				Name:     entry.Name,
				Quantity: entry.Quantity,
				State:    PackMissing,
			})
			continue
		}

		row := PackRow{
			ItemID:    item.ID,
			Name:      item.Name,
			Quantity:  entry.Quantity,
			PlaceID:   item.PlaceID,
			PlaceName: PlaceName(item.PlaceID, byID),
		}
		if item.PlaceID != nil && *item.PlaceID == luggage.ID {
			row.State = PackPacked
		} else {
			row.State = PackNeedsPacking
			if !queued[item.ID] {
				queued[item.ID] = true
				rec.MoveCandidates = append(rec.MoveCandidates, item.ID)
			}
		}
		rec.Rows = append(rec.Rows, row)
	}
	return rec, nil
}

// SelectMoves keeps the move candidates that are checked, in candidate order.
func SelectMoves(rec *Reconciliation, checked []string) ([]string, error) {
	want := make(map[string]bool)
	for _, id := range FilterIDs(checked) {
		want[id] = true
	}
	moves := make([]string, 0, len(want))
	for _, id := range rec.MoveCandidates {
		if want[id] {
			moves = append(moves, id)
		}
	}
	if len(moves) == 0 {
		return nil, apperr.Validation("check the items you want to pack")
	}
	return moves, nil
}
