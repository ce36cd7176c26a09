package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/nomadcloset/internal/apperr"
	"github.com/dukerupert/nomadcloset/internal/model"
)

func testList() model.PackingList {
	return model.PackingList{
		ID:   "l1",
		Name: "Weekend",
		Entries: []model.PackingEntry{
			{ItemID: "i2", Name: "charger", Quantity: 1},
			{ItemID: "i-deleted", Name: "Old camera", Quantity: 2},
			{ItemID: "i1", Name: "Laptop (old name)", Quantity: 1},
		},
	}
}

func TestReconcilePackingList(t *testing.T) {
	rec, err := ReconcilePackingList(testList(), testItems(), testPlaces())
	require.NoError(t, err)

	assert.Equal(t, "p-bag", rec.Luggage.ID)
	require.Len(t, rec.Rows, 3)

	// template order is kept
	assert.Equal(t, "i2", rec.Rows[0].ItemID)
	assert.Equal(t, PackPacked, rec.Rows[0].State)

	assert.Equal(t, PackMissing, rec.Rows[1].State)
	assert.Equal(t, "Old camera", rec.Rows[1].Name)
	assert.Equal(t, 2, rec.Rows[1].Quantity)

	assert.Equal(t, PackNeedsPacking, rec.Rows[2].State)
	assert.Equal(t, "Laptop", rec.Rows[2].Name)
	assert.Equal(t, "Casa Uni", rec.Rows[2].PlaceName)

	assert.Equal(t, []string{"i1"}, rec.MoveCandidates)
}

func TestReconcileUnassignedNeedsPacking(t *testing.T) {
	list := model.PackingList{Entries: []model.PackingEntry{{ItemID: "i4", Name: "Passport", Quantity: 1}}}
	rec, err := ReconcilePackingList(list, testItems(), testPlaces())
	require.NoError(t, err)

	require.Len(t, rec.Rows, 1)
	assert.Equal(t, PackNeedsPacking, rec.Rows[0].State)
	assert.Equal(t, "Unassigned", rec.Rows[0].PlaceName)
	assert.Equal(t, []string{"i4"}, rec.MoveCandidates)
}

func TestReconcileWithoutLuggage(t *testing.T) {
	places := testPlaces()
	places[2].IsLuggage = false

	rec, err := ReconcilePackingList(testList(), testItems(), places)
	require.Error(t, err)
	assert.Nil(t, rec)
	assert.Equal(t, apperr.KindConfiguration, apperr.KindOf(err))
	assert.Equal(t, "no luggage place set", apperr.Message(err))
}

func TestReconcileWithTwoLuggagePlaces(t *testing.T) {
	places := testPlaces()
	places[0].IsLuggage = true

	_, err := ReconcilePackingList(testList(), testItems(), places)
	assert.Equal(t, apperr.KindConfiguration, apperr.KindOf(err))
}

func TestSelectMoves(t *testing.T) {
	rec := &Reconciliation{MoveCandidates: []string{"a", "b", "c"}}

	moves, err := SelectMoves(rec, []string{"c", "null", "a", "zzz", ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, moves)

	_, err = SelectMoves(rec, []string{"undefined"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
