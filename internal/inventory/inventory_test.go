package inventory

import (
	"github.com/dukerupert/nomadcloset/internal/model"
)

func sp(s string) *string { return &s }

func testPlaces() []model.Place {
	return []model.Place{
		{ID: "p-home", Name: "Casa Uni"},
		{ID: "p-parents", Name: "Casa Genitori"},
		{ID: "p-bag", Name: "Valigia", IsLuggage: true},
	}
}

func testItems() []model.Item {
	return []model.Item{
		{ID: "i1", Name: "Laptop", Quantity: 1, PlaceID: sp("p-home"), CategoryID: sp("c-tech"), CategoryName: sp("Tech")},
		{ID: "i2", Name: "charger", Quantity: 2, PlaceID: sp("p-bag"), CategoryID: sp("c-tech"), CategoryName: sp("Tech")},
		{ID: "i3", Name: "Socks", Quantity: 6, PlaceID: sp("p-parents"), CategoryID: sp("c-clothes"), CategoryName: sp("Clothing")},
		{ID: "i4", Name: "Passport", Quantity: 1, PlaceID: nil, CategoryID: nil},
		{ID: "i5", Name: "Novel", Quantity: 1, PlaceID: sp("p-home"), CategoryID: sp("c-gone"), CategoryName: nil},
		{ID: "i6", Name: "Shirt", Quantity: 3, PlaceID: sp("p-home"), CategoryID: sp("c-clothes"), CategoryName: sp("Clothing")},
	}
}
