package storeservice

import (
	"github.com/baseplate/storeops/internal/core/search"
)

const Screen = "store-services"

// Columns returns the store service search and grid columns. Price, labor
// amount and active can be changed in grid mode.
func Columns() search.Columns {
	services := make([]search.Option, len(Services))
	for i, s := range Services {
		services[i] = search.Option{Value: s.Code, Label: s.Description}
	}
	yesNo := []search.Option{{Value: true, Label: "Yes"}, {Value: false, Label: "No"}}

	return search.MustColumns(search.Columns{
		{Name: "store.code", DisplayName: "Store", Type: search.TypeString,
			Searchable: &search.Searchable{Default: true, Comparator: "equalTo"}},
		{Name: "service.code", DisplayName: "Service", Type: search.TypeDropdown,
			Searchable: &search.Searchable{Default: true, Comparator: "in"}, Options: services},
		{Name: "price", DisplayName: "Price", Type: search.TypeDecimal,
			Searchable: &search.Searchable{}, GridUpdatable: true},
		{Name: "laborAmount", DisplayName: "Labor Amount", Type: search.TypeDecimal,
			Searchable: &search.Searchable{}, GridUpdatable: true},
		{Name: "active", DisplayName: "Active", Type: search.TypeBoolean,
			Searchable: &search.Searchable{Default: true, Comparator: "true"}, Options: yesNo, GridUpdatable: true},
		{Name: "priceOverridable", DisplayName: "Price Overridable", Type: search.TypeBoolean,
			Searchable: &search.Searchable{}, Options: yesNo},
		{Name: "promotionPrice", DisplayName: "Promotion Price", Type: search.TypeDecimal,
			Searchable: &search.Searchable{}},
		{Name: "promotionStartDate", DisplayName: "Promotion Start", Type: search.TypeDate,
			Searchable: &search.Searchable{}},
		{Name: "promotionEndDate", DisplayName: "Promotion End", Type: search.TypeDate,
			Searchable: &search.Searchable{}},
		{Name: "scheduledChangeDate", DisplayName: "Scheduled Change", Type: search.TypeDate,
			Searchable: &search.Searchable{}},
	})
}
