package storeservice

import (
	v "github.com/baseplate/storeops/internal/core/validation"
)

func Schema() map[string]any {
	ref := v.Object(map[string]*v.SchemaProperty{
		"code":        {Type: v.PropertyTypeString},
		"description": {Type: v.Nullable(v.PropertyTypeString)},
		"name":        {Type: v.Nullable(v.PropertyTypeString)},
	}, "code")
	number := &v.SchemaProperty{Type: v.Nullable(v.PropertyTypeNumber)}
	date := &v.SchemaProperty{Type: v.Nullable(v.PropertyTypeString)}
	flag := &v.SchemaProperty{Type: v.Nullable(v.PropertyTypeBoolean)}

	charge := v.Object(map[string]*v.SchemaProperty{
		"charge":  ref,
		"amount":  number,
		"taxable": flag,
	})

	return v.NewSchema(FormStoreService, map[string]*v.SchemaProperty{
		"id":                         {Type: v.Nullable(v.PropertyTypeString), Format: "uuid"},
		"store":                      ref,
		"service":                    ref,
		"price":                      number,
		"laborAmount":                number,
		"active":                     flag,
		"priceOverridable":           flag,
		"minimumPrice":               number,
		"maximumPrice":               number,
		"promotionPrice":             number,
		"promotionLaborAmount":       number,
		"promotionStartDate":         date,
		"promotionEndDate":           date,
		"scheduledChangeDate":        date,
		"scheduledChangePrice":       number,
		"scheduledChangeLaborAmount": number,
		"serviceExtraCharges":        {Type: v.Nullable(v.PropertyTypeArray), Items: charge},
	}, nil)
}
