package receipt

import (
	v "github.com/baseplate/storeops/internal/core/validation"
)

// Schema describes the wire shape of a receipt. Business rules live in the
// form; the schema only rejects payloads of the wrong shape.
func Schema() map[string]any {
	ref := func(key string) *v.SchemaProperty {
		return v.Object(map[string]*v.SchemaProperty{
			key:           {Type: v.PropertyTypeString},
			"description": {Type: v.Nullable(v.PropertyTypeString)},
			"name":        {Type: v.Nullable(v.PropertyTypeString)},
		}, key)
	}
	date := &v.SchemaProperty{Type: v.Nullable(v.PropertyTypeString)}
	number := &v.SchemaProperty{Type: v.Nullable(v.PropertyTypeNumber)}

	product := v.Object(map[string]*v.SchemaProperty{
		"id": {Type: v.Nullable(v.PropertyTypeString), Format: "uuid"},
		"product": v.Object(map[string]*v.SchemaProperty{
			"sapNumber":           {Type: v.PropertyTypeString},
			"description":         {Type: v.Nullable(v.PropertyTypeString)},
			"uom":                 ref("code"),
			"secondLevelCategory": ref("code"),
		}, "sapNumber"),
		"quantityOrdered":     number,
		"quantityReceived":    number,
		"wholesalePrice":      number,
		"uom":                 ref("code"),
		"sapNumber":           {Type: v.Nullable(v.PropertyTypeString)},
		"secondLevelCategory": ref("code"),
	})

	return v.NewSchema(FormReceipt, map[string]*v.SchemaProperty{
		"id":            {Type: v.Nullable(v.PropertyTypeString), Format: "uuid"},
		"store":         ref("code"),
		"vendor":        ref("number"),
		"receiptType":   ref("code"),
		"receiptDate":   date,
		"invoiceNumber": {Type: v.Nullable(v.PropertyTypeString)},
		"invoiceDate":   date,
		"comments":      {Type: v.Nullable(v.PropertyTypeString)},
		"receiptProducts": {
			Type:  v.Nullable(v.PropertyTypeArray),
			Items: product,
		},
	}, nil)
}
