package receipt

import (
	"github.com/baseplate/storeops/internal/core/search"
)

// Screen keys previous-search state for the receipt search page.
const Screen = "receipts"

// Columns returns the receipt search columns in display order.
func Columns() search.Columns {
	types := make([]search.Option, len(ReceiptTypes))
	for i, t := range ReceiptTypes {
		types[i] = search.Option{Value: t.Code, Label: t.Description}
	}
	return search.MustColumns(search.Columns{
		{Name: "id", DisplayName: "Id", Type: search.TypeString,
			Searchable: &search.Searchable{}, Comparators: []string{"equalTo", "in"}},
		{Name: "store.code", DisplayName: "Store", Type: search.TypeString,
			Searchable: &search.Searchable{Default: true, Comparator: "equalTo"}},
		{Name: "vendor.number", DisplayName: "Vendor", Type: search.TypeString,
			Searchable: &search.Searchable{}},
		{Name: "receiptType.code", DisplayName: "Receipt Type", Type: search.TypeDropdown,
			Searchable: &search.Searchable{}, Options: types},
		{Name: "receiptDate", DisplayName: "Receipt Date", Type: search.TypeDate,
			Searchable: &search.Searchable{Default: true, Comparator: "between"}},
		{Name: "invoiceNumber", DisplayName: "Invoice Number", Type: search.TypeString,
			Searchable: &search.Searchable{}},
		{Name: "invoiceDate", DisplayName: "Invoice Date", Type: search.TypeDate,
			Searchable: &search.Searchable{}},
		{Name: "comments", DisplayName: "Comments", Type: search.TypeString},
	})
}
