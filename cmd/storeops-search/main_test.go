package main

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/baseplate/storeops/internal/core/catalog"
	"github.com/baseplate/storeops/internal/core/receipt"
	"github.com/baseplate/storeops/internal/core/search"
)

func newFilter(t *testing.T) *search.Filter {
	t.Helper()
	f, err := search.NewFilter(receipt.Columns(), nil)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestApplyFilterUsesDefaultLine(t *testing.T) {
	f := newFilter(t)
	before := f.Len()

	if err := applyFilter(f, "store.code:equalTo:0042"); err != nil {
		t.Fatal(err)
	}
	if f.Len() != before {
		t.Errorf("Len = %d, want the default line reused (%d)", f.Len(), before)
	}

	var found bool
	for _, l := range f.Lines() {
		if l.Column != nil && l.Column.Name == "store.code" {
			found = true
			if l.Value != "0042" {
				t.Errorf("value = %v", l.Value)
			}
		}
	}
	if !found {
		t.Error("store.code line missing")
	}
}

func TestApplyFilterShapes(t *testing.T) {
	tests := []struct {
		arg  string
		want any
	}{
		{"id:in:a, b", []any{"a", "b"}},
		{"receiptDate:between:2024-01-01..2024-01-31", search.Range{From: "2024-01-01", To: "2024-01-31"}},
		{"invoiceNumber:startsWith:INV", "INV"},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			f := newFilter(t)
			if err := applyFilter(f, tt.arg); err != nil {
				t.Fatal(err)
			}
			column := strings.SplitN(tt.arg, ":", 2)[0]
			var got any
			for i := range f.Len() {
				if l := f.Editor(i).Line(); l.Column != nil && l.Column.Name == column {
					got = l.Value
				}
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("value = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestApplyFilterRejects(t *testing.T) {
	tests := []struct {
		arg  string
		want error
	}{
		{"nope:equalTo:1", search.ErrUnknownColumn},
		{"invoiceDate:contains:x", search.ErrInvalidComparator},
		{"comments:equalTo:x", search.ErrUnknownColumn},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			if err := applyFilter(newFilter(t), tt.arg); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if err := applyFilter(newFilter(t), "store.code"); err == nil {
		t.Error("want an error for a filter without comparator")
	}
}

func TestParseSort(t *testing.T) {
	s, err := parseSort("receiptDate:desc", receipt.Columns())
	if err != nil {
		t.Fatal(err)
	}
	if *s != (search.Sort{Field: "receiptDate", Direction: search.Desc}) {
		t.Errorf("sort = %+v", s)
	}

	if s, err := parseSort("", receipt.Columns()); s != nil || err != nil {
		t.Errorf("empty sort = %v, %v", s, err)
	}
	if _, err := parseSort("receiptDate:sideways", receipt.Columns()); err == nil {
		t.Error("want an error for an unknown direction")
	}
	if _, err := parseSort("nope", receipt.Columns()); !errors.Is(err, search.ErrUnknownColumn) {
		t.Errorf("err = %v", err)
	}
}

func TestRender(t *testing.T) {
	rows := []*receipt.ReceiptOfMaterial{
		{Store: &catalog.Store{Code: "0042"}, InvoiceNumber: "INV-1"},
	}
	chips := []search.Chip{{Column: "store.code", Text: "Store equal to 0042"}}

	out := render(receipt.Columns(), []string{"store.code", "invoiceNumber"}, chips, rows, search.Page{Size: 25}, 1)

	for _, want := range []string{"Store equal to 0042", "Store", "Invoice Number", "0042", "INV-1", "1-1 of 1 rows"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
