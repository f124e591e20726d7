package receipt

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baseplate/storeops/internal/core/catalog"
	"github.com/baseplate/storeops/internal/core/document"
	"github.com/baseplate/storeops/internal/core/form"
	"github.com/baseplate/storeops/internal/core/search"
	"github.com/baseplate/storeops/internal/core/validation"
	"github.com/baseplate/storeops/internal/storage/postgres"
)

func newFactory() *form.Factory {
	f := form.NewFactory()
	RegisterForms(f)
	return f
}

func ptr[T any](v T) *T { return &v }

func productLine() *ReceiptProduct {
	return &ReceiptProduct{
		Product:          &catalog.Product{SapNumber: "100200", Uom: &catalog.Reference{Code: "EACH"}},
		QuantityReceived: ptr(3.0),
		QuantityOrdered:  ptr(4.0),
		WholesalePrice:   ptr(1.25),
		Uom:              &catalog.Reference{Code: "EACH"},
		SapNumber:        "100200",
	}
}

func TestClearingProductClearsDependents(t *testing.T) {
	g := newFactory().MustGroup(t.Context(), FormProduct, productLine(), form.Options{Mode: form.AccessEdit})

	g.Field("product").Edit(nil)

	for _, name := range productDependents {
		assert.Nil(t, g.Field(name).RawValue(), name)
	}
	assert.True(t, g.Field("product").HasError(form.KeyRequired))
	assert.True(t, g.Field("quantityReceived").HasError(form.KeyRequired))
}

func TestChoosingProductFillsDerivedFields(t *testing.T) {
	g := newFactory().MustGroup(t.Context(), FormProduct, nil, form.Options{Mode: form.AccessAdd})

	g.Field("product").Edit(&catalog.Product{
		SapNumber:           "555",
		Uom:                 &catalog.Reference{Code: "QUART"},
		SecondLevelCategory: &catalog.Reference{Code: "OIL"},
	})

	assert.Equal(t, "555", g.Field("sapNumber").RawValue())
	assert.Equal(t, "QUART", form.CodeOf(g.Field("uom").RawValue()))
	assert.Equal(t, "OIL", form.CodeOf(g.Field("secondLevelCategory").RawValue()))
	assert.False(t, g.Field("sapNumber").Enabled())
}

func TestQuantityFollowsUom(t *testing.T) {
	line := productLine()
	line.QuantityReceived = ptr(1.1)
	g := newFactory().MustGroup(t.Context(), FormProduct, line, form.Options{Mode: form.AccessEdit})

	qty := g.Field("quantityReceived")
	assert.True(t, qty.HasError(form.KeyInvalidInteger))

	g.Field("uom").Edit(&catalog.Reference{Code: "QUART"})
	assert.True(t, qty.Valid(), "errors: %v", qty.Errors())

	qty.Edit(-1.0)
	assert.True(t, qty.HasError(form.KeyMin))

	qty.Edit(nil)
	assert.True(t, qty.HasError(form.KeyRequired))
}

func TestImmutableFieldsByAccessMode(t *testing.T) {
	f := newFactory()
	m := &ReceiptOfMaterial{ReceiptDate: ptr(time.Now()), ReceiptProducts: []*ReceiptProduct{productLine()}}

	edit := f.MustGroup(t.Context(), FormReceipt, m, form.Options{Mode: form.AccessEdit})
	for _, name := range []string{"store", "vendor", "receiptType", "id"} {
		assert.False(t, edit.Field(name).Enabled(), name)
	}
	assert.True(t, edit.Valid(), "report: %v", form.Report(edit))

	add := f.MustGroup(t.Context(), FormReceipt, m, form.Options{Mode: form.AccessAdd})
	for _, name := range []string{"store", "vendor", "receiptType"} {
		assert.True(t, add.Field(name).Enabled(), name)
		assert.True(t, add.Field(name).HasError(form.KeyRequired), name)
	}
	assert.False(t, add.Field("id").Enabled())

	view := f.MustGroup(t.Context(), FormReceipt, m, form.Options{Mode: form.AccessView})
	assert.False(t, view.Enabled())
}

func TestReceiptFormRules(t *testing.T) {
	f := newFactory()
	m := &ReceiptOfMaterial{
		Store:       &catalog.Store{Code: "0042"},
		Vendor:      &catalog.Vendor{Number: "V1"},
		ReceiptType: &catalog.Reference{Code: "PO"},
		ReceiptDate: ptr(time.Now()),
	}
	g := f.MustGroup(t.Context(), FormReceipt, m, form.Options{Mode: form.AccessAdd})

	assert.True(t, g.Array("receiptProducts").Errors()[form.KeyMinLength] != nil)

	g.Field("invoiceNumber").Edit("INV-1")
	assert.True(t, g.Field("invoiceDate").HasError(form.KeyRequiredRelated))
	g.Field("invoiceDate").Edit(time.Now())
	assert.True(t, g.Field("invoiceDate").Valid())

	g.Field("invoiceNumber").Edit("0123456789012345678901234567890")
	assert.True(t, g.Field("invoiceNumber").HasError(form.KeyMaxLength))
}

func TestColumnsAreValid(t *testing.T) {
	cs := Columns()
	lines, err := search.DefaultLines(cs)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "store.code", lines[0].Column.Name)
	assert.Equal(t, "receiptDate", lines[1].Column.Name)
}

func newService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := document.NewRepository(&postgres.Client{DB: db})
	return NewService(repo, form.NewFactory(), validation.NewValidator()), mock
}

func validPayload() map[string]any {
	return map[string]any{
		"store":       map[string]any{"code": "0042"},
		"vendor":      map[string]any{"number": "V1"},
		"receiptType": map[string]any{"code": "PO"},
		"receiptDate": "2024-03-01",
		"receiptProducts": []any{map[string]any{
			"product":          map[string]any{"sapNumber": "100200"},
			"uom":              map[string]any{"code": "EACH"},
			"quantityReceived": 2,
		}},
	}
}

func TestServiceCreate(t *testing.T) {
	svc, mock := newService(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO documents")).
		WithArgs(sqlmock.AnyArg(), Kind, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	m, err := svc.Create(context.Background(), validPayload())
	require.NoError(t, err)
	require.NotNil(t, m.ID)
	require.Len(t, m.ReceiptProducts, 1)
	assert.NotNil(t, m.ReceiptProducts[0].ID)
	assert.Equal(t, "0042", m.Store.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceCreateRejectsInvalidReceipt(t *testing.T) {
	svc, mock := newService(t)

	payload := validPayload()
	payload["receiptProducts"] = []any{map[string]any{
		"product":          map[string]any{"sapNumber": "100200"},
		"uom":              map[string]any{"code": "EACH"},
		"quantityReceived": 2.5,
	}}
	_, err := svc.Create(context.Background(), payload)
	ve := validation.GetValidationErrors(err)
	require.NotNil(t, ve, "err = %v", err)
	assert.Equal(t, "receiptProducts.0.quantityReceived", ve.Errors[0].Field)

	_, err = svc.Create(context.Background(), map[string]any{"receiptDate": 12})
	assert.True(t, validation.IsValidationError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
