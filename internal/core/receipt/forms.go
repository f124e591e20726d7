package receipt

import (
	"context"

	"github.com/baseplate/storeops/internal/core/catalog"
	"github.com/baseplate/storeops/internal/core/form"
)

// Form type names.
const (
	FormReceipt = "ReceiptOfMaterial"
	FormProduct = "ReceiptProduct"
)

// RegisterForms adds the receipt creators to f.
func RegisterForms(f *form.Factory) {
	form.Register(f, FormReceipt, newReceiptForm)
	form.Register(f, FormProduct, newProductForm)
}

// productDependents are reset when the product is cleared.
var productDependents = []string{
	"quantityReceived", "quantityOrdered", "wholesalePrice", "uom", "sapNumber", "secondLevelCategory",
}

func newReceiptForm(ctx context.Context, f *form.Factory, m *ReceiptOfMaterial, opts form.Options) (*form.Group, error) {
	var lineRules []form.Validator
	if opts.Mode == form.AccessAdd {
		lineRules = append(lineRules, form.MinItems(1))
	}
	products, err := form.ArrayOf(ctx, f, FormProduct, m.ReceiptProducts, opts, lineRules...)
	if err != nil {
		return nil, err
	}

	g := form.NewGroup().
		Add("id", form.NewField(m.ID)).
		Add("store", form.NewField(m.Store)).
		Add("vendor", form.NewField(m.Vendor)).
		Add("receiptType", form.NewField(m.ReceiptType)).
		Add("receiptDate", form.NewField(m.ReceiptDate, form.Required)).
		Add("invoiceNumber", form.NewField(m.InvoiceNumber, form.MaxLength(30))).
		Add("invoiceDate", form.NewField(m.InvoiceDate)).
		Add("comments", form.NewField(m.Comments, form.MaxLength(500))).
		Add("receiptProducts", products)

	g.Field("id").Disable()
	form.ImmutableAfterCreate(g, opts.Mode, "store", "vendor", "receiptType")
	form.RequireWith(ctx, g, "invoiceNumber", "invoiceDate")
	form.ApplyAccessMode(g, opts.Mode)
	return g, nil
}

func newProductForm(ctx context.Context, _ *form.Factory, m *ReceiptProduct, opts form.Options) (*form.Group, error) {
	g := form.NewGroup().
		Add("id", form.NewField(m.ID)).
		Add("product", form.NewField(m.Product, form.Required)).
		Add("quantityOrdered", form.NewField(m.QuantityOrdered)).
		Add("quantityReceived", form.NewField(m.QuantityReceived, form.Required)).
		Add("wholesalePrice", form.NewField(m.WholesalePrice, form.Decimal(2), form.Min(0))).
		Add("uom", form.NewField(m.Uom)).
		Add("sapNumber", form.NewField(m.SapNumber)).
		Add("secondLevelCategory", form.NewField(m.SecondLevelCategory))

	g.Field("id").Disable()
	g.Field("sapNumber").Disable()
	g.Field("secondLevelCategory").Disable()

	form.UomQuantity(ctx, g, "uom", []string{"quantityReceived"}, form.Required)
	form.UomQuantity(ctx, g, "uom", []string{"quantityOrdered"})
	form.ClearOnCleared(ctx, g, "product", productDependents...)

	// A chosen product carries its sap number, category and stocking uom.
	g.Field("product").Watch(ctx, func(_, next any) {
		p, ok := next.(*catalog.Product)
		if !ok || p == nil {
			return
		}
		g.Field("sapNumber").SetValue(p.SapNumber)
		g.Field("secondLevelCategory").SetValue(p.SecondLevelCategory)
		if p.Uom != nil {
			g.Field("uom").SetValue(p.Uom)
		}
	})

	form.ApplyAccessMode(g, opts.Mode)
	return g, nil
}
