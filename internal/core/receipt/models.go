// Package receipt handles receipts of material: goods a store receives from
// a vendor, with one line per product.
package receipt

import (
	"time"

	"github.com/google/uuid"

	"github.com/baseplate/storeops/internal/core/catalog"
)

// Kind is the document kind receipts are stored under.
const Kind = "receipt"

type ReceiptOfMaterial struct {
	ID              *uuid.UUID         `json:"id,omitempty"`
	Store           *catalog.Store     `json:"store"`
	Vendor          *catalog.Vendor    `json:"vendor"`
	ReceiptType     *catalog.Reference `json:"receiptType"`
	ReceiptDate     *time.Time         `json:"receiptDate"`
	InvoiceNumber   string             `json:"invoiceNumber,omitempty"`
	InvoiceDate     *time.Time         `json:"invoiceDate"`
	Comments        string             `json:"comments,omitempty"`
	ReceiptProducts []*ReceiptProduct  `json:"receiptProducts"`
}

type ReceiptProduct struct {
	ID                  *uuid.UUID         `json:"id,omitempty"`
	Product             *catalog.Product   `json:"product"`
	QuantityOrdered     *float64           `json:"quantityOrdered"`
	QuantityReceived    *float64           `json:"quantityReceived"`
	WholesalePrice      *float64           `json:"wholesalePrice"`
	Uom                 *catalog.Reference `json:"uom"`
	SapNumber           string             `json:"sapNumber,omitempty"`
	SecondLevelCategory *catalog.Reference `json:"secondLevelCategory"`
}

// Receipt types offered when adding a receipt.
var ReceiptTypes = []catalog.Reference{
	{Code: "PO", Description: "Purchase Order"},
	{Code: "DSD", Description: "Direct Store Delivery"},
	{Code: "TRANSFER", Description: "Store Transfer"},
}
