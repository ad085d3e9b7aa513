package pogen

import (
	"github.com/shopspring/decimal"
)

// Party is a name, address and phone number block. Address may span several
// lines.
type Party struct {
	Name    string `json:"name" yaml:"name"`
	Address string `json:"address" yaml:"address"`
	Phone   string `json:"phone" yaml:"phone"`
}

// LineItem is one entry of the items table. LineTotal is rendered as given.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// PurchaseOrderRecord is everything a purchase order document shows. Dates
// are display strings formatted by the caller, and Subtotal and Total are
// printed without being recomputed from the items.
//
// Callers are expected to supply at least one item and a bill-to name.
// Empty Notes or Terms omit the corresponding block.
type PurchaseOrderRecord struct {
	Company   Party           `json:"company"`
	PONumber  string          `json:"po_number"`
	OrderDate string          `json:"order_date"`
	DueDate   string          `json:"due_date"`
	BillTo    Party           `json:"bill_to"`
	ShipTo    Party           `json:"ship_to"`
	Items     []LineItem      `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Total     decimal.Decimal `json:"total"`
	Notes     string          `json:"notes,omitempty"`
	Terms     string          `json:"terms,omitempty"`
}
