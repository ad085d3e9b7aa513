// Package draft models a purchase order while it is being filled in: the
// ordered item list, derived totals, the checks that must pass before a
// document is generated and the running PO number.
//
// A Draft is not safe for concurrent use; it belongs to one editing
// session. Record turns it into the immutable input of pogen.Composer.
package draft

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kovanlabs/pogen"
)

// DateLayout is the display format of order and due dates.
const DateLayout = "2006-01-02"

// DefaultTerms is the terms text of a new draft.
const DefaultTerms = "Upon accepting this purchase order, you hereby agree to the terms & conditions."

// DefaultDueInDays is the gap between order and due date of a new draft.
const DefaultDueInDays = 2

// Precondition and input errors.
var (
	ErrNoItems     = errors.New("draft: please add at least one item to generate the purchase order")
	ErrNoBillTo    = errors.New("draft: please fill in the bill-to information")
	ErrInvalidItem = errors.New("draft: invalid item")
	ErrNoSuchItem  = errors.New("draft: no such item")
)

// Defaults seed new drafts.
type Defaults struct {
	Company   pogen.Party
	Terms     string
	DueInDays int
}

// Draft is a purchase order under construction.
type Draft struct {
	Company   pogen.Party
	PONumber  string
	OrderDate time.Time
	DueDate   time.Time
	BillTo    pogen.Party
	ShipTo    pogen.Party
	// ShipToSameAsBillTo makes Record copy BillTo over ShipTo.
	ShipToSameAsBillTo bool
	Notes              string
	Terms              string

	items []pogen.LineItem
}

// New returns a draft ordered on the day of now. A zero DueInDays uses
// DefaultDueInDays; empty Terms use DefaultTerms.
func New(now time.Time, def Defaults) *Draft {
	due := def.DueInDays
	if due <= 0 {
		due = DefaultDueInDays
	}
	terms := def.Terms
	if terms == "" {
		terms = DefaultTerms
	}
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return &Draft{
		Company:   def.Company,
		OrderDate: day,
		DueDate:   day.AddDate(0, 0, due),
		Terms:     terms,
	}
}

// AddItem appends an item and returns it with its line total. The
// description must not be blank and quantity and unit price must be
// positive.
func (d *Draft) AddItem(description string, quantity int, unitPrice decimal.Decimal) (pogen.LineItem, error) {
	var errs []error
	if strings.TrimSpace(description) == "" {
		errs = append(errs, errors.New("description is empty"))
	}
	if quantity <= 0 {
		errs = append(errs, fmt.Errorf("quantity %d is not positive", quantity))
	}
	if !unitPrice.IsPositive() {
		errs = append(errs, fmt.Errorf("unit price %s is not positive", unitPrice))
	}
	if len(errs) > 0 {
		return pogen.LineItem{}, fmt.Errorf("%w: %w", ErrInvalidItem, errors.Join(errs...))
	}

	it := pogen.LineItem{
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		LineTotal:   unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}
	d.items = append(d.items, it)
	return it, nil
}

// RemoveItem deletes the item at index i, keeping the order of the rest.
func (d *Draft) RemoveItem(i int) error {
	if i < 0 || i >= len(d.items) {
		return fmt.Errorf("%w: index %d of %d", ErrNoSuchItem, i, len(d.items))
	}
	d.items = append(d.items[:i], d.items[i+1:]...)
	return nil
}

// Items returns a copy of the items in insertion order.
func (d *Draft) Items() []pogen.LineItem {
	return append([]pogen.LineItem(nil), d.items...)
}

// Totals returns the sum of the line totals. No tax or discount applies, so
// the total equals the subtotal.
func (d *Draft) Totals() (subtotal, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, it := range d.items {
		subtotal = subtotal.Add(it.LineTotal)
	}
	return subtotal, subtotal
}

// Validate reports every unmet precondition for generating the document.
func (d *Draft) Validate() error {
	var errs []error
	if len(d.items) == 0 {
		errs = append(errs, ErrNoItems)
	}
	if strings.TrimSpace(d.BillTo.Name) == "" {
		errs = append(errs, ErrNoBillTo)
	}
	return errors.Join(errs...)
}

// Record validates the draft and returns the record to compose.
func (d *Draft) Record() (*pogen.PurchaseOrderRecord, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	shipTo := d.ShipTo
	if d.ShipToSameAsBillTo {
		shipTo = d.BillTo
	}
	subtotal, total := d.Totals()
	return &pogen.PurchaseOrderRecord{
		Company:   d.Company,
		PONumber:  d.PONumber,
		OrderDate: d.OrderDate.Format(DateLayout),
		DueDate:   d.DueDate.Format(DateLayout),
		BillTo:    d.BillTo,
		ShipTo:    shipTo,
		Items:     d.Items(),
		Subtotal:  subtotal,
		Total:     total,
		Notes:     d.Notes,
		Terms:     d.Terms,
	}, nil
}
