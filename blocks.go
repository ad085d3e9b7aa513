package pogen

import (
	"strconv"
	"strings"

	"github.com/kovanlabs/pogen/flow"
	"github.com/kovanlabs/pogen/logo"
	"github.com/kovanlabs/pogen/mark"
	"github.com/kovanlabs/pogen/style"
	"github.com/kovanlabs/pogen/table"
)

// DefaultBrand is the fallback logo text when neither a brand name nor a
// company name is known.
const DefaultBrand = "KOVAN LABS"

// Document labels.
const (
	titleText      = "PURCHASE ORDER"
	poNumberLabel  = "PO Number:"
	orderDateLabel = "Order Date:"
	dueDateLabel   = "Purchase Date:"
	billToLabel    = "Bill To:"
	shipToLabel    = "Ship To:"
	notesLabel     = "Notes:"
	subtotalLabel  = "Subtotal:"
	totalLabel     = "Total:"
)

var itemsHeader = [...]string{"Item", "Quantity", "Unit Price", "Total"}

// Column widths in points.
var (
	headerColumns = []float64{1.8 * inch, 2.2 * inch, 2.5 * inch}
	companyColumn = 6.5 * inch
	partyColumns  = []float64{3.25 * inch, 3.25 * inch}
	itemColumns   = []float64{4 * inch, 0.8 * inch, 1.1 * inch, 1.1 * inch}
)

// Vertical space after each block.
const (
	gapAfterHeader  = 20
	gapAfterCompany = 25
	gapAfterParties = 25
	gapAfterItems   = 15
	gapAfterTotals  = 25
	gapAfterNotes   = 15
)

// Barcode sizes in the header.
const (
	barcodeWidth     = 150
	code128Height    = 28
	pdf417Height     = 45
	barcodeGapBefore = 4
)

// story assembles the blocks of rec in document order and reports which logo
// strategy was used.
func (c *Composer) story(cv *flow.Canvas, rec *PurchaseOrderRecord) (*flow.Story, string, error) {
	st := c.cfg.styles

	logoFlow, used := c.logoResolver(rec).Resolve(cv)
	header, err := c.headerBlock(logoFlow, rec)
	if err != nil {
		return nil, "", err
	}

	s := &flow.Story{}
	s.Add(
		header, flow.Spacer{Height: gapAfterHeader},
		companyBlock(st, rec.Company), flow.Spacer{Height: gapAfterCompany},
		partiesBlock(st, rec.BillTo, rec.ShipTo), flow.Spacer{Height: gapAfterParties},
		c.itemsBlock(rec.Items), flow.Spacer{Height: gapAfterItems},
		c.totalsBlock(rec), flow.Spacer{Height: gapAfterTotals},
	)
	if notes := strings.TrimSpace(rec.Notes); notes != "" {
		s.Add(
			flow.NewParagraph(notesLabel, st.MustGet(style.SectionHeader)),
			flow.NewParagraph(notes, st.MustGet(style.Normal)),
			flow.Spacer{Height: gapAfterNotes},
		)
	}
	if terms := strings.TrimSpace(rec.Terms); terms != "" {
		s.Add(flow.NewParagraph(terms, st.MustGet(style.Normal)))
	}
	return s, used, nil
}

func (c *Composer) logoResolver(rec *PurchaseOrderRecord) *logo.Resolver {
	brand := c.cfg.brand
	if brand == "" {
		brand = strings.ToUpper(strings.TrimSpace(rec.Company.Name))
	}
	if brand == "" {
		brand = DefaultBrand
	}
	fallback := logo.Text{Brand: brand, Style: c.cfg.styles.MustGet(style.CompanyName)}

	strategies := c.cfg.strategies
	if strategies == nil && c.cfg.logoPath != "" {
		strategies = []logo.Strategy{logo.ForPath(c.cfg.logoPath, c.cfg.logoBox)}
	}
	return logo.NewResolver(c.cfg.log, fallback, strategies...)
}

// headerBlock puts the logo top-left and the title with the PO metadata
// top-right, both starting on the same line.
func (c *Composer) headerBlock(logoFlow flow.Flowable, rec *PurchaseOrderRecord) (*table.Table, error) {
	st := c.cfg.styles
	right := st.MustGet(style.RightAligned)

	meta := flow.Stack{
		flow.NewParagraph(titleText, st.MustGet(style.DocumentTitle)),
		flow.NewParagraph(poNumberLabel+" "+rec.PONumber, right),
		flow.NewParagraph(orderDateLabel+" "+rec.OrderDate, right),
		flow.NewParagraph(dueDateLabel+" "+rec.DueDate, right),
	}
	if c.cfg.barcode != mark.None {
		h := float64(code128Height)
		if c.cfg.barcode == mark.PDF417 {
			h = pdf417Height
		}
		bc, err := mark.Barcode(c.cfg.barcode, rec.PONumber, barcodeWidth, h)
		if err != nil {
			return nil, newGenerationError(rec.PONumber, "barcode", ErrBarcode, err)
		}
		meta = append(meta, flow.Spacer{Height: barcodeGapBefore}, bc)
	}

	t := table.New().SetColumnWidths(headerColumns...)
	t.SetStyle(table.TableStyle{
		CellPadding: table.Padding{Top: 0, Right: 6, Bottom: 5, Left: 6},
	})
	t.Column(0).Padding = &table.Padding{Top: 0, Right: 6, Bottom: 5, Left: 0}
	t.Column(2).Padding = &table.Padding{Top: 0, Right: 0, Bottom: 5, Left: 6}

	row := t.AddRow()
	row.AddFlowable(logoFlow)
	row.AddEmpty()
	row.AddFlowable(meta)
	return t, nil
}

// companyBlock sets the issuing company in a single fixed-width cell so it
// stays left-aligned with the logo.
func companyBlock(st *style.Registry, company Party) *table.Table {
	t := table.New().SetColumnWidths(companyColumn)
	t.SetStyle(table.TableStyle{
		CellPadding: table.Padding{Top: 0, Right: 6, Bottom: 0, Left: 0},
	})
	t.AddRow().AddFlowable(flow.NewParagraph(partyText(company), st.MustGet(style.Address)))
	return t
}

// partiesBlock sets bill-to and ship-to side by side, each below its label.
func partiesBlock(st *style.Registry, billTo, shipTo Party) *table.Table {
	label := st.MustGet(style.SectionHeader)
	addr := st.MustGet(style.Address)

	t := table.New().SetColumnWidths(partyColumns...)
	t.SetStyle(table.TableStyle{})
	t.Column(0).Padding = &table.Padding{}
	t.Column(1).Padding = &table.Padding{Left: 20}

	labels := t.AddRow()
	labels.AddFlowable(flow.NewParagraph(billToLabel, label))
	labels.AddFlowable(flow.NewParagraph(shipToLabel, label))

	parties := t.AddRow()
	parties.AddFlowable(flow.NewParagraph(partyText(billTo), addr))
	parties.AddFlowable(flow.NewParagraph(partyText(shipTo), addr))
	return t
}

// itemsBlock is the gridded items table: one header row, then one row per
// item in input order. The header repeats when the table breaks across
// pages.
func (c *Composer) itemsBlock(items []LineItem) *table.Table {
	st := c.cfg.styles
	desc := st.MustGet(style.ItemDescription)

	t := table.New().SetColumnWidths(itemColumns...)
	t.SetStyle(table.TableStyle{
		Border:      &table.BorderStyle{Width: 1, Color: table.RGBColor{}},
		CellPadding: table.Padding{Top: 8, Right: 6, Bottom: 8, Left: 6},
		CellFont:    table.FontOf(st.MustGet(style.TableCell)),
		HeaderStyle: &table.CellStyle{
			FillColor: table.FromColor(style.LightGrey),
			TextColor: table.FromColor(style.Black),
			Font:      table.FontOf(st.MustGet(style.TableHeader)),
			Align:     string(style.AlignLeft),
			Padding:   &table.Padding{Top: 12, Right: 6, Bottom: 12, Left: 6},
		},
		AlternateRows: &table.AlternateStyle{
			Even: table.CellStyle{FillColor: table.FromColor(style.White)},
			Odd:  table.CellStyle{FillColor: table.FromColor(style.WhiteSmoke)},
		},
	})
	t.Column(0).Padding = &table.Padding{Top: 8, Right: 8, Bottom: 8, Left: 8}
	// Labels, quantities and amounts stay on one line and shrink to fit.
	for i := range itemColumns {
		t.Column(i).Wrap = style.Ptr(style.WrapShrink)
		if i > 0 {
			t.Column(i).Align = string(style.AlignCenter)
		}
	}

	header := t.AddHeaderRow()
	for _, h := range itemsHeader {
		header.AddCell(h)
	}
	for _, it := range items {
		row := t.AddRow()
		row.AddFlowable(flow.NewParagraph(it.Description, desc))
		row.AddCell(strconv.Itoa(it.Quantity))
		row.AddCell(FormatAmount(c.cfg.currency, it.UnitPrice))
		row.AddCell(FormatAmount(c.cfg.currency, it.LineTotal))
	}
	return t
}

// totalsBlock shares the item column widths so the amounts line up under
// the Total column. A heavy rule separates the grand total.
func (c *Composer) totalsBlock(rec *PurchaseOrderRecord) *table.Table {
	cell := c.cfg.styles.MustGet(style.TotalsCell)
	cs := table.CellStyle{
		Font:    table.FontOf(cell),
		Align:   string(cell.Align),
		Padding: &table.Padding{Top: 8, Right: 6, Bottom: 8, Left: 6},
		Wrap:    style.Ptr(style.WrapShrink),
	}

	t := table.New().SetColumnWidths(itemColumns...)
	lines := []struct {
		label  string
		amount string
	}{
		{subtotalLabel, FormatAmount(c.cfg.currency, rec.Subtotal)},
		{totalLabel, FormatAmount(c.cfg.currency, rec.Total)},
	}
	for i, l := range lines {
		row := t.AddRow()
		row.AddEmpty()
		row.AddEmpty()
		row.AddCell(l.label).SetStyle(cs)
		row.AddCell(l.amount).SetStyle(cs)
		if i == len(lines)-1 {
			row.SetLineAbove(table.Rule{Width: 2, Color: table.RGBColor{}, From: 2, To: -1})
		}
	}
	return t
}

// partyText joins the lines of a party block with forced breaks.
func partyText(p Party) string {
	return strings.Join([]string{p.Name, p.Address, p.Phone}, "\n")
}
