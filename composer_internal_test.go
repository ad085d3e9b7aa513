package pogen

import (
	"io"
	"log/slog"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/kovanlabs/pogen/flow"
	"github.com/kovanlabs/pogen/table"
)

func TestStoryStructure(t *testing.T) {
	rec := &PurchaseOrderRecord{
		PONumber: "PO1",
		BillTo:   Party{Name: "Acme"},
		Notes:    "n",
		Terms:    "t",
	}
	for i := 0; i < 7; i++ {
		rec.Items = append(rec.Items, LineItem{Description: "x", Quantity: 1, UnitPrice: decimal.NewFromInt(1), LineTotal: decimal.NewFromInt(1)})
	}

	c := New(WithLogoPath(""), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	pdf := fpdf.New("P", "pt", "A4", "")
	s, used, err := c.story(flow.NewCanvas(pdf), rec)
	if err != nil {
		t.Fatalf("story: %v", err)
	}
	if used != "text" {
		t.Errorf("logo strategy = %q", used)
	}

	// header, company, parties, items, totals with their gaps, then notes
	// label, text and gap, then terms.
	if n := s.Len(); n != 14 {
		t.Fatalf("story has %d flowables, want 14", n)
	}
	items, ok := s.Items()[6].(*table.Table)
	if !ok {
		t.Fatalf("block 6 is %T, want the items table", s.Items()[6])
	}
	if n := len(items.HeaderRows()); n != 1 {
		t.Errorf("header rows = %d", n)
	}
	if n := len(items.BodyRows()); n != len(rec.Items) {
		t.Errorf("data rows = %d, want %d", n, len(rec.Items))
	}

	totals := s.Items()[8].(*table.Table)
	if n := len(totals.BodyRows()); n != 2 {
		t.Errorf("totals rows = %d, want 2", n)
	}
}

func TestStoryOmitsEmptyOptionalBlocks(t *testing.T) {
	rec := &PurchaseOrderRecord{Items: []LineItem{{Description: "x", Quantity: 1}}}
	c := New(WithLogoPath(""), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s, _, err := c.story(flow.NewCanvas(fpdf.New("P", "pt", "A4", "")), rec)
	if err != nil {
		t.Fatal(err)
	}
	if n := s.Len(); n != 10 {
		t.Errorf("story has %d flowables, want 10", n)
	}
}
