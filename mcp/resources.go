package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kovanlabs/pogen"
	"github.com/kovanlabs/pogen/style"
)

// Resource URIs.
const (
	StylesURI       = "pogen://styles"
	SampleRecordURI = "pogen://sample-record"
)

// RegisterDefaultResources adds the style sheet listing and a sample record
// to the server. styles may be nil for the built-in style sheet.
func RegisterDefaultResources(s *Server, styles *style.Registry) {
	if styles == nil {
		styles = style.Default()
	}
	s.AddResource(Resource{
		URI:         StylesURI,
		Name:        "Purchase Order Styles",
		Description: "The resolved paragraph styles used to typeset purchase orders.",
		MIMEType:    "application/json",
		Handler: func(uri string) ([]ResourceContent, error) {
			return stylesResource(uri, styles)
		},
	})
	s.AddResource(Resource{
		URI:         SampleRecordURI,
		Name:        "Sample Purchase Order Record",
		Description: "A complete record accepted by the render_purchase_order tool.",
		MIMEType:    "application/json",
		Handler:     sampleRecordResource,
	})
}

type styleInfo struct {
	Name       string  `json:"name"`
	Parent     string  `json:"parent,omitempty"`
	FontFamily string  `json:"fontFamily"`
	FontStyle  string  `json:"fontStyle,omitempty"`
	FontSize   float64 `json:"fontSize"`
	Leading    float64 `json:"leading"`
	Align      string  `json:"align"`
	TextColor  [3]int  `json:"textColor"`
}

func stylesResource(uri string, r *style.Registry) ([]ResourceContent, error) {
	names := r.Names()
	out := make([]styleInfo, 0, len(names))
	for _, n := range names {
		st := r.MustGet(n)
		out = append(out, styleInfo{
			Name:       st.Name,
			Parent:     st.Parent,
			FontFamily: st.FontFamily,
			FontStyle:  st.FontStyle,
			FontSize:   st.FontSize,
			Leading:    st.Leading,
			Align:      string(st.Align),
			TextColor:  [3]int{st.TextColor.R, st.TextColor.G, st.TextColor.B},
		})
	}
	return jsonContent(uri, out)
}

func sampleRecordResource(uri string) ([]ResourceContent, error) {
	price := decimal.NewFromInt(100)
	rec := pogen.PurchaseOrderRecord{
		Company: pogen.Party{
			Name:    "Kovan Labs",
			Address: "GF44, Tidel park, Coimbatore, India - 641 014",
			Phone:   "8675955999",
		},
		PONumber:  "PO20250314001",
		OrderDate: "2025-03-14",
		DueDate:   "2025-03-16",
		BillTo:    pogen.Party{Name: "Acme Corp", Address: "1 Main St", Phone: "555-0100"},
		ShipTo:    pogen.Party{Name: "Acme Corp", Address: "1 Main St", Phone: "555-0100"},
		Items: []pogen.LineItem{
			{Description: "Widget A", Quantity: 2, UnitPrice: price, LineTotal: price.Mul(decimal.NewFromInt(2))},
		},
		Subtotal: decimal.NewFromInt(200),
		Total:    decimal.NewFromInt(200),
		Terms:    "Payment due within 30 days.",
	}
	return jsonContent(uri, rec)
}

func jsonContent(uri string, v any) ([]ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", uri, err)
	}
	return []ResourceContent{{
		URI:      uri,
		MIMEType: "application/json",
		Text:     string(data),
	}}, nil
}
