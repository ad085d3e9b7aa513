// Package mark draws optional identity marks on purchase order pages: a
// machine-readable barcode of the PO number and an imported letterhead
// page underneath the content.
package mark

import (
	"fmt"
	"strings"

	"github.com/boombuler/barcode/code128"
	"github.com/go-pdf/fpdf/contrib/barcode"

	"github.com/kovanlabs/pogen/flow"
)

// Symbology selects the barcode type.
type Symbology string

const (
	None    Symbology = ""
	Code128 Symbology = "code128"
	PDF417  Symbology = "pdf417"
)

// PDF417 encoding parameters.
const (
	pdf417Columns       = 6
	pdf417SecurityLevel = 2
)

// ParseSymbology maps a configuration value to a Symbology. "none" and the
// empty string disable the barcode.
func ParseSymbology(s string) (Symbology, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "code128":
		return Code128, nil
	case "pdf417":
		return PDF417, nil
	default:
		return None, fmt.Errorf("mark: unknown barcode symbology %q", s)
	}
}

// Barcode returns a flowable drawing value as a barcode of w by h points,
// right-aligned in its frame. It fails when value cannot be encoded.
func Barcode(sym Symbology, value string, w, h float64) (flow.Flowable, error) {
	if value == "" {
		return nil, fmt.Errorf("mark: empty barcode value")
	}

	var register func(c *flow.Canvas) string
	switch sym {
	case Code128:
		if _, err := code128.Encode(value); err != nil {
			return nil, fmt.Errorf("mark: encoding %q as code128: %w", value, err)
		}
		register = func(c *flow.Canvas) string {
			return barcode.RegisterCode128(c.PDF, value)
		}
	case PDF417:
		register = func(c *flow.Canvas) string {
			return barcode.RegisterPdf417(c.PDF, value, pdf417Columns, pdf417SecurityLevel)
		}
	default:
		return nil, fmt.Errorf("mark: unsupported symbology %q", sym)
	}

	return flow.Fixed{
		W:     w,
		H:     h,
		Align: "R",
		Render: func(c *flow.Canvas, x, y float64) {
			key := register(c)
			if key == "" {
				return
			}
			barcode.Barcode(c.PDF, key, x, y, w, h, false)
		},
	}, nil
}
