// Package table lays out grids of cells in PDF documents.
//
// Tables have fixed or auto-width columns, per-cell padding, optional grid
// lines, alternating row colors, horizontal rules above selected rows and
// header rows that repeat after a page break. A Table is a flow.Flowing, so
// it can be added to a flow.Story directly.
package table

import (
	"github.com/kovanlabs/pogen/style"
)

// RGBColor represents an RGB color value.
type RGBColor struct {
	R, G, B int
}

// FromColor converts a style color.
func FromColor(c style.Color) *RGBColor {
	return &RGBColor{R: c.R, G: c.G, B: c.B}
}

// FontSpec defines font properties for text rendering.
type FontSpec struct {
	Family string
	Style  string  // "", "B", "I", "BI"
	Size   float64 // in points
}

// FontOf returns the font of a paragraph style.
func FontOf(s style.Style) *FontSpec {
	return &FontSpec{Family: s.FontFamily, Style: s.FontStyle, Size: s.FontSize}
}

// Padding defines spacing inside a cell.
type Padding struct {
	Top, Right, Bottom, Left float64
}

// UniformPadding creates a Padding with the same value on all sides.
func UniformPadding(v float64) Padding {
	return Padding{Top: v, Right: v, Bottom: v, Left: v}
}

// BorderStyle defines the appearance of grid lines.
type BorderStyle struct {
	Width float64
	Color RGBColor
}

// Rule is a horizontal line drawn along the top edge of a row, spanning
// columns From through To inclusive. A negative To means the last column.
type Rule struct {
	Width    float64
	Color    RGBColor
	From, To int
}

// CellStyle defines the visual appearance of a cell.
type CellStyle struct {
	FillColor   *RGBColor
	TextColor   *RGBColor
	BorderColor *RGBColor
	Font        *FontSpec
	Align       string // "L", "C", "R"
	Padding     *Padding
	Wrap        *style.WrapMode // line breaking of text cells, WrapCJK if nil
}

// AlternateStyle defines alternating row colors.
type AlternateStyle struct {
	Even CellStyle
	Odd  CellStyle
}

// TableStyle defines the overall appearance of a table. A nil Border draws
// no grid.
type TableStyle struct {
	Border        *BorderStyle
	AlternateRows *AlternateStyle
	HeaderStyle   *CellStyle
	CellPadding   Padding
	CellFont      *FontSpec
}
