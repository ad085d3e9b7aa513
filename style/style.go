// Package style provides the named paragraph styles used to lay out purchase
// order documents.
//
// Styles form an inheritance chain: each Definition names a parent and an
// Override whose non-nil fields replace the parent's values. A Registry is
// resolved once and never mutated afterwards, so it can be shared by any
// number of concurrent document builds.
package style

import (
	"github.com/go-pdf/fpdf"
)

// Align is a horizontal text alignment in fpdf notation.
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// WrapMode controls where a paragraph may break a line.
type WrapMode int

const (
	// WrapWords breaks at whitespace. A word longer than the line is broken
	// between characters.
	WrapWords WrapMode = iota
	// WrapCJK additionally allows a break after every ideographic, kana or
	// hangul character, for scripts that do not separate words with spaces.
	WrapCJK
	// WrapNone keeps every forced line whole. A line wider than the frame
	// overflows on the side opposite its alignment.
	WrapNone
	// WrapShrink keeps every forced line whole and reduces the font size
	// until the widest line fits. The leading is unchanged.
	WrapShrink
)

// Color is an RGB color value.
type Color struct {
	R, G, B int
}

// Common colors.
var (
	Black      = Color{0, 0, 0}
	White      = Color{255, 255, 255}
	Grey       = Color{128, 128, 128}
	LightGrey  = Color{211, 211, 211}
	WhiteSmoke = Color{245, 245, 245}
)

// Style is a fully resolved set of text attributes. Sizes are in points.
type Style struct {
	Name        string
	Parent      string
	FontFamily  string
	FontStyle   string // "", "B", "I", "BI"
	FontSize    float64
	Leading     float64 // line height
	TextColor   Color
	Align       Align
	SpaceBefore float64
	SpaceAfter  float64
	Wrap        WrapMode
}

// Apply selects the style's font and text color on pdf.
func (s Style) Apply(pdf *fpdf.Fpdf) {
	pdf.SetFont(s.FontFamily, s.FontStyle, s.FontSize)
	pdf.SetTextColor(s.TextColor.R, s.TextColor.G, s.TextColor.B)
}

// Override lists the attributes a derived style changes. Nil fields are
// inherited from the parent.
type Override struct {
	FontFamily  *string
	FontStyle   *string
	FontSize    *float64
	Leading     *float64
	TextColor   *Color
	Align       *Align
	SpaceBefore *float64
	SpaceAfter  *float64
	Wrap        *WrapMode
}

// Definition declares a named style derived from Parent. An empty Parent
// derives from the zero Style, so a root definition must set every field it
// relies on.
type Definition struct {
	Name     string
	Parent   string
	Override Override
}

// apply merges the non-nil fields of o into s.
func (o Override) apply(s *Style) {
	if o.FontFamily != nil {
		s.FontFamily = *o.FontFamily
	}
	if o.FontStyle != nil {
		s.FontStyle = *o.FontStyle
	}
	if o.FontSize != nil {
		s.FontSize = *o.FontSize
	}
	if o.Leading != nil {
		s.Leading = *o.Leading
	}
	if o.TextColor != nil {
		s.TextColor = *o.TextColor
	}
	if o.Align != nil {
		s.Align = *o.Align
	}
	if o.SpaceBefore != nil {
		s.SpaceBefore = *o.SpaceBefore
	}
	if o.SpaceAfter != nil {
		s.SpaceAfter = *o.SpaceAfter
	}
	if o.Wrap != nil {
		s.Wrap = *o.Wrap
	}
}

// Ptr returns a pointer to v. It keeps Override literals short.
func Ptr[T any](v T) *T {
	return &v
}
