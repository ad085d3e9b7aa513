// Package flow lays out a document as a vertical sequence of flowables.
//
// A Flowable reports the height it needs for a given width and draws itself
// at an absolute position. A Story places flowables one below another inside
// the page frame and starts a new page when the next one does not fit.
// Flowables that can split across pages implement Flowing and place
// themselves.
package flow

import (
	"github.com/go-pdf/fpdf"
)

// Flowable is a block of content with a width-dependent height.
type Flowable interface {
	// Wrap returns the height needed to draw the flowable within width.
	Wrap(c *Canvas, width float64) float64
	// Draw renders the flowable with its top-left corner at (x, y). It must
	// not start new pages.
	Draw(c *Canvas, x, y, width float64)
}

// Flowing is a flowable that may split across pages. Flow draws it at the
// current vertical position, adds pages as needed and leaves the cursor
// below the last thing drawn.
type Flowing interface {
	Flowable
	Flow(c *Canvas, x, width float64) error
}

// Splitter is a flowable that can be divided at a height, so that a table
// cell taller than a page continues on the next one. Split returns the part
// that fits in height and the remainder. A nil head means nothing fits; a
// nil tail means everything does.
type Splitter interface {
	Flowable
	Split(c *Canvas, width, height float64) (head, tail Flowable)
}

// Canvas wraps an fpdf document with the helpers flowables share.
type Canvas struct {
	PDF *fpdf.Fpdf
	tr  func(string) string
}

// NewCanvas prepares pdf for flow layout. Cell margins are zeroed because
// flowables apply their own padding, and automatic page breaks are turned
// off because the Story decides where pages end.
func NewCanvas(pdf *fpdf.Fpdf) *Canvas {
	_, _, _, bottom := pdf.GetMargins()
	pdf.SetCellMargin(0)
	pdf.SetAutoPageBreak(false, bottom)
	return &Canvas{
		PDF: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

// NewUTF8Canvas is NewCanvas for documents whose styles only use fonts
// added with AddUTF8Font. Text is passed to fpdf unchanged.
func NewUTF8Canvas(pdf *fpdf.Fpdf) *Canvas {
	c := NewCanvas(pdf)
	c.tr = func(s string) string { return s }
	return c
}

// Encode converts UTF-8 text to the encoding of the document fonts.
func (c *Canvas) Encode(s string) string {
	return c.tr(s)
}

// StringWidth measures s in the current font.
func (c *Canvas) StringWidth(s string) float64 {
	return c.PDF.GetStringWidth(c.tr(s))
}

// Left returns the left edge of the page frame.
func (c *Canvas) Left() float64 {
	l, _, _, _ := c.PDF.GetMargins()
	return l
}

// Top returns the top edge of the page frame.
func (c *Canvas) Top() float64 {
	_, t, _, _ := c.PDF.GetMargins()
	return t
}

// Bottom returns the lowest y a flowable may reach on the current page.
func (c *Canvas) Bottom() float64 {
	_, pageH := c.PDF.GetPageSize()
	_, _, _, b := c.PDF.GetMargins()
	return pageH - b
}

// FrameWidth returns the width between the left and right margins.
func (c *Canvas) FrameWidth() float64 {
	pageW, _ := c.PDF.GetPageSize()
	l, _, r, _ := c.PDF.GetMargins()
	return pageW - l - r
}

// AtTop reports whether y is at the top of the frame, where a page break
// would not gain any room.
func (c *Canvas) AtTop(y float64) bool {
	return y <= c.Top()+0.01
}

// NewPage starts a new page and returns the frame top.
func (c *Canvas) NewPage() float64 {
	c.PDF.AddPage()
	top := c.Top()
	c.PDF.SetY(top)
	return top
}

// Story is an ordered sequence of flowables filling the page frame.
type Story struct {
	items []Flowable
}

// Add appends flowables to the story.
func (s *Story) Add(f ...Flowable) {
	s.items = append(s.items, f...)
}

// Len returns the number of flowables in the story.
func (s *Story) Len() int {
	return len(s.items)
}

// Items returns the flowables in order.
func (s *Story) Items() []Flowable {
	return s.items
}

// Render places every flowable in order starting at the current position.
// The caller must have added the first page.
func (s *Story) Render(c *Canvas) error {
	x := c.Left()
	w := c.FrameWidth()

	for _, f := range s.items {
		if c.PDF.Err() {
			return c.PDF.Error()
		}
		if fl, ok := f.(Flowing); ok {
			if err := fl.Flow(c, x, w); err != nil {
				return err
			}
			continue
		}

		h := f.Wrap(c, w)
		y := c.PDF.GetY()
		if y+h > c.Bottom() && !c.AtTop(y) {
			y = c.NewPage()
		}
		f.Draw(c, x, y, w)
		c.PDF.SetXY(x, y+h)
	}
	return c.PDF.Error()
}
