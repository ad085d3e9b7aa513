package table

import (
	"fmt"

	"github.com/kovanlabs/pogen/flow"
)

// CellContent represents the content of a table cell.
type CellContent interface {
	cellContent()
}

// TextContent is plain text drawn in the resolved cell font. Newlines are
// forced breaks and long text wraps within the cell.
type TextContent struct {
	Text string
}

func (TextContent) cellContent() {}

// FlowableContent is any flowable, such as a styled paragraph, a stack of
// paragraphs or a graphic. It is drawn as is; the cell font does not apply.
type FlowableContent struct {
	Flowable flow.Flowable
}

func (FlowableContent) cellContent() {}

// Cell represents a single cell in a table row.
type Cell struct {
	content CellContent
	colspan int
	style   *CellStyle
}

// Content returns the cell content.
func (c *Cell) Content() CellContent {
	return c.content
}

// SetColspan sets the number of columns this cell spans.
func (c *Cell) SetColspan(n int) *Cell {
	if n > 0 {
		c.colspan = n
	}
	return c
}

// SetStyle sets the style for this cell, overriding table/row defaults.
func (c *Cell) SetStyle(s CellStyle) *Cell {
	c.style = &s
	return c
}

// SetAlign sets the horizontal alignment for this cell.
func (c *Cell) SetAlign(align string) *Cell {
	if c.style == nil {
		c.style = &CellStyle{}
	}
	c.style.Align = align
	return c
}

// SetPadding sets the padding for this cell.
func (c *Cell) SetPadding(p Padding) *Cell {
	if c.style == nil {
		c.style = &CellStyle{}
	}
	c.style.Padding = &p
	return c
}

// SetFillColor sets the background color for this cell.
func (c *Cell) SetFillColor(r, g, b int) *Cell {
	if c.style == nil {
		c.style = &CellStyle{}
	}
	c.style.FillColor = &RGBColor{r, g, b}
	return c
}

// Row represents a single row in a table.
type Row struct {
	cells     []*Cell
	style     *CellStyle
	isHeader  bool
	minH      float64
	lineAbove *Rule
}

// Cells returns the cells of the row.
func (r *Row) Cells() []*Cell {
	return r.cells
}

// IsHeader reports whether the row repeats after page breaks.
func (r *Row) IsHeader() bool {
	return r.isHeader
}

// AddCell adds a text cell to the row and returns the cell for chaining.
func (r *Row) AddCell(text string) *Cell {
	return r.add(TextContent{Text: text})
}

// AddCellf adds a formatted text cell to the row.
func (r *Row) AddCellf(format string, args ...any) *Cell {
	return r.AddCell(fmt.Sprintf(format, args...))
}

// AddFlowable adds a cell holding f.
func (r *Row) AddFlowable(f flow.Flowable) *Cell {
	return r.add(FlowableContent{Flowable: f})
}

// AddEmpty adds a cell without content.
func (r *Row) AddEmpty() *Cell {
	return r.add(nil)
}

func (r *Row) add(content CellContent) *Cell {
	c := &Cell{content: content, colspan: 1}
	r.cells = append(r.cells, c)
	return c
}

// SetStyle sets the style for all cells in this row.
func (r *Row) SetStyle(s CellStyle) *Row {
	r.style = &s
	return r
}

// SetMinHeight sets the minimum height for this row.
func (r *Row) SetMinHeight(h float64) *Row {
	r.minH = h
	return r
}

// SetLineAbove draws rule along the top edge of the row.
func (r *Row) SetLineAbove(rule Rule) *Row {
	r.lineAbove = &rule
	return r
}
