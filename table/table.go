package table

import (
	"github.com/kovanlabs/pogen/flow"
	"github.com/kovanlabs/pogen/style"
)

// ColumnDef defines the properties of a table column.
type ColumnDef struct {
	Width    float64  // Fixed width. 0 means auto/fill.
	MinWidth float64  // Minimum width for auto columns.
	MaxWidth float64  // Maximum width for auto columns. 0 means unlimited.
	Align    string   // Default alignment for this column ("L", "C", "R").
	Padding  *Padding // Overrides the table cell padding for this column.
	Wrap     *style.WrapMode // Line breaking of text cells in this column.
}

// Table is a high-level table builder for generating PDF tables.
type Table struct {
	columns    []ColumnDef
	rows       []*Row
	headerRows int
	style      TableStyle
	tableWidth float64 // total table width (0 means the available width)
}

// New creates an empty table. The default padding is 3pt top and bottom and
// 6pt left and right.
func New() *Table {
	return &Table{
		style: TableStyle{
			CellPadding: Padding{Top: 3, Right: 6, Bottom: 3, Left: 6},
		},
	}
}

// SetColumns sets column definitions for the table.
func (t *Table) SetColumns(cols ...ColumnDef) *Table {
	t.columns = cols
	return t
}

// SetColumnWidths is a convenience method to set column widths directly.
// A width of 0 means the column will auto-fill remaining space.
func (t *Table) SetColumnWidths(widths ...float64) *Table {
	t.columns = make([]ColumnDef, len(widths))
	for i, w := range widths {
		t.columns[i] = ColumnDef{Width: w}
	}
	return t
}

// Column returns a pointer to column i so its definition can be adjusted.
func (t *Table) Column(i int) *ColumnDef {
	return &t.columns[i]
}

// SetHeaderRows marks the first n rows as header rows.
// Header rows are repeated at the top of each new page.
func (t *Table) SetHeaderRows(n int) *Table {
	t.headerRows = n
	for i, r := range t.rows {
		r.isHeader = i < n
	}
	return t
}

// SetStyle sets the table-wide style.
func (t *Table) SetStyle(s TableStyle) *Table {
	t.style = s
	return t
}

// SetWidth sets the total table width. If not called, uses the width offered
// by the layout.
func (t *Table) SetWidth(w float64) *Table {
	t.tableWidth = w
	return t
}

// AddRow adds a new data row to the table and returns it for chaining.
func (t *Table) AddRow() *Row {
	r := &Row{}
	t.rows = append(t.rows, r)
	return r
}

// AddHeaderRow adds a new header row and returns it for chaining.
func (t *Table) AddHeaderRow() *Row {
	r := &Row{isHeader: true}
	// Insert header row before data rows
	insertIdx := 0
	for i, existing := range t.rows {
		if !existing.isHeader {
			insertIdx = i
			break
		}
		insertIdx = i + 1
	}
	t.rows = append(t.rows, nil)
	copy(t.rows[insertIdx+1:], t.rows[insertIdx:])
	t.rows[insertIdx] = r
	t.headerRows++
	return r
}

// HeaderRows returns the header rows in order.
func (t *Table) HeaderRows() []*Row {
	headers, _ := t.split()
	return headers
}

// BodyRows returns the data rows in order.
func (t *Table) BodyRows() []*Row {
	_, body := t.split()
	return body
}

func (t *Table) split() (headers, body []*Row) {
	for _, r := range t.rows {
		if r.isHeader {
			headers = append(headers, r)
		} else {
			body = append(body, r)
		}
	}
	return headers, body
}

// Render draws the table at the current position of the canvas, breaking
// pages between rows as needed.
func (t *Table) Render(c *flow.Canvas) error {
	w := t.tableWidth
	if w == 0 {
		w = c.FrameWidth()
	}
	return t.Flow(c, c.PDF.GetX(), w)
}

// Wrap implements flow.Flowable. It returns the unbroken table height.
func (t *Table) Wrap(c *flow.Canvas, width float64) float64 {
	widths := t.calculateWidths(width)
	var h float64
	headers, body := t.split()
	for _, r := range headers {
		h += t.layoutRow(c, r, widths, -1).height
	}
	for i, r := range body {
		h += t.layoutRow(c, r, widths, i).height
	}
	return h
}

// Draw implements flow.Flowable. It draws every row without page breaks.
func (t *Table) Draw(c *flow.Canvas, x, y, width float64) {
	widths := t.calculateWidths(width)
	headers, body := t.split()
	for _, r := range headers {
		y = t.drawRow(c, t.layoutRow(c, r, widths, -1), x, y)
	}
	for i, r := range body {
		y = t.drawRow(c, t.layoutRow(c, r, widths, i), x, y)
	}
}

// Flow implements flow.Flowing. A row that does not fit moves to a new page
// and the header rows are drawn again above it. Only a row taller than a
// whole page is split, at line boundaries of its cells, and continues below
// the repeated header.
func (t *Table) Flow(c *flow.Canvas, x, width float64) error {
	if c.PDF.Err() {
		return c.PDF.Error()
	}

	widths := t.calculateWidths(width)
	headers, body := t.split()

	headerLayouts := make([]rowLayout, len(headers))
	var headerH float64
	for i, r := range headers {
		headerLayouts[i] = t.layoutRow(c, r, widths, -1)
		headerH += headerLayouts[i].height
	}
	newPage := func() float64 {
		y := c.NewPage()
		for _, hl := range headerLayouts {
			y = t.drawRow(c, hl, x, y)
		}
		return y
	}

	y := c.PDF.GetY()
	// Keep the header together with the first data row.
	first := headerH
	if len(body) > 0 {
		first += t.layoutRow(c, body[0], widths, 0).height
	}
	if y+first > c.Bottom() && !c.AtTop(y) && first <= c.Bottom()-c.Top() {
		y = c.NewPage()
	}
	for _, hl := range headerLayouts {
		y = t.drawRow(c, hl, x, y)
	}

	frame := c.Bottom() - c.Top() - headerH
	for i, r := range body {
		rl := t.layoutRow(c, r, widths, i)
		for {
			if y+rl.height <= c.Bottom() {
				y = t.drawRow(c, rl, x, y)
				break
			}
			if rl.height <= frame {
				y = newPage()
				continue
			}
			head, tail, ok := t.splitRow(c, rl, c.Bottom()-y)
			if !ok {
				if y <= c.Top()+headerH+0.01 {
					// Not even one line fits below the header.
					y = t.drawRow(c, rl, x, y)
					break
				}
				y = newPage()
				continue
			}
			t.drawRow(c, head, x, y)
			rl = tail
			y = newPage()
		}
	}

	c.PDF.SetXY(x, y)
	return c.PDF.Error()
}

// splitRow divides rl so that the head is at most height tall. Cells whose
// content fits stay whole in the head; the others must be flow.Splitter.
// It fails when some cell cannot place anything in the head.
func (t *Table) splitRow(c *flow.Canvas, rl rowLayout, height float64) (head, tail rowLayout, ok bool) {
	head = rowLayout{row: rl.row, widths: rl.widths, continued: rl.continued}
	tail = rowLayout{row: rl.row, widths: rl.widths, continued: true}

	for _, pc := range rl.cells {
		hc, tc := pc, pc
		tc.content = nil
		contentW := pc.contentWidth()
		avail := height - pc.padding.Top - pc.padding.Bottom

		if pc.content != nil && pc.content.Wrap(c, contentW) > avail {
			sp, isSplitter := pc.content.(flow.Splitter)
			if !isSplitter {
				return rowLayout{}, rowLayout{}, false
			}
			h, rest := sp.Split(c, contentW, avail)
			if h == nil {
				return rowLayout{}, rowLayout{}, false
			}
			hc.content, tc.content = h, rest
		}

		head.height = max(head.height, hc.height(c))
		tail.height = max(tail.height, tc.height(c))
		head.cells = append(head.cells, hc)
		tail.cells = append(tail.cells, tc)
	}
	return head, tail, true
}

// calculateWidths computes final column widths based on definitions and available space.
func (t *Table) calculateWidths(available float64) []float64 {
	totalWidth := t.tableWidth
	if totalWidth == 0 {
		totalWidth = available
	}

	numCols := len(t.columns)
	if numCols == 0 {
		// Auto-detect from first row
		if len(t.rows) > 0 {
			numCols = len(t.rows[0].cells)
		}
		if numCols == 0 {
			return nil
		}
		t.columns = make([]ColumnDef, numCols)
	}

	widths := make([]float64, numCols)
	fixedTotal := 0.0
	autoCount := 0

	for i, col := range t.columns {
		if col.Width > 0 {
			widths[i] = col.Width
			fixedTotal += col.Width
		} else {
			autoCount++
		}
	}

	// Distribute remaining space to auto columns
	if autoCount > 0 {
		remaining := totalWidth - fixedTotal
		if remaining < 0 {
			remaining = 0
		}
		autoWidth := remaining / float64(autoCount)
		for i, col := range t.columns {
			if col.Width == 0 {
				w := autoWidth
				if col.MinWidth > 0 && w < col.MinWidth {
					w = col.MinWidth
				}
				if col.MaxWidth > 0 && w > col.MaxWidth {
					w = col.MaxWidth
				}
				widths[i] = w
			}
		}
	}

	return widths
}

type placedCell struct {
	offset  float64 // from the table's left edge
	width   float64
	style   CellStyle
	padding Padding
	content flow.Flowable
}

func (pc placedCell) contentWidth() float64 {
	return max(pc.width-pc.padding.Left-pc.padding.Right, 1)
}

func (pc placedCell) height(c *flow.Canvas) float64 {
	h := pc.padding.Top + pc.padding.Bottom
	if pc.content != nil {
		h += pc.content.Wrap(c, pc.contentWidth())
	}
	return h
}

type rowLayout struct {
	row       *Row
	cells     []placedCell
	height    float64
	widths    []float64
	continued bool // the rest of a row split at a page break
}

// layoutRow resolves the style, position and content of every cell and the
// height of the row.
func (t *Table) layoutRow(c *flow.Canvas, r *Row, widths []float64, bodyIdx int) rowLayout {
	rl := rowLayout{row: r, height: r.minH, widths: widths}

	col := 0
	offset := 0.0
	for _, cell := range r.cells {
		if col >= len(widths) {
			break
		}

		// Calculate cell width (including colspan)
		cellW := widths[col]
		for j := 1; j < cell.colspan && col+j < len(widths); j++ {
			cellW += widths[col+j]
		}

		st := t.resolveCellStyle(cell, r, col, bodyIdx)
		pad := t.style.CellPadding
		if st.Padding != nil {
			pad = *st.Padding
		}

		pc := placedCell{
			offset:  offset,
			width:   cellW,
			style:   st,
			padding: pad,
			content: t.contentOf(cell, st, col),
		}

		if h := pc.height(c); h > rl.height {
			rl.height = h
		}

		rl.cells = append(rl.cells, pc)
		offset += cellW
		col += cell.colspan
	}
	return rl
}

// contentOf turns the cell content into a flowable. Text is set as a
// paragraph in the resolved cell font, alignment and wrap mode.
func (t *Table) contentOf(cell *Cell, st CellStyle, col int) flow.Flowable {
	switch c := cell.content.(type) {
	case TextContent:
		align := "L"
		if st.Align != "" {
			align = st.Align
		} else if col < len(t.columns) && t.columns[col].Align != "" {
			align = t.columns[col].Align
		}
		font := FontSpec{Family: "Helvetica", Size: 10}
		if st.Font != nil {
			font = *st.Font
		}
		color := style.Black
		if st.TextColor != nil {
			color = style.Color{R: st.TextColor.R, G: st.TextColor.G, B: st.TextColor.B}
		}
		wrap := style.WrapCJK
		if st.Wrap != nil {
			wrap = *st.Wrap
		}
		return flow.NewParagraph(c.Text, style.Style{
			FontFamily: font.Family,
			FontStyle:  font.Style,
			FontSize:   font.Size,
			Leading:    font.Size * 1.2,
			TextColor:  color,
			Align:      style.Align(align),
			Wrap:       wrap,
		})
	case FlowableContent:
		return c.Flowable
	default:
		return nil
	}
}

// drawRow renders a laid out row with its top edge at y and returns the y
// below it.
func (t *Table) drawRow(c *flow.Canvas, rl rowLayout, startX, y float64) float64 {
	pdf := c.PDF
	lineW := pdf.GetLineWidth()

	for _, pc := range rl.cells {
		x := startX + pc.offset

		// Draw background
		if pc.style.FillColor != nil {
			fc := pc.style.FillColor
			pdf.SetFillColor(fc.R, fc.G, fc.B)
			pdf.Rect(x, y, pc.width, rl.height, "F")
		}

		if pc.content != nil {
			pc.content.Draw(c, x+pc.padding.Left, y+pc.padding.Top, pc.contentWidth())
		}

		// Draw grid
		if t.style.Border != nil {
			bc := t.style.Border.Color
			if pc.style.BorderColor != nil {
				bc = *pc.style.BorderColor
			}
			pdf.SetDrawColor(bc.R, bc.G, bc.B)
			if t.style.Border.Width > 0 {
				pdf.SetLineWidth(t.style.Border.Width)
			}
			pdf.Rect(x, y, pc.width, rl.height, "D")
		}
	}

	if rule := rl.row.lineAbove; rule != nil && !rl.continued {
		from, to := rule.From, rule.To
		if to < 0 || to >= len(rl.widths) {
			to = len(rl.widths) - 1
		}
		x1 := startX
		for i := 0; i < from && i < len(rl.widths); i++ {
			x1 += rl.widths[i]
		}
		x2 := x1
		for i := from; i <= to; i++ {
			x2 += rl.widths[i]
		}
		pdf.SetDrawColor(rule.Color.R, rule.Color.G, rule.Color.B)
		pdf.SetLineWidth(rule.Width)
		pdf.Line(x1, y, x2, y)
	}

	// Restore colors to defaults
	pdf.SetLineWidth(lineW)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetFillColor(0, 0, 0)
	pdf.SetTextColor(0, 0, 0)

	pdf.SetXY(startX, y+rl.height)
	return y + rl.height
}

// resolveCellStyle determines the effective style for a cell by merging
// column, header, alternate row, row, and cell-level styles.
func (t *Table) resolveCellStyle(cell *Cell, row *Row, col, bodyIdx int) CellStyle {
	var result CellStyle

	// Table-level font
	if t.style.CellFont != nil {
		result.Font = t.style.CellFont
	}

	// Column padding and wrapping
	if col < len(t.columns) {
		result.Padding = t.columns[col].Padding
		result.Wrap = t.columns[col].Wrap
	}

	// Header style
	if row.isHeader && t.style.HeaderStyle != nil {
		mergeStyle(&result, t.style.HeaderStyle)
	}

	// Alternate row colors (only for body rows)
	if !row.isHeader && t.style.AlternateRows != nil && bodyIdx >= 0 {
		if bodyIdx%2 == 0 {
			mergeStyle(&result, &t.style.AlternateRows.Even)
		} else {
			mergeStyle(&result, &t.style.AlternateRows.Odd)
		}
	}

	// Row-level style
	if row.style != nil {
		mergeStyle(&result, row.style)
	}

	// Cell-level style (highest priority)
	if cell.style != nil {
		mergeStyle(&result, cell.style)
	}

	return result
}

// mergeStyle copies non-nil fields from src to dst.
func mergeStyle(dst, src *CellStyle) {
	if src.FillColor != nil {
		dst.FillColor = src.FillColor
	}
	if src.TextColor != nil {
		dst.TextColor = src.TextColor
	}
	if src.BorderColor != nil {
		dst.BorderColor = src.BorderColor
	}
	if src.Font != nil {
		dst.Font = src.Font
	}
	if src.Align != "" {
		dst.Align = src.Align
	}
	if src.Padding != nil {
		dst.Padding = src.Padding
	}
	if src.Wrap != nil {
		dst.Wrap = src.Wrap
	}
}
