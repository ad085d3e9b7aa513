package flow

import (
	"strings"

	"github.com/kovanlabs/pogen/style"
)

// Paragraph is styled text wrapped to the available width. Newlines in Text
// are forced line breaks.
type Paragraph struct {
	Text  string
	Style style.Style

	lines  []string
	size   float64 // font size after shrinking
	wrapW  float64
	wrapOK bool
}

// NewParagraph returns a paragraph of text in st.
func NewParagraph(text string, st style.Style) *Paragraph {
	return &Paragraph{Text: text, Style: st}
}

// Lines returns the wrapped lines from the last layout.
func (p *Paragraph) Lines() []string {
	return p.lines
}

// FontSize returns the font size the last layout draws with. It is below
// the style's size only for a WrapShrink paragraph that was too wide.
func (p *Paragraph) FontSize() float64 {
	if p.size == 0 {
		return p.Style.FontSize
	}
	return p.size
}

func (p *Paragraph) layout(c *Canvas, width float64) {
	if p.wrapOK && p.wrapW == width {
		return
	}
	p.Style.Apply(c.PDF)
	p.lines = c.WrapText(p.Text, width, p.Style.Wrap)
	p.size = p.Style.FontSize
	if p.Style.Wrap == style.WrapShrink {
		var widest float64
		for _, l := range p.lines {
			widest = max(widest, c.StringWidth(l))
		}
		if widest > width && width > 0 {
			// Widths scale linearly with the size; the small factor absorbs
			// rounding in the font metrics.
			p.size = p.Style.FontSize * width / widest * 0.995
		}
	}
	p.wrapW = width
	p.wrapOK = true
}

func (p *Paragraph) apply(c *Canvas) {
	st := p.Style
	st.FontSize = p.FontSize()
	st.Apply(c.PDF)
}

// Wrap implements Flowable.
func (p *Paragraph) Wrap(c *Canvas, width float64) float64 {
	p.layout(c, width)
	return p.Style.SpaceBefore + float64(len(p.lines))*p.Style.Leading + p.Style.SpaceAfter
}

// Draw implements Flowable.
func (p *Paragraph) Draw(c *Canvas, x, y, width float64) {
	p.layout(c, width)
	p.apply(c)
	y += p.Style.SpaceBefore
	for _, line := range p.lines {
		p.drawLine(c, line, x, y, width)
		y += p.Style.Leading
	}
}

// Flow implements Flowing. Lines that do not fit move to the next page.
func (p *Paragraph) Flow(c *Canvas, x, width float64) error {
	p.layout(c, width)
	p.apply(c)

	y := c.PDF.GetY() + p.Style.SpaceBefore
	for _, line := range p.lines {
		if y+p.Style.Leading > c.Bottom() && !c.AtTop(y) {
			y = c.NewPage()
			p.apply(c)
		}
		p.drawLine(c, line, x, y, width)
		y += p.Style.Leading
	}
	c.PDF.SetXY(x, y+p.Style.SpaceAfter)
	return c.PDF.Error()
}

// Split implements Splitter. The head keeps as many whole lines as fit in
// height and the space before; the tail keeps the rest and the space after.
func (p *Paragraph) Split(c *Canvas, width, height float64) (head, tail Flowable) {
	p.layout(c, width)
	n := 0
	if p.Style.Leading > 0 {
		n = int((height-p.Style.SpaceBefore)/p.Style.Leading + 1e-9)
	}
	switch {
	case n <= 0:
		return nil, p
	case n >= len(p.lines):
		return p, nil
	}
	hs, ts := p.Style, p.Style
	hs.SpaceAfter = 0
	ts.SpaceBefore = 0
	return p.part(p.lines[:n:n], hs, width), p.part(p.lines[n:], ts, width)
}

// part returns a paragraph already laid out as lines at width.
func (p *Paragraph) part(lines []string, st style.Style, width float64) *Paragraph {
	return &Paragraph{
		Text:   strings.Join(lines, "\n"),
		Style:  st,
		lines:  lines,
		size:   p.size,
		wrapW:  width,
		wrapOK: true,
	}
}

func (p *Paragraph) drawLine(c *Canvas, line string, x, y, width float64) {
	c.PDF.SetXY(x, y)
	c.PDF.CellFormat(width, p.Style.Leading, c.Encode(line), "", 0, string(p.Style.Align), false, 0, "")
}
