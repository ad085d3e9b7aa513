package flow

// Spacer is fixed vertical space.
type Spacer struct {
	Height float64
}

// Wrap implements Flowable.
func (s Spacer) Wrap(*Canvas, float64) float64 { return s.Height }

// Draw implements Flowable.
func (Spacer) Draw(*Canvas, float64, float64, float64) {}

// Stack draws flowables one below another. It never splits across pages.
type Stack []Flowable

// Wrap implements Flowable.
func (s Stack) Wrap(c *Canvas, width float64) float64 {
	var h float64
	for _, f := range s {
		h += f.Wrap(c, width)
	}
	return h
}

// Draw implements Flowable.
func (s Stack) Draw(c *Canvas, x, y, width float64) {
	for _, f := range s {
		h := f.Wrap(c, width)
		f.Draw(c, x, y, width)
		y += h
	}
}

// Fixed is a flowable of known size drawn by a callback, such as an image
// or a vector graphic. When the frame is wider than W the graphic is
// placed according to Align ("L", "C" or "R").
type Fixed struct {
	W, H   float64
	Align  string
	Render func(c *Canvas, x, y float64)
}

// Wrap implements Flowable.
func (f Fixed) Wrap(*Canvas, float64) float64 { return f.H }

// Draw implements Flowable.
func (f Fixed) Draw(c *Canvas, x, y, width float64) {
	switch f.Align {
	case "C":
		x += (width - f.W) / 2
	case "R":
		x += width - f.W
	}
	if f.Render != nil {
		f.Render(c, x, y)
	}
}
