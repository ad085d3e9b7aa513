package logo

import (
	"fmt"
	"os"

	"github.com/go-pdf/fpdf"

	"github.com/kovanlabs/pogen/flow"
)

// SVG draws the paths of a basic SVG file, scaled uniformly into Box. Only
// the path subset understood by fpdf.SVGBasicFileParse is supported.
type SVG struct {
	Path string
	Box  Box
}

// Name implements Strategy.
func (SVG) Name() string { return "svg" }

// Resolve implements Strategy.
func (s SVG) Resolve(*flow.Canvas) (flow.Flowable, error) {
	if _, err := os.Stat(s.Path); err != nil {
		return nil, fmt.Errorf("logo: %w", err)
	}
	sig, err := fpdf.SVGBasicFileParse(s.Path)
	if err != nil {
		return nil, fmt.Errorf("logo: parsing %s: %w", s.Path, err)
	}
	if sig.Wd <= 0 || sig.Ht <= 0 {
		return nil, fmt.Errorf("logo: %s has no size", s.Path)
	}
	if len(sig.Segments) == 0 {
		return nil, fmt.Errorf("logo: %s has no paths", s.Path)
	}

	box := s.Box
	if box.W <= 0 || box.H <= 0 {
		box = DefaultBox
	}
	scale := box.fit(sig.Wd, sig.Ht)

	return flow.Fixed{
		W:     sig.Wd * scale,
		H:     sig.Ht * scale,
		Align: "L",
		Render: func(c *flow.Canvas, x, y float64) {
			lineW := c.PDF.GetLineWidth()
			c.PDF.SetLineWidth(0.5)
			c.PDF.SetDrawColor(0, 0, 0)
			c.PDF.SetXY(x, y)
			c.PDF.SVGBasicWrite(&sig, scale)
			c.PDF.SetLineWidth(lineW)
		},
	}, nil
}
