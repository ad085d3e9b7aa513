// Package logo resolves the graphic shown in the document header.
//
// A Resolver tries its strategies in order and uses the first that yields a
// flowable. When every strategy fails it falls back to a text rendering of
// the brand name, so a header can always be drawn. Failures are logged at
// debug level and never returned.
package logo

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/kovanlabs/pogen/flow"
	"github.com/kovanlabs/pogen/style"
)

// DefaultPath is the well-known location of the logo asset, relative to the
// working directory.
const DefaultPath = "logo.svg"

// Box is the area a graphic logo is fitted into, in points.
type Box struct {
	W, H float64
}

// DefaultBox is the header logo size.
var DefaultBox = Box{W: 70, H: 55}

// fit returns the uniform scale that fits a w by h graphic into b.
func (b Box) fit(w, h float64) float64 {
	sx := b.W / w
	sy := b.H / h
	if sy < sx {
		return sy
	}
	return sx
}

// Strategy produces a logo flowable, or an error when it cannot be used in
// this environment.
type Strategy interface {
	Name() string
	Resolve(c *flow.Canvas) (flow.Flowable, error)
}

// Text renders the brand name as a paragraph. It never fails.
type Text struct {
	Brand string
	Style style.Style
}

// Name implements Strategy.
func (Text) Name() string { return "text" }

// Resolve implements Strategy.
func (t Text) Resolve(*flow.Canvas) (flow.Flowable, error) {
	return flow.NewParagraph(t.Brand, t.Style), nil
}

// Resolver selects a logo strategy.
type Resolver struct {
	strategies []Strategy
	fallback   Text
	log        *slog.Logger
}

// NewResolver returns a resolver trying strategies in order before falling
// back to fallback. A nil logger uses slog.Default().
func NewResolver(log *slog.Logger, fallback Text, strategies ...Strategy) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{strategies: strategies, fallback: fallback, log: log}
}

// ForPath returns the strategy matching the file extension of path: SVG for
// .svg files and Raster otherwise.
func ForPath(path string, box Box) Strategy {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return SVG{Path: path, Box: box}
	}
	return Raster{Path: path, Box: box}
}

// Resolve returns the logo flowable and the name of the strategy used.
func (r *Resolver) Resolve(c *flow.Canvas) (flow.Flowable, string) {
	for _, s := range r.strategies {
		f, err := safeResolve(s, c)
		if err == nil {
			r.log.Debug("logo resolved", "strategy", s.Name())
			return f, s.Name()
		}
		r.log.Debug("logo strategy unavailable", "strategy", s.Name(), "reason", err)
	}
	f, _ := r.fallback.Resolve(c)
	return f, r.fallback.Name()
}

// safeResolve converts a panic inside a strategy into an error.
func safeResolve(s Strategy, c *flow.Canvas) (f flow.Flowable, err error) {
	defer func() {
		if p := recover(); p != nil {
			f, err = nil, fmt.Errorf("logo: %s strategy panicked: %v", s.Name(), p)
		}
	}()
	f, err = s.Resolve(c)
	if err == nil && f == nil {
		err = fmt.Errorf("logo: %s strategy returned nothing", s.Name())
	}
	return f, err
}
