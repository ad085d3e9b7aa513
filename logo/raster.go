package logo

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/go-pdf/fpdf"
	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/kovanlabs/pogen/flow"
)

// pixelsPerPoint is the resampling density for raster logos.
const pixelsPerPoint = 4

// Raster draws a bitmap logo fitted into Box. PNG, JPEG, GIF, BMP, TIFF and
// WebP files are accepted; the image is resampled to 8-bit RGBA and
// embedded as PNG.
type Raster struct {
	Path string
	Box  Box
}

// Name implements Strategy.
func (Raster) Name() string { return "raster" }

// Resolve implements Strategy.
func (r Raster) Resolve(c *flow.Canvas) (flow.Flowable, error) {
	data, err := os.ReadFile(r.Path)
	if err != nil {
		return nil, fmt.Errorf("logo: %w", err)
	}
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("logo: decoding %s: %w", r.Path, err)
	}
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("logo: %s is empty", r.Path)
	}

	box := r.Box
	if box.W <= 0 || box.H <= 0 {
		box = DefaultBox
	}
	// Aspect ratio is taken from pixel dimensions.
	scale := box.fit(float64(b.Dx()), float64(b.Dy()))
	w := float64(b.Dx()) * scale
	h := float64(b.Dy()) * scale

	encoded, err := resample(src, int(w*pixelsPerPoint), int(h*pixelsPerPoint))
	if err != nil {
		return nil, fmt.Errorf("logo: re-encoding %s image: %w", format, err)
	}

	sum := sha1.Sum(encoded)
	name := "logo-" + hex.EncodeToString(sum[:8])
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	c.PDF.RegisterImageOptionsReader(name, opts, bytes.NewReader(encoded))
	if c.PDF.Err() {
		return nil, fmt.Errorf("logo: registering image: %w", c.PDF.Error())
	}

	return flow.Fixed{
		W:     w,
		H:     h,
		Align: "L",
		Render: func(c *flow.Canvas, x, y float64) {
			c.PDF.ImageOptions(name, x, y, w, h, false, opts, 0, "")
		},
	}, nil
}

// resample scales src down to at most wpx by hpx pixels into an 8-bit NRGBA
// image and encodes it as PNG. Images already smaller keep their size.
func resample(src image.Image, wpx, hpx int) ([]byte, error) {
	b := src.Bounds()
	if wpx <= 0 || hpx <= 0 || (b.Dx() <= wpx && b.Dy() <= hpx) {
		wpx, hpx = b.Dx(), b.Dy()
	}
	dst := image.NewNRGBA(image.Rect(0, 0, wpx, hpx))
	if wpx == b.Dx() && hpx == b.Dy() {
		xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
	} else {
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
