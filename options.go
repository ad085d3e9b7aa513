package pogen

import (
	"log/slog"
	"time"

	"github.com/kovanlabs/pogen/logo"
	"github.com/kovanlabs/pogen/mark"
	"github.com/kovanlabs/pogen/style"
)

// Option is a functional option for configuring a Composer via New.
type Option func(*composerConfig)

type composerConfig struct {
	styles     *style.Registry
	logoPath   string
	logoBox    logo.Box
	strategies []logo.Strategy
	brand      string
	currency   string
	log        *slog.Logger
	compress   bool
	created    time.Time
	barcode    mark.Symbology
	letterhead string
	pageSize   string
	font       fontFiles
}

// fontFiles are the TrueType files of the embedded font family.
type fontFiles struct {
	regular, bold string
}

// WithStyles replaces the default style registry. The registry must define
// every name in style.Default.
func WithStyles(r *style.Registry) Option {
	return func(c *composerConfig) {
		c.styles = r
	}
}

// WithLogoPath sets the logo asset. SVG files are drawn as vectors, other
// files are decoded as raster images. The default is logo.DefaultPath.
func WithLogoPath(path string) Option {
	return func(c *composerConfig) {
		c.logoPath = path
	}
}

// WithLogoBox sets the area the logo is fitted into.
func WithLogoBox(w, h float64) Option {
	return func(c *composerConfig) {
		c.logoBox = logo.Box{W: w, H: h}
	}
}

// WithLogoStrategies replaces the strategies tried before the text
// fallback. WithLogoPath has no effect when this option is given.
func WithLogoStrategies(s ...logo.Strategy) Option {
	return func(c *composerConfig) {
		c.strategies = s
	}
}

// WithBrandName sets the text drawn when no logo graphic can be used. By
// default the company name is used in upper case.
func WithBrandName(name string) Option {
	return func(c *composerConfig) {
		c.brand = name
	}
}

// WithCurrencySymbol sets the prefix of every amount.
func WithCurrencySymbol(symbol string) Option {
	return func(c *composerConfig) {
		c.currency = symbol
	}
}

// WithLogger sets the logger for debug output. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *composerConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// WithCompression toggles stream compression. It is on by default.
func WithCompression(on bool) Option {
	return func(c *composerConfig) {
		c.compress = on
	}
}

// WithCreationDate fixes the creation and modification dates written to the
// document. Together with equal input this makes output byte-identical.
func WithCreationDate(t time.Time) Option {
	return func(c *composerConfig) {
		c.created = t
	}
}

// WithBarcode draws the PO number as a barcode under the header metadata.
func WithBarcode(sym mark.Symbology) Option {
	return func(c *composerConfig) {
		c.barcode = sym
	}
}

// WithLetterhead draws page 1 of the PDF at path under every page.
func WithLetterhead(path string) Option {
	return func(c *composerConfig) {
		c.letterhead = path
	}
}

// WithPageSize sets the page size by name, e.g. "A4" or "Letter".
func WithPageSize(size string) Option {
	return func(c *composerConfig) {
		c.pageSize = size
	}
}

// WithFont sets every style in the TrueType font at regular, embedded as a
// UTF-8 font, so text outside Windows-1252 such as CJK descriptions keeps
// its characters. bold is used for bold styles; if empty the regular face is
// used for them too. By default the core Helvetica font is used.
func WithFont(regular, bold string) Option {
	return func(c *composerConfig) {
		c.font = fontFiles{regular: regular, bold: bold}
	}
}

func defaultConfig() composerConfig {
	return composerConfig{
		styles:   style.Default(),
		logoPath: logo.DefaultPath,
		logoBox:  logo.DefaultBox,
		currency: DefaultCurrencySymbol,
		log:      slog.Default(),
		compress: true,
		pageSize: "A4",
	}
}
