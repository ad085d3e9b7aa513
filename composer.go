package pogen

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/kovanlabs/pogen/flow"
	"github.com/kovanlabs/pogen/mark"
)

// ContentType is the MIME type of composed documents.
const ContentType = "application/pdf"

const inch = 72.0

// Page margins in points. The left margin is narrower so the logo and the
// address blocks sit close to the edge.
const (
	marginLeft   = 0.5 * inch
	marginTop    = 0.75 * inch
	marginRight  = 0.75 * inch
	marginBottom = 0.75 * inch
)

// embeddedFamily is the fpdf family name of the font set with WithFont.
const embeddedFamily = "Embedded"

// Composer renders purchase order records. Its configuration is fixed at
// construction, so one Composer may serve concurrent requests.
type Composer struct {
	cfg composerConfig
}

// New creates a Composer.
func New(opts ...Option) *Composer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.font.regular != "" {
		cfg.styles = cfg.styles.WithFamily(embeddedFamily)
	}
	return &Composer{cfg: cfg}
}

// Generate composes rec with a Composer built from opts.
func Generate(rec *PurchaseOrderRecord, opts ...Option) (*bytes.Reader, error) {
	return New(opts...).Compose(rec)
}

// Filename returns the download name for a purchase order, PO_<number>.pdf.
// Path separators in the number are replaced.
func Filename(poNumber string) string {
	clean := strings.NewReplacer("/", "_", `\`, "_").Replace(poNumber)
	return "PO_" + clean + ".pdf"
}

// Compose renders rec and returns the document positioned at its start.
// On failure the error is a *GenerationError and no output is returned.
func (c *Composer) Compose(rec *PurchaseOrderRecord) (*bytes.Reader, error) {
	var buf bytes.Buffer
	if err := c.ComposeTo(&buf, rec); err != nil {
		return nil, err
	}
	return bytes.NewReader(buf.Bytes()), nil
}

// ComposeTo renders rec to w. Nothing is written to w unless the whole
// document was built.
func (c *Composer) ComposeTo(w io.Writer, rec *PurchaseOrderRecord) error {
	if rec == nil {
		return &GenerationError{Op: "compose", Err: ErrNilRecord}
	}
	po := rec.PONumber

	pdf, err := c.newDocument(rec)
	if err != nil {
		return newGenerationError(po, "setup", ErrRender, err)
	}
	if c.cfg.letterhead != "" {
		lh, err := mark.ImportLetterhead(pdf, c.cfg.letterhead)
		if err != nil {
			return newGenerationError(po, "letterhead", ErrLetterhead, err)
		}
		pdf.SetHeaderFunc(func() { lh.Draw(pdf) })
	}

	canvas := flow.NewCanvas(pdf)
	if c.cfg.font.regular != "" {
		canvas = flow.NewUTF8Canvas(pdf)
	}
	story, logoUsed, err := c.story(canvas, rec)
	if err != nil {
		return err
	}
	if err := render(canvas, story); err != nil {
		return newGenerationError(po, "render", ErrRender, err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return newGenerationError(po, "output", ErrRender, err)
	}
	c.cfg.log.Debug("purchase order composed",
		"po", po,
		"items", len(rec.Items),
		"pages", pdf.PageCount(),
		"bytes", buf.Len(),
		"logo", logoUsed,
	)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return &GenerationError{PONumber: po, Op: "write", Err: err}
	}
	return nil
}

func (c *Composer) newDocument(rec *PurchaseOrderRecord) (*fpdf.Fpdf, error) {
	pdf := fpdf.New("P", "pt", c.cfg.pageSize, "")
	if pdf.Err() {
		return nil, pdf.Error()
	}
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetCompression(c.cfg.compress)
	pdf.SetCatalogSort(true)
	if c.cfg.font.regular != "" {
		if err := addFont(pdf, c.cfg.font); err != nil {
			return nil, err
		}
	}

	created := c.cfg.created
	if created.IsZero() {
		created = time.Now()
	}
	pdf.SetCreationDate(created)
	pdf.SetModificationDate(created)

	pdf.SetTitle(fmt.Sprintf("Purchase Order %s", rec.PONumber), true)
	pdf.SetSubject("Purchase Order", true)
	pdf.SetAuthor(rec.Company.Name, true)
	pdf.SetCreator("pogen", true)
	return pdf, nil
}

// addFont embeds the WithFont faces under embeddedFamily. Italic styles use
// the upright faces.
func addFont(pdf *fpdf.Fpdf, f fontFiles) error {
	regular, err := os.ReadFile(f.regular)
	if err != nil {
		return fmt.Errorf("loading font: %w", err)
	}
	bold := regular
	if f.bold != "" {
		if bold, err = os.ReadFile(f.bold); err != nil {
			return fmt.Errorf("loading bold font: %w", err)
		}
	}
	pdf.AddUTF8FontFromBytes(embeddedFamily, "", regular)
	pdf.AddUTF8FontFromBytes(embeddedFamily, "I", regular)
	pdf.AddUTF8FontFromBytes(embeddedFamily, "B", bold)
	pdf.AddUTF8FontFromBytes(embeddedFamily, "BI", bold)
	if pdf.Err() {
		return fmt.Errorf("loading font: %w", pdf.Error())
	}
	return nil
}

// render lays out the story from the top of a fresh first page. The layout
// engine reports some failures by panicking; those become errors.
func render(c *flow.Canvas, s *flow.Story) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("layout: %v", p)
		}
	}()
	c.NewPage()
	return s.Render(c)
}
