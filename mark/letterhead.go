package mark

import (
	"fmt"
	"os"

	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"
)

// Letterhead is the first page of an existing PDF, imported once per
// document and drawn full-page under the content of every page.
type Letterhead struct {
	importer *gofpdi.Importer
	tpl      int
}

// ImportLetterhead imports page 1 of the PDF at path into pdf.
func ImportLetterhead(pdf *fpdf.Fpdf, path string) (lh *Letterhead, err error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("mark: letterhead: %w", err)
	}
	// The importer panics on unreadable sources.
	defer func() {
		if p := recover(); p != nil {
			lh, err = nil, fmt.Errorf("mark: importing letterhead %s: %v", path, p)
		}
	}()

	imp := gofpdi.NewImporter()
	tpl := imp.ImportPage(pdf, path, 1, "/MediaBox")
	if pdf.Err() {
		return nil, fmt.Errorf("mark: importing letterhead %s: %w", path, pdf.Error())
	}
	return &Letterhead{importer: imp, tpl: tpl}, nil
}

// Draw places the letterhead over the whole current page.
func (l *Letterhead) Draw(pdf *fpdf.Fpdf) {
	w, h := pdf.GetPageSize()
	l.importer.UseImportedTemplate(pdf, l.tpl, 0, 0, w, h)
}
