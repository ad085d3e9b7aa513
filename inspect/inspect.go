// Package inspect reads back the text drawn in PDF documents produced by
// this module.
//
// It does not build a full object graph. Objects are scanned in file order,
// page content streams are decoded and every string shown inside a BT/ET
// block becomes a Run in drawing order. Documents that keep their page
// content in object streams or encrypt it are not supported.
package inspect

import (
	"bytes"
	"compress/zlib"
	"encoding/ascii85"
	"encoding/hex"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Run is one string drawn by a text-showing operator. X and Y are the text
// origin in PDF user space, measured from the bottom-left corner of the
// page.
type Run struct {
	Page int
	X, Y float64
	Text string
}

// Document is the text content of a PDF.
type Document struct {
	Runs  []Run
	Pages int
}

// Read parses the PDF read from r.
func Read(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("inspect: reading input: %w", err)
	}
	return Parse(data)
}

// Parse extracts the text runs of the PDF in data.
func Parse(data []byte) (*Document, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, fmt.Errorf("inspect: missing PDF header")
	}
	streams, err := scanStreams(data)
	if err != nil {
		return nil, err
	}

	wide := compositeFonts(data)
	doc := &Document{}
	for _, s := range streams {
		if !s.isPageContent() {
			continue
		}
		content, err := s.decode()
		if err != nil {
			return nil, fmt.Errorf("inspect: object %d: %w", s.obj, err)
		}
		doc.Pages++
		doc.Runs = append(doc.Runs, extractRuns(content, doc.Pages, wide)...)
	}
	return doc, nil
}

// Strings returns the text of every run in drawing order.
func (d *Document) Strings() []string {
	out := make([]string, len(d.Runs))
	for i, r := range d.Runs {
		out[i] = r.Text
	}
	return out
}

// Text returns all runs joined by newlines.
func (d *Document) Text() string {
	return strings.Join(d.Strings(), "\n")
}

// Page returns the runs drawn on page n, counting from 1.
func (d *Document) Page(n int) []Run {
	var out []Run
	for _, r := range d.Runs {
		if r.Page == n {
			out = append(out, r)
		}
	}
	return out
}

// Index returns the position of the first run whose text is s, or -1.
func (d *Document) Index(s string) int {
	for i, r := range d.Runs {
		if r.Text == s {
			return i
		}
	}
	return -1
}

// Count returns the number of runs whose text is s.
func (d *Document) Count(s string) int {
	n := 0
	for _, r := range d.Runs {
		if r.Text == s {
			n++
		}
	}
	return n
}

// Contains reports whether any run contains s.
func (d *Document) Contains(s string) bool {
	for _, r := range d.Runs {
		if strings.Contains(r.Text, s) {
			return true
		}
	}
	return false
}

var (
	type0Object = regexp.MustCompile(`(\d+)\s+\d+\s+obj\s*<<\s*/Type\s*/Font\s*/Subtype\s*/Type0\b`)
	namedRef    = regexp.MustCompile(`/([A-Za-z0-9_.]+)\s+(\d+)\s+\d+\s+R\b`)
)

// compositeFonts returns the resource names that refer to Type0 fonts, the
// fonts fpdf embeds for UTF-8 text. Their strings hold UTF-16BE codes.
func compositeFonts(data []byte) map[string]bool {
	objs := make(map[string]bool)
	for _, m := range type0Object.FindAllSubmatch(data, -1) {
		objs[string(m[1])] = true
	}
	if len(objs) == 0 {
		return nil
	}
	names := make(map[string]bool)
	for _, m := range namedRef.FindAllSubmatch(data, -1) {
		if objs[string(m[2])] {
			names[string(m[1])] = true
		}
	}
	return names
}

type stream struct {
	obj  int
	dict []byte
	data []byte
}

var (
	objHeader = regexp.MustCompile(`(\d+)\s+\d+\s+obj\b`)
	lengthKey = regexp.MustCompile(`/Length\s+(\d+)(\s+\d+\s+R)?`)
	filterKey = regexp.MustCompile(`/Filter\s*(\[[^\]]*\]|/[A-Za-z0-9]+)`)
)

var (
	kwStream    = []byte("stream")
	kwEndStream = []byte("endstream")
	kwEndObj    = []byte("endobj")
)

// scanStreams returns every stream object in file order. A direct /Length
// is trusted to skip binary data; otherwise the data runs to endstream.
func scanStreams(data []byte) ([]stream, error) {
	var out []stream
	pos := 0
	for pos < len(data) {
		loc := objHeader.FindSubmatchIndex(data[pos:])
		if loc == nil {
			break
		}
		num, _ := strconv.Atoi(string(data[pos+loc[2] : pos+loc[3]]))
		start := pos + loc[1]

		end := bytes.Index(data[start:], kwEndObj)
		if end < 0 {
			return nil, fmt.Errorf("inspect: object %d is not terminated", num)
		}
		si := streamKeyword(data[start : start+end])
		if si < 0 {
			pos = start + end + len(kwEndObj)
			continue
		}

		dict := data[start : start+si]
		body := start + si + len(kwStream)
		if body < len(data) && data[body] == '\r' {
			body++
		}
		if body < len(data) && data[body] == '\n' {
			body++
		}

		var raw []byte
		next := -1
		if m := lengthKey.FindSubmatch(dict); m != nil && len(m[2]) == 0 {
			n, _ := strconv.Atoi(string(m[1]))
			if body+n <= len(data) {
				raw = data[body : body+n]
				next = body + n
			}
		}
		if next < 0 {
			e := bytes.Index(data[body:], kwEndStream)
			if e < 0 {
				return nil, fmt.Errorf("inspect: stream in object %d is not terminated", num)
			}
			raw = bytes.TrimRight(data[body:body+e], "\r\n")
			next = body + e
		}
		out = append(out, stream{obj: num, dict: dict, data: raw})

		e := bytes.Index(data[next:], kwEndObj)
		if e < 0 {
			return nil, fmt.Errorf("inspect: object %d is not terminated", num)
		}
		pos = next + e + len(kwEndObj)
	}
	return out, nil
}

// streamKeyword returns the offset of the stream keyword that follows the
// object dictionary in obj, or -1 when obj has no stream.
func streamKeyword(obj []byte) int {
	off := 0
	for {
		i := bytes.Index(obj[off:], kwStream)
		if i < 0 {
			return -1
		}
		i += off
		if bytes.HasSuffix(bytes.TrimRight(obj[:i], " \t\r\n"), []byte(">>")) {
			return i
		}
		off = i + len(kwStream)
	}
}

// isPageContent reports whether the stream is a page content stream rather
// than an image, form, font file or metadata.
func (s stream) isPageContent() bool {
	for _, key := range []string{"/Type", "/Subtype", "/Length1", "/Length2", "/Length3"} {
		if bytes.Contains(s.dict, []byte(key)) {
			return false
		}
	}
	return true
}

// decode applies the stream's filter chain.
func (s stream) decode() ([]byte, error) {
	m := filterKey.FindSubmatch(s.dict)
	if m == nil {
		return s.data, nil
	}
	names := strings.Fields(strings.NewReplacer("[", " ", "]", " ", "/", " ").Replace(string(m[1])))

	data := s.data
	for _, name := range names {
		var err error
		switch name {
		case "FlateDecode":
			data, err = flateDecode(data)
		case "ASCIIHexDecode":
			data, err = asciiHexDecode(data)
		case "ASCII85Decode":
			data, err = ascii85Decode(data)
		default:
			err = fmt.Errorf("unsupported filter %s", name)
		}
		if err != nil {
			return nil, fmt.Errorf("applying filter %s: %w", name, err)
		}
	}
	return data, nil
}

func flateDecode(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib init: %w", err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

func asciiHexDecode(data []byte) ([]byte, error) {
	var clean []byte
	for _, b := range data {
		if b == '>' {
			break
		}
		if !isWhitespace(b) {
			clean = append(clean, b)
		}
	}
	if len(clean)%2 != 0 {
		clean = append(clean, '0')
	}
	dst := make([]byte, hex.DecodedLen(len(clean)))
	if _, err := hex.Decode(dst, clean); err != nil {
		return nil, err
	}
	return dst, nil
}

func ascii85Decode(data []byte) ([]byte, error) {
	if end := bytes.Index(data, []byte("~>")); end >= 0 {
		data = data[:end]
	}
	return io.ReadAll(ascii85.NewDecoder(bytes.NewReader(data)))
}
