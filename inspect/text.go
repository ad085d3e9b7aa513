package inspect

import (
	"strconv"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"
)

// extractRuns scans a content stream for text-showing operators inside
// BT/ET blocks. Td, TD and Tm move the text origin; Tj, TJ, ' and "
// each produce one run. Strings shown in a font named in wide are two-byte
// codes.
func extractRuns(data []byte, page int, wide map[string]bool) []Run {
	var (
		runs    []Run
		nums    []float64
		pending []byte
		shown   bool
		inText  bool
		x, y    float64
		lineX   float64
		lineY   float64
		name    string
		font    string
	)

	emit := func() {
		if inText && shown {
			text := decodeString(pending)
			if wide[font] {
				text = decodeUTF16BE(pending)
			}
			runs = append(runs, Run{Page: page, X: x, Y: y, Text: text})
		}
		pending, shown = pending[:0], false
	}

	i := 0
	for i < len(data) {
		b := data[i]
		switch {
		case isWhitespace(b):
			i++
		case b == '%':
			for i < len(data) && data[i] != '\n' && data[i] != '\r' {
				i++
			}
		case b == '(':
			s, end := parseLiteralString(data, i)
			pending = append(pending, s...)
			shown = true
			i = end
		case b == '<' && i+1 < len(data) && data[i+1] == '<':
			i += 2
		case b == '>' && i+1 < len(data) && data[i+1] == '>':
			i += 2
		case b == '<':
			s, end := parseHexString(data, i)
			pending = append(pending, s...)
			shown = true
			i = end
		case b == '[' || b == ']' || b == '{' || b == '}':
			i++
		case b == '/':
			i++
			start := i
			for i < len(data) && !isWhitespace(data[i]) && !isDelimiter(data[i]) {
				i++
			}
			name = string(data[start:i])
		default:
			start := i
			for i < len(data) && !isWhitespace(data[i]) && !isDelimiter(data[i]) {
				i++
			}
			if i == start {
				i++
				continue
			}
			tok := string(data[start:i])
			if v, err := strconv.ParseFloat(tok, 64); err == nil {
				nums = append(nums, v)
				continue
			}

			switch tok {
			case "Tf":
				font = name
			case "BT":
				inText = true
				x, y, lineX, lineY = 0, 0, 0, 0
			case "ET":
				inText = false
			case "Td", "TD":
				if n := len(nums); n >= 2 {
					lineX += nums[n-2]
					lineY += nums[n-1]
					x, y = lineX, lineY
				}
			case "Tm":
				if n := len(nums); n >= 6 {
					lineX, lineY = nums[n-2], nums[n-1]
					x, y = lineX, lineY
				}
			case "Tj", "TJ", "'", `"`:
				emit()
			}
			nums = nums[:0]
			if tok != "Tj" && tok != "TJ" && tok != "'" && tok != `"` {
				pending, shown = pending[:0], false
			}
		}
	}
	return runs
}

// decodeString converts the bytes of a PDF string to UTF-8. Strings with a
// UTF-16BE byte order mark are decoded as such; everything else is taken
// to be WinAnsiEncoding, the encoding of the standard fonts.
func decodeString(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		return decodeUTF16BE(b[2:])
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

func decodeUTF16BE(b []byte) string {
	if len(b)%2 != 0 {
		b = append(b, 0)
	}
	u := make([]uint16, len(b)/2)
	for i := range u {
		u[i] = uint16(b[2*i])<<8 | uint16(b[2*i+1])
	}
	return string(utf16.Decode(u))
}

// parseLiteralString returns the unescaped bytes of the literal string at
// pos and the position after its closing parenthesis.
func parseLiteralString(data []byte, pos int) ([]byte, int) {
	pos++ // '('
	var buf []byte
	depth := 1
	for pos < len(data) && depth > 0 {
		b := data[pos]
		pos++
		switch b {
		case '(':
			depth++
			buf = append(buf, b)
		case ')':
			depth--
			if depth > 0 {
				buf = append(buf, b)
			}
		case '\\':
			if pos >= len(data) {
				break
			}
			esc := data[pos]
			pos++
			switch esc {
			case 'n':
				buf = append(buf, '\n')
			case 'r':
				buf = append(buf, '\r')
			case 't':
				buf = append(buf, '\t')
			case 'b':
				buf = append(buf, '\b')
			case 'f':
				buf = append(buf, '\f')
			case '\r', '\n':
				// line continuation
				if esc == '\r' && pos < len(data) && data[pos] == '\n' {
					pos++
				}
			default:
				if esc >= '0' && esc <= '7' {
					oct := int(esc - '0')
					for j := 0; j < 2 && pos < len(data) && data[pos] >= '0' && data[pos] <= '7'; j++ {
						oct = oct*8 + int(data[pos]-'0')
						pos++
					}
					buf = append(buf, byte(oct))
				} else {
					buf = append(buf, esc)
				}
			}
		default:
			buf = append(buf, b)
		}
	}
	return buf, pos
}

// parseHexString returns the bytes of the hex string at pos and the
// position after its closing bracket.
func parseHexString(data []byte, pos int) ([]byte, int) {
	pos++ // '<'
	var buf []byte
	hi := -1
	for pos < len(data) {
		b := data[pos]
		pos++
		if b == '>' {
			break
		}
		v := unhex(b)
		if v < 0 {
			continue
		}
		if hi < 0 {
			hi = v
		} else {
			buf = append(buf, byte(hi<<4|v))
			hi = -1
		}
	}
	if hi >= 0 {
		buf = append(buf, byte(hi<<4))
	}
	return buf, pos
}

func unhex(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10
	}
	return -1
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n' || b == '\f' || b == 0
}

func isDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}
