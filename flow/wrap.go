package flow

import (
	"strings"
	"unicode"

	"github.com/kovanlabs/pogen/style"
)

// WrapText breaks text into lines no wider than width in the current font.
// Newlines are forced breaks. Lines break at whitespace; in WrapCJK mode
// they may also break after any ideographic character. A token wider than
// the line is split between characters, so nothing is ever dropped. In
// WrapNone and WrapShrink mode only the forced breaks apply.
func (c *Canvas) WrapText(text string, width float64, mode style.WrapMode) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		para = strings.TrimRight(para, "\r")
		if mode == style.WrapNone || mode == style.WrapShrink {
			lines = append(lines, strings.TrimSpace(para))
			continue
		}
		lines = append(lines, c.wrapLine(para, width, mode)...)
	}
	return lines
}

func (c *Canvas) wrapLine(text string, width float64, mode style.WrapMode) []string {
	tokens := tokenize(text, mode)
	if len(tokens) == 0 {
		return []string{""}
	}

	var lines []string
	cur := ""
	for _, tok := range tokens {
		blank := strings.TrimSpace(tok) == ""
		if cur == "" && blank {
			continue
		}
		if c.StringWidth(strings.TrimRight(cur+tok, " \t")) <= width {
			cur += tok
			continue
		}
		if strings.TrimSpace(cur) != "" {
			lines = append(lines, strings.TrimRight(cur, " \t"))
		}
		cur = ""
		if blank {
			continue
		}
		if c.StringWidth(tok) <= width {
			cur = tok
			continue
		}
		// Hard-break a token that cannot fit on any line.
		for _, r := range tok {
			if cur != "" && c.StringWidth(cur+string(r)) > width {
				lines = append(lines, cur)
				cur = ""
			}
			cur += string(r)
		}
	}
	if strings.TrimSpace(cur) != "" || len(lines) == 0 {
		lines = append(lines, strings.TrimRight(cur, " \t"))
	}
	return lines
}

// tokenize splits text into runs of spaces, runs of other characters and,
// in WrapCJK mode, single ideographic characters.
func tokenize(text string, mode style.WrapMode) []string {
	var tokens []string
	var b strings.Builder
	inSpace := false

	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}

	for _, r := range text {
		if mode == style.WrapCJK && isIdeographic(r) {
			flush()
			tokens = append(tokens, string(r))
			inSpace = false
			continue
		}
		space := unicode.IsSpace(r)
		if space != inSpace {
			flush()
			inSpace = space
		}
		b.WriteRune(r)
	}
	flush()
	return tokens
}

func isIdeographic(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}
