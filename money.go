package pogen

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrencySymbol prefixes every amount unless WithCurrencySymbol is
// given.
const DefaultCurrencySymbol = "Rs."

// FormatAmount renders d with exactly two decimals and comma thousands
// separators, prefixed by symbol, so 1234.5 with symbol "Rs." reads
// "Rs.1,234.50". Halves round away from zero. A negative amount keeps its
// sign after the symbol, as in "Rs.-5.00".
func FormatAmount(symbol string, d decimal.Decimal) string {
	s := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	b.Grow(len(symbol) + len(sign) + len(s) + len(whole)/3)
	b.WriteString(symbol)
	b.WriteString(sign)
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
