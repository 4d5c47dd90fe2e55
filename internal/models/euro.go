package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatEuro renders an amount with the register's display convention:
// two decimals, space as thousands separator, comma as decimal separator,
// euro suffix. 1234.5 -> "1 234,50 €".
func FormatEuro(d decimal.Decimal) string {
	s := d.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(intPart[i])
	}

	out := b.String() + "," + fracPart + " €"
	if neg {
		out = "-" + out
	}
	return out
}
