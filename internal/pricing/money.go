package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var countPrinter = message.NewPrinter(language.English)

// FormatAmount renders a whole-euro amount with thousands grouping, e.g. "€298,500".
// Grouping works on the digit string so amounts beyond int64 keep every digit.
func FormatAmount(d decimal.Decimal) string {
	digits := d.Round(0).String()
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString("€")
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatCount renders an AI system count with thousands grouping, e.g. "1,500".
func FormatCount(n int) string {
	return countPrinter.Sprintf("%d", n)
}

// FormatPercent renders a rate as a percentage, e.g. 0.30 as "30%".
func FormatPercent(rate decimal.Decimal) string {
	return rate.Shift(2).String() + "%"
}
