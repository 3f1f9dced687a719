package notification

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.English)

// groupSeparator is the locale's thousands separator, read off a formatted 1000
var groupSeparator = strings.TrimSuffix(strings.TrimPrefix(amountPrinter.Sprintf("%d", 1000), "1"), "000")

// FormatAmount renders an amount with two decimals and thousands separators.
// It works on the decimal's digits, so no precision is lost for large values.
func FormatAmount(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, d := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(groupSeparator)
		}
		b.WriteRune(d)
	}
	b.WriteString(".")
	b.WriteString(frac)
	return b.String()
}
