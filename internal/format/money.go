package format

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Korean)

// Won renders an amount as "12,500 원". Fractions are rounded to whole won.
func Won(amount decimal.Decimal) string {
	return printer.Sprintf("%d 원", amount.Round(0).IntPart())
}
