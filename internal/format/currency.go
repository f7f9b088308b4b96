// Package format renders numbers the way the dashboard's fixed vi-VN locale expects.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholder is shown wherever a value is undefined or unparsable
const Placeholder = "—"

const (
	dongSymbol = "₫"
	// keeps the amount and the symbol on one line
	nbsp = "\u00a0"
)

var printer = message.NewPrinter(language.Vietnamese)

// Number groups an integer with the Vietnamese thousands separator, e.g. 50.000
func Number(n int64) string {
	return printer.Sprintf("%d", n)
}

// VND renders an amount of dong rounded to whole units, e.g. "50.000\u00a0₫"
func VND(amount decimal.Decimal) string {
	return Number(amount.Round(0).IntPart()) + nbsp + dongSymbol
}

// VNDText parses a decimal-as-text amount and renders it with VND
func VNDText(amount string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Placeholder
	}
	return VND(d)
}
