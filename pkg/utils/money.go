package utils

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var moneyPrinter = message.NewPrinter(language.English)

// FormatMoney renders an amount with thousands grouping and two decimals,
// e.g. 12345.5 -> "12,345.50"
func FormatMoney(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return moneyPrinter.Sprintf("%.2f", f)
}
