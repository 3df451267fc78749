// Package formatting renders money amounts and percentages for reports and the CLI.
package formatting

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// aliases maps quote currencies that go-money does not know to a display currency
var aliases = map[string]string{
	"USDT": money.USD,
	"USDC": money.USD,
}

// Currency formats amount in the given ISO currency, e.g. "$7,000.00" or "₺1.234,50".
// Unknown currencies fall back to "<amount> <CODE>".
func Currency(amount float64, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if alias, ok := aliases[code]; ok {
		code = alias
	}

	cur := money.GetCurrency(code)
	if cur == nil {
		return decimal.NewFromFloat(amount).StringFixed(2) + " " + code
	}

	fraction := int32(cur.Fraction)
	minor := decimal.NewFromFloat(amount).Round(fraction).Shift(fraction).IntPart()
	return cur.Formatter().Format(minor)
}

// Percentage formats a percent value with an explicit sign, e.g. "+5.50%"
func Percentage(value float64, decimals int32) string {
	d := decimal.NewFromFloat(value).Round(decimals)
	s := d.StringFixed(decimals)
	if d.IsPositive() {
		return "+" + s + "%"
	}
	return s + "%"
}

// OptionalPercentage formats a nullable percentage, "n/a" when absent
func OptionalPercentage(value *float64, decimals int32) string {
	if value == nil {
		return "n/a"
	}
	return Percentage(*value, decimals)
}

// OptionalNumber formats a nullable ratio, "n/a" when absent
func OptionalNumber(value *float64, decimals int32) string {
	if value == nil {
		return "n/a"
	}
	return decimal.NewFromFloat(*value).StringFixed(decimals)
}
