// Package currency converts between the canonical USD unit and the display
// currency, and renders amounts for presentation.
package currency

import (
	"math"
	"strconv"
	"strings"

	"earnings/internal/core"
)

// Magnitude thresholds for short formatting. They apply to the converted
// amount whatever the currency symbol is.
const (
	crore    = 1e7
	lakh     = 1e5
	thousand = 1e3
)

// Converter holds the fixed USD -> INR rate.
type Converter struct {
	Rate float64
}

// NewConverter falls back to core.DefaultUSDToINR for a non-positive rate.
func NewConverter(rate float64) Converter {
	if !(rate > 0) {
		rate = core.DefaultUSDToINR
	}
	return Converter{Rate: rate}
}

// ToUSD converts an amount entered in cur to USD.
func (c Converter) ToUSD(amount float64, cur core.Currency) float64 {
	if cur == core.INR {
		return amount / c.Rate
	}
	return amount
}

// FromUSD converts a stored USD amount to cur.
func (c Converter) FromUSD(amountUSD float64, cur core.Currency) float64 {
	if cur == core.INR {
		return amountUSD * c.Rate
	}
	return amountUSD
}

// Format converts amountUSD to cur and renders it. See FormatDisplay.
func (c Converter) Format(amountUSD float64, cur core.Currency, fractionDigits int, short bool) string {
	return FormatDisplay(c.FromUSD(amountUSD, cur), cur, fractionDigits, short)
}

// FormatDisplay renders an amount already expressed in cur.
//
// Short form uses Cr / L / k suffixes with one decimal, or the rounded
// integer below a thousand. Long form groups digits the Indian way
// (12,34,567) with exactly fractionDigits decimals.
func FormatDisplay(amount float64, cur core.Currency, fractionDigits int, short bool) string {
	sym := Symbol(cur)
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return sym + strconv.FormatFloat(amount, 'f', -1, 64)
	}

	if short {
		switch {
		case amount >= crore:
			return sym + fixed(amount/crore, 1) + "Cr"
		case amount >= lakh:
			return sym + fixed(amount/lakh, 1) + "L"
		case amount >= thousand:
			return sym + fixed(amount/thousand, 1) + "k"
		default:
			return sym + fixed(amount, 0)
		}
	}

	if fractionDigits < 0 {
		fractionDigits = 0
	}
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	intPart, fracPart, _ := strings.Cut(fixed(amount, fractionDigits), ".")
	out := sign + sym + groupIndian(intPart)
	if fracPart != "" {
		out += "." + fracPart
	}
	return out
}

// Symbol returns the display symbol for cur.
func Symbol(cur core.Currency) string {
	switch cur {
	case core.INR:
		return "₹"
	case core.USD:
		return "$"
	default:
		return string(cur) + " "
	}
}

// fixed rounds like Number.prototype.toFixed, see core.ToFixed.
func fixed(v float64, places int) string {
	return core.ToFixed(v, places)
}

// groupIndian inserts separators after the last three digits and then every
// two digits: 1234567 -> 12,34,567.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var b strings.Builder
	lead := len(head) % 2
	if lead > 0 {
		b.WriteString(head[:lead])
	}
	for i := lead; i < len(head); i += 2 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(head[i : i+2])
	}
	b.WriteByte(',')
	b.WriteString(tail)
	return b.String()
}
