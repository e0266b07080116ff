// Package core holds the dashboard domain: projects, team members, display
// settings and the validation rules applied at the input boundary.
//
// This file contains amount parsing for form input. Amounts arrive in the
// display currency as text and are converted to USD by the caller.
package core

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string to a positive amount.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted. Signs,
// zero and non-numeric input are rejected with ErrInvalidAmount, and so is a
// comma followed by exactly three digits after a non-zero integer part
// ("1,500"), which reads as a thousands separator.
//
// Examples:
//
//	ParseAmount("1500")    -> 1500, nil
//	ParseAmount("12,5")    -> 12.5, nil
//	ParseAmount("1,500")   -> 0, ErrInvalidAmount
//	ParseAmount("-3")      -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if looksGrouped(s) {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	if strings.Count(s, ".") > 1 || strings.ContainsAny(s, "eE") {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return 0, ErrInvalidAmount
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) {
		return 0, ErrInvalidAmount
	}
	return f, nil
}

// ValidAmount reports whether v is a positive finite number.
func ValidAmount(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func looksGrouped(s string) bool {
	head, tail, found := strings.Cut(s, ",")
	if !found || len(tail) != 3 || strings.Trim(head, "0") == "" {
		return false
	}
	return strings.Trim(tail, "0123456789") == ""
}

// ToFixed renders v with exactly places decimals, rounding the exact binary
// value of v half away from zero. 1.45 is stored as 1.4499999999999999556,
// so ToFixed(1.45, 1) is "1.4" while ToFixed(1.25, 1) is "1.3".
func ToFixed(v float64, places int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	if places < 0 {
		places = 0
	}
	exact := new(big.Float).SetFloat64(v).Text('f', 1100)
	d, err := decimal.NewFromString(exact)
	if err != nil {
		return strconv.FormatFloat(v, 'f', places, 64)
	}
	return d.StringFixed(int32(places))
}
