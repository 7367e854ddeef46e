// Package extract turns recognized screen text into a single monetary value.
// It contains the locale-aware amount parser and the candidate scorer that
// picks the best parseable number among several recognized text elements.
package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// currencySymbols are stripped from candidate text before numeric parsing.
var currencySymbols = []string{"$", "€", "£", "¥", "₹", "₽", "¢"}

// currencyCodeRe matches ISO currency codes on word boundaries,
// case-insensitively.
var currencyCodeRe = regexp.MustCompile(`(?i)\b(USD|EUR|GBP|CHF|JPY|CNY|CAD|AUD)\b`)

// ParseAmount normalizes a raw text token such as "1'234.56 CHF" into a
// signed decimal. It handles US, European, and Swiss thousands/decimal
// conventions. The second return value is false when no numeric value
// survives normalization; that is a normal outcome, not an error.
//
// Separator policy:
//   - the Swiss apostrophe is always a thousands marker;
//   - with both '.' and ',' present, whichever occurs later is the decimal
//     separator and the other is deleted;
//   - a lone ',' is decimal only when exactly two digits follow it;
//   - a lone '.' is kept as the decimal separator.
func ParseAmount(text string) (decimal.Decimal, bool) {
	s := text
	for _, sym := range currencySymbols {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = currencyCodeRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastDot > lastComma {
			s = strings.ReplaceAll(s, ",", "")
			s = strings.ReplaceAll(s, "'", "")
		} else {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, "'", "")
			// Deleting dots shifted positions; earlier commas were
			// thousands markers, the last one is the decimal point.
			last := strings.LastIndex(s, ",")
			s = strings.ReplaceAll(s[:last], ",", "") + "." + s[last+1:]
		}
	case lastComma >= 0:
		if commaIsDecimal(s, lastComma) {
			s = strings.ReplaceAll(s[:lastComma], ",", "") + "." + s[lastComma+1:]
		} else {
			s = strings.ReplaceAll(s, ",", "")
			s = strings.ReplaceAll(s, "'", "")
		}
	default:
		s = strings.ReplaceAll(s, "'", "")
	}

	s = keepNumericRunes(s)
	if s == "" {
		return decimal.Decimal{}, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// commaIsDecimal reports whether the comma at position idx should be read as
// a decimal separator: exactly two digits follow it.
func commaIsDecimal(s string, idx int) bool {
	rest := s[idx+1:]
	digits := 0
	for _, r := range rest {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits == 2 && len(rest) == 2
}

// keepNumericRunes drops everything except digits, '.', and '-'.
func keepNumericRunes(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ContainsCurrencyMarker reports whether the raw text carries any recognized
// currency symbol or ISO code. The scorer uses this as a strong hint that a
// number is a monetary amount rather than a date or account number.
func ContainsCurrencyMarker(text string) bool {
	for _, sym := range currencySymbols {
		if strings.Contains(text, sym) {
			return true
		}
	}
	return currencyCodeRe.MatchString(text)
}
