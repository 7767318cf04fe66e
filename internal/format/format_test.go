package format

import (
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCPF(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{name: "bare digits", in: "12345678901", expected: "123.456.789-01"},
		{name: "already masked", in: "123.456.789-01", expected: "123.456.789-01"},
		{name: "digits with noise", in: " 123 456 789 01 ", expected: "123.456.789-01"},
		{name: "too short passes through", in: "1234567890", expected: "1234567890"},
		{name: "too long passes through", in: "123456789012", expected: "123456789012"},
		{name: "empty", in: "", expected: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CPF(tt.in); got != tt.expected {
				t.Errorf("CPF(%q) = %q, expected %q", tt.in, got, tt.expected)
			}
		})
	}
}

func TestCPF_MaskShape(t *testing.T) {
	shape := regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)
	strip := regexp.MustCompile(`\D`)

	inputs := []string{"00000000000", "98765432109", "111.222.333-44"}
	for _, in := range inputs {
		got := CPF(in)
		if !shape.MatchString(got) {
			t.Errorf("CPF(%q) = %q does not match mask", in, got)
		}
		if strip.ReplaceAllString(got, "") != strip.ReplaceAllString(in, "") {
			t.Errorf("CPF(%q) = %q lost digits", in, got)
		}
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{name: "mobile 11 digits", in: "21969750156", expected: "(21) 96975-0156"},
		{name: "landline 10 digits", in: "2122627979", expected: "(21) 2262-7979"},
		{name: "country code stripped", in: "5521969750156", expected: "(21) 96975-0156"},
		{name: "numeric cell decimal suffix", in: "21969750156.0", expected: "(21) 96975-0156"},
		{name: "formatted input", in: "(21) 96975-0156", expected: "(21) 96975-0156"},
		{name: "too short passes through", in: "1234567", expected: "1234567"},
		{name: "empty", in: "", expected: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Phone(tt.in); got != tt.expected {
				t.Errorf("Phone(%q) = %q, expected %q", tt.in, got, tt.expected)
			}
		})
	}
}

// TestPhone_ShortNumbers pins the observed behavior for 8 and 9 digit inputs:
// an assumed DDD 11 and only the last five digits, no hyphen. This is most
// likely a dataset-specific quirk rather than intentional formatting, but the
// generated filings depend on it staying stable.
func TestPhone_ShortNumbers(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{in: "96975015", expected: "(11) 75015"},
		{in: "969750156", expected: "(11) 50156"},
	}
	for _, tt := range tests {
		if got := Phone(tt.in); got != tt.expected {
			t.Errorf("Phone(%q) = %q, expected %q", tt.in, got, tt.expected)
		}
	}
}

func TestCurrency(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{name: "zero", in: "0", expected: "R$0,00"},
		{name: "cents", in: "0.5", expected: "R$0,50"},
		{name: "plain", in: "1500", expected: "R$1.500,00"},
		{name: "rounding", in: "1234.567", expected: "R$1.234,57"},
		{name: "millions", in: "1234567.89", expected: "R$1.234.567,89"},
		{name: "hundreds of millions", in: "999999999.99", expected: "R$999.999.999,99"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := decimal.RequireFromString(tt.in)
			if got := Currency(v); got != tt.expected {
				t.Errorf("Currency(%s) = %q, expected %q", tt.in, got, tt.expected)
			}
		})
	}
}

func TestCurrency_RoundTrip(t *testing.T) {
	values := []string{"0", "0.01", "1", "999.99", "1000", "123456.78", "999999999.99"}
	for _, raw := range values {
		v := decimal.RequireFromString(raw)
		got := Currency(v)

		// Undo the locale separators and parse back.
		s := got[len("R$"):]
		s = regexp.MustCompile(`\.`).ReplaceAllString(s, "")
		s = regexp.MustCompile(`,`).ReplaceAllString(s, ".")
		back := decimal.RequireFromString(s)

		if !back.Equal(v.Round(2)) {
			t.Errorf("Currency(%s) = %q parses back to %s", raw, got, back)
		}
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		name     string
		in       time.Time
		expected string
	}{
		{name: "single digit day", in: time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC), expected: "2 de janeiro de 2026"},
		{name: "march accent", in: time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC), expected: "31 de março de 2025"},
		{name: "december", in: time.Date(2024, time.December, 25, 0, 0, 0, 0, time.UTC), expected: "25 de dezembro de 2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Date(tt.in); got != tt.expected {
				t.Errorf("Date(%v) = %q, expected %q", tt.in, got, tt.expected)
			}
		})
	}
}

func TestDate_ZeroMeansToday(t *testing.T) {
	now := time.Now()
	if got, want := Date(time.Time{}), Date(now); got != want {
		t.Errorf("Date(zero) = %q, expected today %q", got, want)
	}
}
