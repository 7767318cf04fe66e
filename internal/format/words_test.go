package format

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{name: "zero", in: "0", expected: "zero reais"},
		{name: "one", in: "1", expected: "um real"},
		{name: "two", in: "2", expected: "dois reais"},
		{name: "teens", in: "15", expected: "quinze reais"},
		{name: "tens", in: "42", expected: "quarenta e dois reais"},
		{name: "exact hundred", in: "100", expected: "cem reais"},
		{name: "hundred and one", in: "101", expected: "cento e um reais"},
		{name: "hundreds", in: "765", expected: "setecentos e sessenta e cinco reais"},
		{name: "exact thousand", in: "1000", expected: "mil reais"},
		{name: "thousand and change", in: "1234", expected: "mil e duzentos e trinta e quatro reais"},
		{name: "thousands", in: "45000", expected: "quarenta e cinco mil reais"},
		{name: "one million", in: "1000000", expected: "um milhão de reais"},
		{name: "two million", in: "2000000", expected: "dois milhões de reais"},
		{name: "million and one", in: "1000001", expected: "um milhão e um reais"},
		{name: "full magnitude", in: "999999999", expected: "novecentos e noventa e nove milhões e novecentos e noventa e nove mil e novecentos e noventa e nove reais"},
		{name: "cents only", in: "0.50", expected: "cinquenta centavos"},
		{name: "one cent", in: "0.01", expected: "um centavo"},
		{name: "real and cents", in: "1.50", expected: "um real e cinquenta centavos"},
		{name: "reais and cents", in: "200.35", expected: "duzentos reais e trinta e cinco centavos"},
		{name: "max tested magnitude", in: "999999999.99", expected: "novecentos e noventa e nove milhões e novecentos e noventa e nove mil e novecentos e noventa e nove reais e noventa e nove centavos"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := decimal.RequireFromString(tt.in)
			if got := AmountInWords(v); got != tt.expected {
				t.Errorf("AmountInWords(%s) = %q, expected %q", tt.in, got, tt.expected)
			}
		})
	}
}

func TestAmountInWords_Rounding(t *testing.T) {
	// Values carry spreadsheet float noise; the formatter rounds to cents.
	v := decimal.RequireFromString("1.499999")
	if got, want := AmountInWords(v), "um real e cinquenta centavos"; got != want {
		t.Errorf("AmountInWords(1.499999) = %q, expected %q", got, want)
	}
}
