package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	wordsUnits    = []string{"", "um", "dois", "três", "quatro", "cinco", "seis", "sete", "oito", "nove"}
	wordsTeens    = []string{"dez", "onze", "doze", "treze", "quatorze", "quinze", "dezesseis", "dezessete", "dezoito", "dezenove"}
	wordsTens     = []string{"", "", "vinte", "trinta", "quarenta", "cinquenta", "sessenta", "setenta", "oitenta", "noventa"}
	wordsHundreds = []string{"", "cento", "duzentos", "trezentos", "quatrocentos", "quinhentos", "seiscentos", "setecentos", "oitocentos", "novecentos"}
)

// AmountInWords writes a monetary amount out in Brazilian Portuguese:
// "mil e duzentos e trinta e quatro reais e cinquenta centavos". Exact
// centavo handling through hundreds of millions; zero is "zero reais".
// Round multiples of a million take the "de" connective ("um milhão de
// reais").
func AmountInWords(v decimal.Decimal) string {
	v = v.Round(2)
	intPart := v.IntPart()
	cents := v.Sub(decimal.NewFromInt(intPart)).Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	if intPart == 0 && cents == 0 {
		return "zero reais"
	}

	var groups []string
	n := intPart

	millions := n / 1_000_000
	if millions > 0 {
		if millions == 1 {
			groups = append(groups, "um milhão")
		} else {
			groups = append(groups, upTo999(millions)+" milhões")
		}
		n %= 1_000_000
	}

	thousands := n / 1000
	if thousands > 0 {
		if thousands == 1 {
			groups = append(groups, "mil")
		} else {
			groups = append(groups, upTo999(thousands)+" mil")
		}
		n %= 1000
	}

	if n > 0 {
		groups = append(groups, upTo999(n))
	}

	text := strings.Join(groups, " e ")

	switch {
	case intPart == 1:
		text += " real"
	case millions > 0 && intPart%1_000_000 == 0:
		text += " de reais"
	case intPart > 0:
		text += " reais"
	}

	if cents > 0 {
		if text != "" {
			text += " e "
		}
		text += upTo999(cents)
		if cents == 1 {
			text += " centavo"
		} else {
			text += " centavos"
		}
	}

	return text
}

// upTo999 spells 1..999; "cem" only for exactly 100.
func upTo999(n int64) string {
	if n == 0 {
		return ""
	}
	if n == 100 {
		return "cem"
	}

	var parts []string
	if n >= 100 {
		parts = append(parts, wordsHundreds[n/100])
		n %= 100
	}
	switch {
	case n >= 20:
		parts = append(parts, wordsTens[n/10])
		if n%10 > 0 {
			parts = append(parts, wordsUnits[n%10])
		}
	case n >= 10:
		parts = append(parts, wordsTeens[n-10])
	case n > 0:
		parts = append(parts, wordsUnits[n])
	}
	return strings.Join(parts, " e ")
}
