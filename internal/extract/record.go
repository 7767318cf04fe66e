package extract

import "strings"

// RawRecord models one spreadsheet row as an open string-keyed map with
// permissive lookup semantics: a missing column resolves to the empty string,
// never an error. Keys are the column headers, trimmed and lower-cased at
// load time, so lookups use the normalized form ("nome inqs", "cpf_pps"...).
type RawRecord map[string]string

// Get returns the trimmed cell value for the normalized column name, or ""
// when the column is absent or blank.
func (r RawRecord) Get(key string) string {
	return strings.TrimSpace(r[key])
}

// Has reports whether the column exists and is non-blank.
func (r RawRecord) Has(key string) bool {
	return r.Get(key) != ""
}

// splitSeparators are the accepted delimiters for multi-valued cells like
// "Fulano de Tal, Beltrana de Tal".
func isSeparator(r rune) bool {
	return r == ',' || r == ';' || r == '|'
}

// SplitValues splits a multi-valued cell on comma, semicolon or pipe,
// trimming whitespace and discarding empty fragments, preserving order.
func SplitValues(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.FieldsFunc(s, isSeparator) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// valueAt returns values[i] when present, otherwise the fallback for the
// position: the first value when reuseFirst is set, else "".
func valueAt(values []string, i int, reuseFirst bool) string {
	if i < len(values) {
		return values[i]
	}
	if reuseFirst && len(values) > 0 {
		return values[0]
	}
	return ""
}
