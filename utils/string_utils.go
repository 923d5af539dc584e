package utils

import "strings"

// NormalizeStockCode extracts the canonical join key from a raw stock code: the
// first run of ASCII digits. Suffix segments are dropped, so "100-5" and "100"
// both yield "100". A code with no digits yields "".
func NormalizeStockCode(raw string) string {
	start := strings.IndexFunc(raw, isDigit)
	if start < 0 {
		return ""
	}
	end := start
	for end < len(raw) && isDigit(rune(raw[end])) {
		end++
	}
	return raw[start:end]
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// PointerToString dereferences p, returning fallback for nil.
func PointerToString(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
