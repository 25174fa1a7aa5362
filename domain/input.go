package domain

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseCount turns free-form field text into a count. Every non-digit is
// dropped, so "3a2" is 32 and "-5" is 5. Empty input and anything that does
// not fit an int64 (including non-ASCII digits) give 0.
func ParseCount(raw string) int64 {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, raw)
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
