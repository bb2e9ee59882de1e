package utils

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// FCurrency formats n with thousands separators and two decimals.
func FCurrency(n float64) string {
	if n == 0 {
		return "0"
	}

	rounded := math.Round(n*100) / 100
	return humanize.CommafWithDigits(rounded, 2)
}

func StrEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// FirstForwardedFor returns the first address of an X-Forwarded-For header.
func FirstForwardedFor(header string) string {
	first, _, _ := strings.Cut(header, ",")
	return strings.TrimSpace(first)
}
