// Package handler provides Telegram bot command handlers.
package handler

import (
	"errors"
	"strconv"
	"strings"
)

var errBadAmount = errors.New("invalid amount")

// parseAmount parses a user-supplied bet amount. Accepts plain digits
// and the shorthand suffix "k" for thousands, e.g. "50k" = 50000.
func parseAmount(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	multiplier := int64(1)
	if strings.HasSuffix(s, "k") {
		multiplier = 1000
		s = strings.TrimSuffix(s, "k")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, errBadAmount
	}
	return n * multiplier, nil
}

// formatAmount renders an amount with thousands separators,
// e.g. 1000000 -> "1.000.000".
func formatAmount(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
