package utils

import (
	"strings"
	"unicode"
)

// NormalizeVehicleNumber upper-cases a registration number and drops spaces,
// dots and dashes so "ka 01-ab 1234" and "KA01AB1234" are stored alike.
func NormalizeVehicleNumber(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(raw)) {
		if unicode.IsSpace(r) || r == '-' || r == '.' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
