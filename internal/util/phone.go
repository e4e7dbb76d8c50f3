package util

import "strings"

// CountryPrefix is prepended to local Cambodian numbers.
const CountryPrefix = "855"

// NormalizePhone rewrites user input into the 855... form the gateway expects.
// No digit or length validation happens here; anything else passes through.
func NormalizePhone(p string) string {
	clean := strings.TrimSpace(p)
	clean = strings.ReplaceAll(clean, "+", "")
	clean = strings.ReplaceAll(clean, " ", "")

	switch {
	case strings.HasPrefix(clean, "0"):
		return CountryPrefix + clean[1:]
	case !strings.HasPrefix(clean, CountryPrefix):
		return CountryPrefix + clean
	default:
		return clean
	}
}
