package csvparse

import (
	"strings"

	"github.com/biter777/countries"
)

// IsValidCountryCode reports whether s is an ISO 3166-1 alpha-2 country
// code, regardless of casing ("us" and "US" are both valid).
func IsValidCountryCode(s string) bool {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 2 {
		return false
	}
	return countries.ByName(s) != countries.Unknown
}
