package config

import (
	"regexp"
	"strconv"
	"time"
)

// DefaultRefreshExpiry is used whenever an expiry string cannot be parsed.
const DefaultRefreshExpiry = 7 * 24 * time.Hour

var expiryPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

// ParseExpiry parses a duration string of the form "<integer><unit>" where
// the unit is one of s, m, h or d. On unparseable input it returns
// DefaultRefreshExpiry and usedFallback=true rather than an error, so that
// token issuance can never fail because of a bad expiry setting.
func ParseExpiry(s string) (d time.Duration, usedFallback bool) {
	m := expiryPattern.FindStringSubmatch(s)
	if m == nil {
		return DefaultRefreshExpiry, true
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		// Digits only, so this can only be an out-of-range value.
		return DefaultRefreshExpiry, true
	}

	switch m[2] {
	case "s":
		return time.Duration(n) * time.Second, false
	case "m":
		return time.Duration(n) * time.Minute, false
	case "h":
		return time.Duration(n) * time.Hour, false
	case "d":
		return time.Duration(n) * 24 * time.Hour, false
	}
	return DefaultRefreshExpiry, true
}
