// Package numeric extracts locale-formatted numeric tokens out of arbitrary
// report text. Upstream dumps mix thousands separators, explicit signs and
// surrounding labels; every parser in this module goes through these helpers
// so that "no value" is always distinguishable from zero.
package numeric

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	intPattern   = regexp.MustCompile(`-?\d+`)
	floatPattern = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?`)
)

// Int extracts the first signed integer from s, ignoring thousands separators
// and surrounding text. The second return is false when s carries no digit
// sequence at all; malformed input never panics.
func Int(s string) (int64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	m := intPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Float extracts the first signed decimal number from s. Signs may be
// explicit ("+20.00", "-5.00"); absence of any number returns false, never 0.
func Float(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	m := floatPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// IntOr extracts an integer or falls back to def.
func IntOr(s string, def int64) int64 {
	if v, ok := Int(s); ok {
		return v
	}
	return def
}

// FloatOr extracts a float or falls back to def.
func FloatOr(s string, def float64) float64 {
	if v, ok := Float(s); ok {
		return v
	}
	return def
}
