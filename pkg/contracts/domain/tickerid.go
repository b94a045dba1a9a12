package domain

import "regexp"

// tickerIDPattern matches normalized Taiwan security codes: 4 to 6 ASCII digits.
var tickerIDPattern = regexp.MustCompile(`^[0-9]{4,6}$`)

// TickerID is a normalized security code. Anything that does not match the
// 4-6 digit pattern is rejected before it is ever used as a lookup key.
type TickerID string

// ParseTickerID validates and normalizes a raw user-supplied code.
func ParseTickerID(s string) (TickerID, bool) {
	if !tickerIDPattern.MatchString(s) {
		return "", false
	}
	return TickerID(s), true
}

// Valid reports whether the ID matches the security code pattern.
func (t TickerID) Valid() bool {
	return tickerIDPattern.MatchString(string(t))
}

func (t TickerID) String() string {
	return string(t)
}
