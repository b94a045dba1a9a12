// Package derive computes day-over-day metrics from already-parsed source
// payloads. Everything here is a pure function; no derivation ever refetches.
package derive

import "math"

// sharesPerLot is one board lot, the customary trading-size unit.
const sharesPerLot = 1000

// ChangePercent returns (close-prevClose)/prevClose*100, or nil when the
// prior close is unknown or zero.
func ChangePercent(close, prevClose float64) *float64 {
	if prevClose == 0 {
		return nil
	}
	pct := (close - prevClose) / prevClose * 100
	return &pct
}

// ChangePercentFromChange derives the percent move when the source reports
// the change directly instead of the prior close.
func ChangePercentFromChange(close, change float64) *float64 {
	return ChangePercent(close, close-change)
}

// NetLotsFromShares converts a net share count to board lots, rounded to
// nearest.
func NetLotsFromShares(netShares int64) int64 {
	return int64(math.Round(float64(netShares) / sharesPerLot))
}

// NetShares resolves the net figure: the directly reported net when the
// source carries one, otherwise buy minus sell.
func NetShares(buy, sell int64, reported *int64) int64 {
	if reported != nil {
		return *reported
	}
	return buy - sell
}
