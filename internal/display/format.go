// Package display projects raw store records into the display-safe shapes
// the dashboard renders: truncated mint addresses, fixed-precision numbers
// and locale-independent clock strings.
package display

import (
	"math"
	"time"
)

const mintPrefixLen = 8

// TruncateMint shortens a mint address to its first 8 characters plus an
// ellipsis marker. For any mint of at least 8 characters the result has a
// fixed length regardless of the input length; shorter values pass through
// untouched.
func TruncateMint(mint string) string {
	if len(mint) < mintPrefixLen {
		return mint
	}
	return mint[:mintPrefixLen] + "..."
}

// TruncateMintFull is the detail variant: first 8 plus last 8 characters,
// used where the dashboard shows enough of the mint to eyeball-match it.
func TruncateMintFull(mint string) string {
	if len(mint) <= 2*mintPrefixLen {
		return mint
	}
	return mint[:mintPrefixLen] + "..." + mint[len(mint)-mintPrefixLen:]
}

// Round3 rounds SOL-denominated amounts to 3 decimals.
func Round3(v float64) float64 { return roundTo(v, 1000) }

// Round2 rounds confidence scores to 2 decimals.
func Round2(v float64) float64 { return roundTo(v, 100) }

// Round1 rounds percentages to 1 decimal.
func Round1(v float64) float64 { return roundTo(v, 10) }

func roundTo(v, scale float64) float64 {
	return math.Round(v*scale) / scale
}

// Clock formats a seconds-since-epoch timestamp as HH:MM:SS (UTC).
// Positions and decisions store seconds; do not feed it microseconds.
func Clock(secs int64) string {
	return time.Unix(secs, 0).UTC().Format("15:04:05")
}

// StampMicros formats a microseconds-since-epoch timestamp as a full
// date-time (UTC). Trades store microseconds; do not feed it seconds.
func StampMicros(us int64) string {
	return time.UnixMicro(us).UTC().Format("2006-01-02 15:04:05")
}
