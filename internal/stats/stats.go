// Package stats turns the raw aggregate row from the store into the
// dashboard's summary figures, with null-safe defaults: an empty store or
// a store with no closed positions produces all-zero figures, never NaN
// and never a division by zero.
package stats

import "sniper-telemetry/internal/model"

// Summary is the /api/stats response body.
type Summary struct {
	TotalTrades     int     `json:"total_trades"`
	OpenPositions   int     `json:"open_positions"`
	ClosedPositions int     `json:"closed_positions"`
	Wins            int     `json:"wins"`
	Losses          int     `json:"losses"`
	WinRatePct      float64 `json:"win_rate_pct"`
	TotalPnLSOL     float64 `json:"total_pnl_sol"`
	AvgPnLPct       float64 `json:"avg_pnl_pct"`
	AvgHoldSecs     float64 `json:"avg_hold_secs"`
	AvgEntryHolders float64 `json:"avg_entry_holders"`
	AvgExitHolders  float64 `json:"avg_exit_holders"`
}

// Summarize derives the summary from one aggregate row. Wins and losses
// partition the closed set exactly (a closed position with zero or missing
// P&L counts as a loss), so wins+losses == closed always holds.
func Summarize(row model.StatsRow) Summary {
	s := Summary{
		TotalTrades:     int(row.TotalTrades),
		OpenPositions:   int(row.OpenPositions),
		ClosedPositions: int(row.ClosedPositions),
		Wins:            int(row.Wins),
		Losses:          int(row.Losses),
		TotalPnLSOL:     row.TotalPnLSOL,
		AvgPnLPct:       row.AvgPnLPct,
		AvgHoldSecs:     row.AvgHoldSecs,
		AvgEntryHolders: row.AvgEntryHolders,
		AvgExitHolders:  row.AvgExitHolders,
	}
	if row.ClosedPositions > 0 {
		s.WinRatePct = float64(row.Wins) / float64(row.ClosedPositions) * 100
	}
	return s
}
