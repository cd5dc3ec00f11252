package model

// Decision represents one row of the bot-written ai_decisions table:
// a strategy-engine verdict for a single mint. Immutable once written.
type Decision struct {
	Mint       string
	Action     string  // e.g. "Hold", "Sell", "AdjustStop(...)"
	Confidence float64 // [0,1]
	Reasoning  string
	Timestamp  int64 // seconds
}

// StatsRow holds the raw aggregate counters for the stats summary, scanned
// from a single combined query. Each field reflects that one query's
// point-in-time view of the store.
type StatsRow struct {
	TotalTrades     int64
	OpenPositions   int64
	ClosedPositions int64
	Wins            int64
	Losses          int64
	TotalPnLSOL     float64
	AvgPnLPct       float64
	AvgHoldSecs     float64
	AvgEntryHolders float64
	AvgExitHolders  float64
}
