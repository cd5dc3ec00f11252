package model

import "database/sql"

// Position represents one row of the bot-written positions table.
// A position is open while exit_time is NULL and transitions to closed
// exactly once when the bot records the exit. While open, the P&L columns
// hold live unrealized values the bot overwrites on each price update.
//
// Entry and exit times are seconds since epoch (unlike trades, which the
// bot records in microseconds).
type Position struct {
	Mint         string
	EntryTime    int64   // seconds
	EntrySOL     float64 // SOL invested at entry
	Tokens       float64
	ExitTime     sql.NullInt64 // seconds; NULL while open
	PnLSOL       sql.NullFloat64
	PnLPercent   sql.NullFloat64
	HoldSecs     sql.NullInt64
	EntryHolders sql.NullInt64
	ExitHolders  sql.NullInt64
	ExitReason   sql.NullString
	Status       string // denormalized by some bot variants; exit_time is canonical
}

// Closed reports whether the position has recorded its exit event.
func (p *Position) Closed() bool {
	return p.ExitTime.Valid
}
