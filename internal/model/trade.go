package model

import "database/sql"

// Trade represents one row of the bot-written trades table.
// Trades are append-only: once written they are never mutated.
// Timestamps are microseconds since epoch (the bot records fills at
// microsecond resolution).
type Trade struct {
	Type            string          // "buy" or "sell"
	Mint            string          // instrument mint address
	Price           sql.NullFloat64 // SOL per token
	SOLAmount       sql.NullFloat64
	Tokens          sql.NullFloat64
	TimestampMicros int64
}
