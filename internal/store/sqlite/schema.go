package sqlite

// Schema documents the store shape the trading bot writes. This service
// never runs it against the live store (the store is opened read-only);
// it exists so tests can build fixture stores that match the bot's layout.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	trade_type       TEXT NOT NULL,
	mint             TEXT NOT NULL,
	price            REAL,
	sol_amount       REAL,
	tokens           REAL,
	timestamp_micros INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trades_timestamp ON trades(timestamp_micros);

CREATE TABLE IF NOT EXISTS positions (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	mint               TEXT NOT NULL,
	entry_time         INTEGER NOT NULL,
	entry_sol          REAL NOT NULL,
	tokens             REAL NOT NULL DEFAULT 0,
	exit_time          INTEGER,
	pnl_sol            REAL,
	pnl_percent        REAL,
	hold_duration_secs INTEGER,
	holder_count_entry INTEGER,
	holder_count_exit  INTEGER,
	exit_reason        TEXT,
	status             TEXT NOT NULL DEFAULT 'active'
);
CREATE INDEX IF NOT EXISTS idx_positions_exit_time ON positions(exit_time);
CREATE INDEX IF NOT EXISTS idx_positions_entry_time ON positions(entry_time);

CREATE TABLE IF NOT EXISTS ai_decisions (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	mint       TEXT NOT NULL,
	action     TEXT NOT NULL,
	confidence REAL NOT NULL,
	reasoning  TEXT NOT NULL,
	timestamp  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_decisions_timestamp ON ai_decisions(timestamp);
`
