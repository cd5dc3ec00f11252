// Package sqlite provides read-only access to the trading bot's SQLite
// store. The bot process is the sole writer; this package must never take
// a write lock or block it, so every connection is opened with mode=ro
// and a bounded busy timeout.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"sniper-telemetry/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// Reader is a short-lived read-only handle on the bot's store. The gateway
// opens one per request and closes it before the response is sent.
type Reader struct {
	db *sql.DB
}

// Open opens the store at path strictly read-only. The busy timeout bounds
// waits when the bot holds the write lock mid-transaction.
func Open(path string) (*Reader, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open %s: %w", path, err)
	}
	// One request, one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return &Reader{db: db}, nil
}

// Stats runs the combined aggregate query for the stats summary. Sums and
// averages over zero closed positions COALESCE to 0 in SQL, so the scan
// never sees NULL and never produces NaN.
func (r *Reader) Stats(ctx context.Context) (model.StatsRow, error) {
	var row model.StatsRow
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM trades) AS total_trades,
			(SELECT COUNT(*) FROM positions WHERE exit_time IS NULL) AS open_positions,
			(SELECT COUNT(*) FROM positions WHERE exit_time IS NOT NULL) AS closed_positions,
			(SELECT COUNT(*) FROM positions WHERE exit_time IS NOT NULL AND COALESCE(pnl_sol, 0) > 0) AS wins,
			(SELECT COUNT(*) FROM positions WHERE exit_time IS NOT NULL AND COALESCE(pnl_sol, 0) <= 0) AS losses,
			(SELECT COALESCE(SUM(COALESCE(pnl_sol, 0)), 0) FROM positions WHERE exit_time IS NOT NULL) AS total_pnl_sol,
			(SELECT COALESCE(AVG(pnl_percent), 0) FROM positions WHERE exit_time IS NOT NULL) AS avg_pnl_pct,
			(SELECT COALESCE(AVG(hold_duration_secs), 0) FROM positions WHERE exit_time IS NOT NULL) AS avg_hold_secs,
			(SELECT COALESCE(AVG(holder_count_entry), 0) FROM positions WHERE exit_time IS NOT NULL) AS avg_entry_holders,
			(SELECT COALESCE(AVG(holder_count_exit), 0) FROM positions WHERE exit_time IS NOT NULL) AS avg_exit_holders
	`).Scan(
		&row.TotalTrades,
		&row.OpenPositions,
		&row.ClosedPositions,
		&row.Wins,
		&row.Losses,
		&row.TotalPnLSOL,
		&row.AvgPnLPct,
		&row.AvgHoldSecs,
		&row.AvgEntryHolders,
		&row.AvgExitHolders,
	)
	if err != nil {
		return model.StatsRow{}, fmt.Errorf("sqlite query stats: %w", err)
	}
	return row, nil
}

// ClosedPositions returns the most recently closed positions, newest exit
// first. The limit is pushed into the query so the store is never scanned
// past the display bound.
func (r *Reader) ClosedPositions(ctx context.Context, limit int) ([]model.Position, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT mint, entry_time, entry_sol, tokens, exit_time, pnl_sol, pnl_percent,
		       hold_duration_secs, holder_count_entry, holder_count_exit, exit_reason, status
		FROM positions
		WHERE exit_time IS NOT NULL
		ORDER BY exit_time DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite query closed positions: %w", err)
	}
	defer rows.Close()
	return scanPositions(rows)
}

// ActivePositions returns still-open positions with their live unrealized
// P&L, newest entry first.
func (r *Reader) ActivePositions(ctx context.Context, limit int) ([]model.Position, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT mint, entry_time, entry_sol, tokens, exit_time, pnl_sol, pnl_percent,
		       hold_duration_secs, holder_count_entry, holder_count_exit, exit_reason, status
		FROM positions
		WHERE exit_time IS NULL
		ORDER BY entry_time DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite query active positions: %w", err)
	}
	defer rows.Close()
	return scanPositions(rows)
}

func scanPositions(rows *sql.Rows) ([]model.Position, error) {
	var out []model.Position
	for rows.Next() {
		var p model.Position
		if err := rows.Scan(
			&p.Mint,
			&p.EntryTime,
			&p.EntrySOL,
			&p.Tokens,
			&p.ExitTime,
			&p.PnLSOL,
			&p.PnLPercent,
			&p.HoldSecs,
			&p.EntryHolders,
			&p.ExitHolders,
			&p.ExitReason,
			&p.Status,
		); err != nil {
			return nil, fmt.Errorf("sqlite scan position: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// RecentTrades returns the newest trades by fill time (microseconds).
func (r *Reader) RecentTrades(ctx context.Context, limit int) ([]model.Trade, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT trade_type, mint, price, sol_amount, tokens, timestamp_micros
		FROM trades
		ORDER BY timestamp_micros DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite query trades: %w", err)
	}
	defer rows.Close()

	var out []model.Trade
	for rows.Next() {
		var t model.Trade
		if err := rows.Scan(&t.Type, &t.Mint, &t.Price, &t.SOLAmount, &t.Tokens, &t.TimestampMicros); err != nil {
			return nil, fmt.Errorf("sqlite scan trade: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// RecentDecisions returns the newest strategy decisions.
func (r *Reader) RecentDecisions(ctx context.Context, limit int) ([]model.Decision, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT mint, action, confidence, reasoning, timestamp
		FROM ai_decisions
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite query ai_decisions: %w", err)
	}
	defer rows.Close()

	var out []model.Decision
	for rows.Next() {
		var d model.Decision
		if err := rows.Scan(&d.Mint, &d.Action, &d.Confidence, &d.Reasoning, &d.Timestamp); err != nil {
			return nil, fmt.Errorf("sqlite scan decision: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Close releases the connection. Safe to defer immediately after Open.
func (r *Reader) Close() error {
	return r.db.Close()
}
