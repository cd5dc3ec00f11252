package display

import "sniper-telemetry/internal/model"

// ClosedPositionOut is the /api/positions response element.
type ClosedPositionOut struct {
	Mint         string  `json:"mint"`
	PnLPct       float64 `json:"pnl_pct"`
	PnLSOL       float64 `json:"pnl_sol"`
	HoldSecs     int64   `json:"hold_secs"`
	EntryHolders int64   `json:"entry_holders"`
	ExitHolders  int64   `json:"exit_holders"`
	ExitReason   string  `json:"exit_reason"`
}

// ActivePositionOut is the /api/positions/active response element. It keeps
// the untruncated mint so the dashboard can issue follow-up actions
// (e.g. a manual sell) against the real address.
type ActivePositionOut struct {
	Mint         string  `json:"mint"`
	FullMint     string  `json:"full_mint"`
	EntrySOL     float64 `json:"entry_sol"`
	EntryTime    string  `json:"entry_time"`
	Tokens       int64   `json:"tokens"`
	PnLSOL       float64 `json:"pnl_sol"`
	PnLPercent   float64 `json:"pnl_percent"`
	CurrentValue float64 `json:"current_value"`
}

// TradeOut is the /api/recent-trades response element.
type TradeOut struct {
	Type  string  `json:"type"`
	Mint  string  `json:"mint"`
	Price float64 `json:"price"`
	SOL   float64 `json:"sol"`
	Time  string  `json:"time"`
}

// DecisionOut is the /api/ai-stream response element.
type DecisionOut struct {
	Mint       string  `json:"mint"`
	Action     string  `json:"action"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
	Time       string  `json:"time"`
}

// ClosedPosition projects a closed position row. Missing numerics become 0;
// a missing exit reason becomes the literal "unknown" (absence is
// meaningful there, not a zero).
func ClosedPosition(p model.Position) ClosedPositionOut {
	out := ClosedPositionOut{
		Mint:         TruncateMint(p.Mint),
		PnLPct:       Round1(p.PnLPercent.Float64),
		PnLSOL:       Round3(p.PnLSOL.Float64),
		HoldSecs:     p.HoldSecs.Int64,
		EntryHolders: p.EntryHolders.Int64,
		ExitHolders:  p.ExitHolders.Int64,
		ExitReason:   "unknown",
	}
	if p.ExitReason.Valid && p.ExitReason.String != "" {
		out.ExitReason = p.ExitReason.String
	}
	return out
}

// ActivePosition projects an open position row with its live unrealized
// P&L. current_value is derived here, never stored.
func ActivePosition(p model.Position) ActivePositionOut {
	pnl := p.PnLSOL.Float64 // 0 when the bot has not priced the position yet
	return ActivePositionOut{
		Mint:         TruncateMintFull(p.Mint),
		FullMint:     p.Mint,
		EntrySOL:     Round3(p.EntrySOL),
		EntryTime:    Clock(p.EntryTime),
		Tokens:       int64(p.Tokens),
		PnLSOL:       Round3(pnl),
		PnLPercent:   Round1(p.PnLPercent.Float64),
		CurrentValue: Round3(p.EntrySOL + pnl),
	}
}

// Trade projects a trade row.
func Trade(t model.Trade) TradeOut {
	return TradeOut{
		Type:  t.Type,
		Mint:  TruncateMint(t.Mint),
		Price: t.Price.Float64,
		SOL:   Round3(t.SOLAmount.Float64),
		Time:  StampMicros(t.TimestampMicros),
	}
}

// Decision projects an ai_decisions row.
func Decision(d model.Decision) DecisionOut {
	return DecisionOut{
		Mint:       TruncateMint(d.Mint),
		Action:     d.Action,
		Confidence: Round2(d.Confidence),
		Reasoning:  d.Reasoning,
		Time:       Clock(d.Timestamp),
	}
}

// ClosedPositions projects a slice, preserving order. The result is never
// nil so an empty slice still encodes as [] rather than null.
func ClosedPositions(rows []model.Position) []ClosedPositionOut {
	out := make([]ClosedPositionOut, 0, len(rows))
	for _, p := range rows {
		out = append(out, ClosedPosition(p))
	}
	return out
}

// ActivePositions projects a slice, preserving order.
func ActivePositions(rows []model.Position) []ActivePositionOut {
	out := make([]ActivePositionOut, 0, len(rows))
	for _, p := range rows {
		out = append(out, ActivePosition(p))
	}
	return out
}

// Trades projects a slice, preserving order.
func Trades(rows []model.Trade) []TradeOut {
	out := make([]TradeOut, 0, len(rows))
	for _, t := range rows {
		out = append(out, Trade(t))
	}
	return out
}

// Decisions projects a slice, preserving order.
func Decisions(rows []model.Decision) []DecisionOut {
	out := make([]DecisionOut, 0, len(rows))
	for _, d := range rows {
		out = append(out, Decision(d))
	}
	return out
}
