package models

import "time"

// PositionStatus tracks a position's lifecycle inside the ledger.
type PositionStatus string

const (
	PositionOpen   PositionStatus = "OPEN"
	PositionClosed PositionStatus = "CLOSED"
)

// CloseReason records why a position left the open set.
type CloseReason string

const (
	CloseTakeProfit CloseReason = "TP"
	CloseStopLoss   CloseReason = "SL"
	CloseManual     CloseReason = "MANUAL"
)

// TradePosition is a simulated open trade. Created by the ledger on open,
// mutated only by the ledger's mark-to-market tick or an explicit close.
type TradePosition struct {
	ID           string         `json:"id"`
	Ticket       string         `json:"ticket"`
	Asset        string         `json:"asset"`
	Side         SignalAction   `json:"side"` // BUY or SELL
	EntryPrice   float64        `json:"entry_price"`
	CurrentPrice float64        `json:"current_price"`
	StopLoss     float64        `json:"stop_loss"`
	TakeProfit   float64        `json:"take_profit"`
	Lots         float64        `json:"lots"`
	OpenTime     time.Time      `json:"open_time"`
	PnL          float64        `json:"pnl"`
	Status       PositionStatus `json:"status"`
	CloseReason  CloseReason    `json:"close_reason,omitempty"`
}

// AccountState is the ledger's full bookkeeping snapshot.
// Invariants: Equity == Balance + sum of open position PnL;
// FreeMargin == Equity - MarginUsed.
type AccountState struct {
	Balance    float64         `json:"balance"`
	Equity     float64         `json:"equity"`
	MarginUsed float64         `json:"margin_used"`
	FreeMargin float64         `json:"free_margin"`
	Positions  []TradePosition `json:"positions"`
}
