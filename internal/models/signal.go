package models

// SignalAction is the oracle's directional call.
type SignalAction string

const (
	ActionBuy  SignalAction = "BUY"
	ActionSell SignalAction = "SELL"
	ActionWait SignalAction = "WAIT"
)

// TradeSignal is the structured recommendation returned by the analysis
// oracle. It is untrusted external input: every numeric field must be
// validated and defaulted before it reaches the policy or the ledger.
type TradeSignal struct {
	Action          SignalAction `json:"action"`
	OrderType       string       `json:"order_type"`
	EntryPrice      float64      `json:"entry_price"`
	StopLoss        float64      `json:"stop_loss"`
	TakeProfit1     float64      `json:"take_profit_1"`
	TakeProfit2     float64      `json:"take_profit_2"`
	ConfidenceScore float64      `json:"confidence_score"` // 0..100
	RiskRewardRatio float64      `json:"risk_reward_ratio"`
	Reasoning       string       `json:"reasoning"`
}
