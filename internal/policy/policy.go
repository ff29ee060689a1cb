// Package policy holds the pure execution gating decision applied to every
// oracle signal before it can move money.
package policy

import "github.com/dyike/ChartPilotGo/internal/models"

// Decision is the outcome of gating a signal.
type Decision string

const (
	Execute             Decision = "EXECUTE"
	RejectWait          Decision = "REJECT_WAIT"
	RejectLowConfidence Decision = "REJECT_LOW_CONFIDENCE"
)

// Decide gates a signal against the configured confidence floor.
// WAIT signals are rejected regardless of confidence.
func Decide(signal models.TradeSignal, minConfidence float64) Decision {
	if signal.Action == models.ActionWait {
		return RejectWait
	}
	if signal.ConfidenceScore >= minConfidence {
		return Execute
	}
	return RejectLowConfidence
}
