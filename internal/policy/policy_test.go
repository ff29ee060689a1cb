package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dyike/ChartPilotGo/internal/models"
)

func TestDecide(t *testing.T) {
	cases := []struct {
		name          string
		action        models.SignalAction
		confidence    float64
		minConfidence float64
		want          Decision
	}{
		{"wait_beats_high_confidence", models.ActionWait, 99, 50, RejectWait},
		{"buy_above_floor", models.ActionBuy, 80, 75, Execute},
		{"sell_below_floor", models.ActionSell, 60, 75, RejectLowConfidence},
		{"exactly_at_floor", models.ActionBuy, 75, 75, Execute},
		{"zero_confidence", models.ActionSell, 0, 1, RejectLowConfidence},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Decide(models.TradeSignal{
				Action:          tc.action,
				ConfidenceScore: tc.confidence,
			}, tc.minConfidence)
			assert.Equal(t, tc.want, got)
		})
	}
}
