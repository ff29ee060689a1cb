package oracle

import (
	"fmt"
	"strings"

	"github.com/dyike/ChartPilotGo/internal/models"
)

const systemPrompt = `You are an expert multi-timeframe technical analyst.
You receive three chart images of the same instrument, ordered from the
highest timeframe down to the scalp timeframe, plus their numeric context.
Build a top-down directional view: trend and structure on the higher
timeframes, entry timing on the scalp timeframe.

Respond ONLY with valid JSON in this exact shape:
{
  "action": "BUY" or "SELL" or "WAIT",
  "order_type": "MARKET" or "LIMIT",
  "entry_price": number,
  "stop_loss": number,
  "take_profit_1": number,
  "take_profit_2": number,
  "confidence_score": 0-100,
  "risk_reward_ratio": number,
  "reasoning": "brief explanation"
}

Rules:
- confidence_score is your confluence measure across all three timeframes
- Only answer BUY or SELL when the timeframes agree; otherwise WAIT
- stop_loss and take_profit levels must be realistic for the scalp timeframe
- Be decisive: WAIT is a valid call, a forced trade is not`

// buildUserContext assembles the numeric half of the oracle request. The
// images are attached as separate message parts.
func buildUserContext(snapshots []*models.MarketSnapshot, headlines []string, skipGrounding bool) string {
	var sb strings.Builder

	for _, snap := range snapshots {
		sb.WriteString(fmt.Sprintf("Timeframe %s (%s), current price %.5f\n", snap.Timeframe, snap.Symbol, snap.CurrentPrice))
		sb.WriteString("Recent bars (most recent last):\n")
		for _, b := range snap.RecentBars {
			sb.WriteString(fmt.Sprintf("  O=%.5f H=%.5f L=%.5f C=%.5f\n", b.Open, b.High, b.Low, b.Close))
		}
		sb.WriteString("\n")
	}

	if len(headlines) > 0 {
		sb.WriteString("Recent headlines for context:\n")
		for _, h := range headlines {
			sb.WriteString("  - " + h + "\n")
		}
		sb.WriteString("\n")
	}

	if skipGrounding {
		sb.WriteString("High-frequency cycle: skip external search/grounding verification and answer from the charts alone.\n")
	}

	sb.WriteString("Provide your recommendation as JSON.")
	return sb.String()
}
