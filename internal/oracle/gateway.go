// Package oracle invokes the external vision/reasoning service with the
// captured chart snapshots and normalizes its structured recommendation.
package oracle

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/dyike/ChartPilotGo/internal/models"
)

var (
	// ErrNoContent reports a response with no usable content at all, a hard
	// failure for the cycle.
	ErrNoContent = errors.New("oracle returned no content")
	// ErrRateLimited reports quota exhaustion. It changes scheduling, not
	// just logging, so it is distinguished from every other failure.
	ErrRateLimited = errors.New("oracle rate limited")
)

// callTimeout bounds the oracle round trip so a stuck call cannot suspend
// the cycle indefinitely.
const callTimeout = 90 * time.Second

// HeadlineSource supplies best-effort market headlines for prompt context.
type HeadlineSource func(ctx context.Context, symbol string) []string

// Gateway wraps the chat model behind the analysis contract.
type Gateway struct {
	chatModel     model.BaseChatModel
	limiter       *rate.Limiter
	headlines     HeadlineSource
	skipGrounding bool
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithHeadlines attaches a headline source to enrich prompts.
func WithHeadlines(src HeadlineSource) Option {
	return func(g *Gateway) { g.headlines = src }
}

// WithSkipGrounding marks cycles as high-frequency so the oracle skips
// search/grounding verification.
func WithSkipGrounding(skip bool) Option {
	return func(g *Gateway) { g.skipGrounding = skip }
}

// NewGateway builds a gateway around the given model. The local limiter
// smooths bursts; remote quota errors still surface as ErrRateLimited.
func NewGateway(chatModel model.BaseChatModel, opts ...Option) *Gateway {
	g := &Gateway{
		chatModel: chatModel,
		limiter:   rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Analyze sends the ordered snapshots to the oracle and returns a fully
// defaulted trade signal. The last snapshot is the scalp timeframe; its
// current price backs any missing entry price.
func (g *Gateway) Analyze(ctx context.Context, snapshots []*models.MarketSnapshot) (models.TradeSignal, error) {
	if len(snapshots) == 0 {
		return models.TradeSignal{}, fmt.Errorf("no snapshots to analyze")
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return models.TradeSignal{}, fmt.Errorf("limiter wait: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	var headlines []string
	if g.headlines != nil {
		headlines = g.headlines(ctx, snapshots[0].Symbol)
	}

	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		userMessage(snapshots, headlines, g.skipGrounding),
	}

	resp, err := g.chatModel.Generate(ctx, messages)
	if err != nil {
		if isRateLimited(err) {
			return models.TradeSignal{}, fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
		return models.TradeSignal{}, fmt.Errorf("oracle call: %w", err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return models.TradeSignal{}, ErrNoContent
	}

	livePrice := snapshots[len(snapshots)-1].CurrentPrice
	return NormalizeSignal(resp.Content, livePrice), nil
}

// userMessage packs the numeric context and the labeled chart images into a
// single multimodal message, highest timeframe first.
func userMessage(snapshots []*models.MarketSnapshot, headlines []string, skipGrounding bool) *schema.Message {
	parts := []schema.ChatMessagePart{
		{
			Type: schema.ChatMessagePartTypeText,
			Text: buildUserContext(snapshots, headlines, skipGrounding),
		},
	}
	for _, snap := range snapshots {
		if len(snap.Image) == 0 {
			continue
		}
		parts = append(parts,
			schema.ChatMessagePart{
				Type: schema.ChatMessagePartTypeText,
				Text: fmt.Sprintf("Chart image, timeframe %s:", snap.Timeframe),
			},
			schema.ChatMessagePart{
				Type: schema.ChatMessagePartTypeImageURL,
				ImageURL: &schema.ChatMessageImageURL{
					URL:    "data:image/png;base64," + base64.StdEncoding.EncodeToString(snap.Image),
					Detail: schema.ImageURLDetailAuto,
				},
			},
		)
	}
	return &schema.Message{
		Role:         schema.User,
		MultiContent: parts,
	}
}

// rawSignal mirrors the oracle's JSON; every field is optional.
type rawSignal struct {
	Action          string  `json:"action"`
	OrderType       string  `json:"order_type"`
	EntryPrice      float64 `json:"entry_price"`
	StopLoss        float64 `json:"stop_loss"`
	TakeProfit1     float64 `json:"take_profit_1"`
	TakeProfit2     float64 `json:"take_profit_2"`
	ConfidenceScore float64 `json:"confidence_score"`
	RiskRewardRatio float64 `json:"risk_reward_ratio"`
	Reasoning       string  `json:"reasoning"`
}

// NormalizeSignal parses the oracle's reply and back-fills every numeric
// field: a missing entry price becomes the live price, missing monetary
// levels become 0, confidence is clamped to 0..100 and an unknown action
// degrades to WAIT. A partially-valid reply therefore always yields a safe,
// inert trade description instead of an error.
func NormalizeSignal(content string, livePrice float64) models.TradeSignal {
	signal := models.TradeSignal{
		Action:     models.ActionWait,
		OrderType:  "MARKET",
		EntryPrice: livePrice,
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return signal
	}

	var raw rawSignal
	if err := json.Unmarshal([]byte(content[start:end+1]), &raw); err != nil {
		return signal
	}

	switch strings.ToUpper(strings.TrimSpace(raw.Action)) {
	case "BUY":
		signal.Action = models.ActionBuy
	case "SELL":
		signal.Action = models.ActionSell
	default:
		signal.Action = models.ActionWait
	}

	if orderType := strings.ToUpper(strings.TrimSpace(raw.OrderType)); orderType != "" {
		signal.OrderType = orderType
	}
	if raw.EntryPrice > 0 {
		signal.EntryPrice = raw.EntryPrice
	}
	if raw.StopLoss > 0 {
		signal.StopLoss = raw.StopLoss
	}
	if raw.TakeProfit1 > 0 {
		signal.TakeProfit1 = raw.TakeProfit1
	}
	if raw.TakeProfit2 > 0 {
		signal.TakeProfit2 = raw.TakeProfit2
	}

	confidence := raw.ConfidenceScore
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}
	signal.ConfidenceScore = confidence

	if raw.RiskRewardRatio > 0 {
		signal.RiskRewardRatio = raw.RiskRewardRatio
	}
	signal.Reasoning = strings.TrimSpace(raw.Reasoning)

	return signal
}

// isRateLimited recognizes quota exhaustion across providers.
func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "too many requests")
}
