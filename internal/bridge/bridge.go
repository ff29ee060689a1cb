// Package bridge dispatches approved trade signals to an external execution
// endpoint over a webhook.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dyike/ChartPilotGo/internal/models"
)

// ErrDisabled reports a dispatch attempt against a bridge that is switched
// off in configuration.
var ErrDisabled = errors.New("execution bridge is disabled")

// orderRequest is the webhook payload the executor expects.
type orderRequest struct {
	Secret    string  `json:"secret"`
	Ticker    string  `json:"ticker"`
	Action    string  `json:"action"`
	OrderType string  `json:"order_type"`
	Price     float64 `json:"price"`
	SL        float64 `json:"sl"`
	TP1       float64 `json:"tp1"`
	TP2       float64 `json:"tp2"`
	Volume    float64 `json:"volume"`
	Comment   string  `json:"comment"`
}

// orderReply is the executor's answer.
type orderReply struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	TradeID string `json:"tradeId,omitempty"`
}

// Client posts orders to the configured execution endpoint.
type Client struct {
	http    *resty.Client
	url     string
	secret  string
	enabled bool
}

// NewClient creates a bridge client. A disabled client is valid and rejects
// every dispatch immediately.
func NewClient(url, secret string, enabled bool) *Client {
	http := resty.New()
	http.SetTimeout(20 * time.Second)
	return &Client{
		http:    http,
		url:     url,
		secret:  secret,
		enabled: enabled,
	}
}

// Enabled reports whether dispatches will be attempted.
func (c *Client) Enabled() bool {
	return c.enabled
}

// Dispatch sends the signal as an order and returns the executor's trade id.
func (c *Client) Dispatch(ctx context.Context, symbol string, signal models.TradeSignal, lots float64) (string, error) {
	if !c.enabled {
		return "", ErrDisabled
	}

	req := orderRequest{
		Secret:    c.secret,
		Ticker:    symbol,
		Action:    string(signal.Action),
		OrderType: signal.OrderType,
		Price:     signal.EntryPrice,
		SL:        signal.StopLoss,
		TP1:       signal.TakeProfit1,
		TP2:       signal.TakeProfit2,
		Volume:    lots,
		Comment:   signal.Reasoning,
	}

	var reply orderReply
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&reply).
		Post(c.url)
	if err != nil {
		return "", fmt.Errorf("bridge dispatch: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("bridge dispatch: HTTP %d: %s", resp.StatusCode(), resp.String())
	}
	if !reply.Success {
		return "", fmt.Errorf("bridge rejected order: %s", reply.Message)
	}
	return reply.TradeID, nil
}
