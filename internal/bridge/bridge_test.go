package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/ChartPilotGo/internal/models"
)

func sampleSignal() models.TradeSignal {
	return models.TradeSignal{
		Action:          models.ActionBuy,
		OrderType:       "MARKET",
		EntryPrice:      2000,
		StopLoss:        1990,
		TakeProfit1:     2015,
		TakeProfit2:     2030,
		ConfidenceScore: 85,
		Reasoning:       "all timeframes bullish",
	}
}

func TestDispatchSendsOrderPayload(t *testing.T) {
	var got orderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(orderReply{Success: true, TradeID: "T-1001"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "s3cret", true)
	tradeID, err := c.Dispatch(context.Background(), "XAUUSD", sampleSignal(), 0.5)
	require.NoError(t, err)

	assert.Equal(t, "T-1001", tradeID)
	assert.Equal(t, "s3cret", got.Secret)
	assert.Equal(t, "XAUUSD", got.Ticker)
	assert.Equal(t, "BUY", got.Action)
	assert.Equal(t, 2000.0, got.Price)
	assert.Equal(t, 1990.0, got.SL)
	assert.Equal(t, 0.5, got.Volume)
}

func TestDispatchDisabledRejectsWithoutRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "s3cret", false)
	_, err := c.Dispatch(context.Background(), "XAUUSD", sampleSignal(), 0.5)

	assert.ErrorIs(t, err, ErrDisabled)
	assert.False(t, called, "disabled bridge must not touch the network")
}

func TestDispatchSurfacesExecutorRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(orderReply{Success: false, Message: "market closed"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "s3cret", true)
	_, err := c.Dispatch(context.Background(), "XAUUSD", sampleSignal(), 0.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "market closed")
}

func TestDispatchSurfacesHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad secret", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "wrong", true)
	_, err := c.Dispatch(context.Background(), "XAUUSD", sampleSignal(), 0.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
