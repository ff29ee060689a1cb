package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/ChartPilotGo/internal/models"
)

func buySignal(entry, sl, tp float64) models.TradeSignal {
	return models.TradeSignal{
		Action:      models.ActionBuy,
		EntryPrice:  entry,
		StopLoss:    sl,
		TakeProfit1: tp,
	}
}

func assertInvariants(t *testing.T, state models.AccountState) {
	t.Helper()
	floating := 0.0
	for _, pos := range state.Positions {
		floating += pos.PnL
	}
	assert.InDelta(t, state.Balance+floating, state.Equity, 1e-6)
	assert.InDelta(t, state.Equity-state.MarginUsed, state.FreeMargin, 1e-6)
}

func TestOpenBooksPosition(t *testing.T) {
	l := New(100000)

	pos := l.Open(buySignal(2000, 1990, 2010), "XAUUSD", 1)
	require.NotNil(t, pos)

	assert.Equal(t, models.PositionOpen, pos.Status)
	assert.Equal(t, 2000.0, pos.CurrentPrice, "current price starts at entry")
	assert.Equal(t, 0.0, pos.PnL)
	assert.Equal(t, 2010.0, pos.TakeProfit, "ledger enforces TP1 only")

	state := l.Snapshot()
	assert.Equal(t, 2000.0, state.MarginUsed, "entry x lots margin model")
	assertInvariants(t, state)
}

func TestOpenWaitSignalIsNoOp(t *testing.T) {
	l := New(100000)
	before := l.Snapshot()

	pos := l.Open(models.TradeSignal{Action: models.ActionWait, EntryPrice: 2000}, "XAUUSD", 1)

	assert.Nil(t, pos)
	assert.Equal(t, before, l.Snapshot())
}

func TestTickClosesOnTakeProfit(t *testing.T) {
	// Scenario: BUY at 2000 with SL 1990 / TP 2010, forced mark at 2011.
	l := New(100000, WithMarkFunc(func(models.TradePosition) float64 { return 2011 }))
	l.Open(buySignal(2000, 1990, 2010), "XAUUSD", 1)

	l.Tick()

	state := l.Snapshot()
	assert.Empty(t, state.Positions, "TP hit removes position within the tick")
	wantPnL := (2011.0 - 2000.0) * 1 * 1 * ContractSize
	assert.InDelta(t, 100000+wantPnL, state.Balance, 1e-6, "realized pnl folded into balance once")
	assertInvariants(t, state)

	// Another tick must not double-count the realized pnl.
	l.Tick()
	assert.InDelta(t, 100000+wantPnL, l.Snapshot().Balance, 1e-6)
}

func TestTickClosesOnStopLoss(t *testing.T) {
	l := New(100000, WithMarkFunc(func(models.TradePosition) float64 { return 1989 }))
	l.Open(buySignal(2000, 1990, 2010), "XAUUSD", 1)

	l.Tick()

	state := l.Snapshot()
	require.Empty(t, state.Positions)
	wantPnL := (1989.0 - 2000.0) * ContractSize
	assert.InDelta(t, 100000+wantPnL, state.Balance, 1e-6)
	assertInvariants(t, state)
}

func TestTickSellSideComparisonsInvert(t *testing.T) {
	// SELL: price rising to the stop closes as SL.
	l := New(100000, WithMarkFunc(func(models.TradePosition) float64 { return 2012 }))
	l.Open(models.TradeSignal{
		Action:      models.ActionSell,
		EntryPrice:  2000,
		StopLoss:    2010,
		TakeProfit1: 1980,
	}, "XAUUSD", 0.5)

	l.Tick()

	state := l.Snapshot()
	require.Empty(t, state.Positions)
	wantPnL := (2012.0 - 2000.0) * -1 * 0.5 * ContractSize
	assert.InDelta(t, 100000+wantPnL, state.Balance, 1e-6)
	assertInvariants(t, state)
}

func TestTickKeepsOpenPositionFloating(t *testing.T) {
	l := New(100000, WithMarkFunc(func(models.TradePosition) float64 { return 2004 }))
	l.Open(buySignal(2000, 1990, 2010), "XAUUSD", 1)

	l.Tick()

	state := l.Snapshot()
	require.Len(t, state.Positions, 1)
	assert.InDelta(t, 4.0*ContractSize, state.Positions[0].PnL, 1e-6)
	assert.InDelta(t, 100000.0, state.Balance, 1e-6, "floating pnl stays out of balance")
	assertInvariants(t, state)
}

func TestCloseIsIdempotent(t *testing.T) {
	l := New(100000, WithMarkFunc(func(models.TradePosition) float64 { return 2004 }))
	pos := l.Open(buySignal(2000, 1990, 2010), "XAUUSD", 1)
	l.Tick()

	l.Close(pos.ID)
	balanceAfterFirst := l.Snapshot().Balance
	assert.InDelta(t, 100000+4.0*ContractSize, balanceAfterFirst, 1e-6)

	l.Close(pos.ID)
	assert.Equal(t, balanceAfterFirst, l.Snapshot().Balance, "second close is a no-op")

	l.Close("no-such-id")
	assert.Equal(t, balanceAfterFirst, l.Snapshot().Balance)
}

func TestMarginNeverReducedOnClose(t *testing.T) {
	l := New(100000)
	pos := l.Open(buySignal(2000, 1990, 2010), "XAUUSD", 1)
	require.Equal(t, 2000.0, l.Snapshot().MarginUsed)

	l.Close(pos.ID)

	state := l.Snapshot()
	assert.Equal(t, 2000.0, state.MarginUsed, "simplified margin model keeps margin committed")
	assertInvariants(t, state)
}

func TestSubscribeDeliversImmediatelyAndOnMutations(t *testing.T) {
	l := New(100000)

	var deliveries []models.AccountState
	unsubscribe := l.Subscribe(func(state models.AccountState) {
		deliveries = append(deliveries, state)
	})

	require.Len(t, deliveries, 1, "initial delivery on registration")
	assert.Equal(t, 100000.0, deliveries[0].Balance)

	l.Open(buySignal(2000, 1990, 2010), "XAUUSD", 1)
	require.Len(t, deliveries, 2)
	assert.Len(t, deliveries[1].Positions, 1)

	unsubscribe()
	unsubscribe() // idempotent

	l.Open(buySignal(2000, 1990, 2010), "XAUUSD", 1)
	assert.Len(t, deliveries, 2, "no deliveries after unsubscribe")
}

func TestInvariantsAcrossMixedOperations(t *testing.T) {
	prices := []float64{2003, 1995, 2008}
	idx := 0
	l := New(100000, WithMarkFunc(func(models.TradePosition) float64 {
		return prices[idx%len(prices)]
	}))

	l.Subscribe(func(state models.AccountState) {
		assertInvariants(t, state)
	})

	a := l.Open(buySignal(2000, 1900, 2100), "XAUUSD", 1)
	l.Open(models.TradeSignal{
		Action:      models.ActionSell,
		EntryPrice:  2000,
		StopLoss:    2100,
		TakeProfit1: 1900,
	}, "XAUUSD", 0.2)

	for idx = 0; idx < len(prices); idx++ {
		l.Tick()
	}
	l.Close(a.ID)
	assertInvariants(t, l.Snapshot())
}
