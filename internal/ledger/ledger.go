// Package ledger implements the paper trading account: balance, equity and
// margin bookkeeping plus the open-position set, with a subscription feed
// for state changes and an independent mark-to-market tick.
package ledger

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dyike/ChartPilotGo/internal/models"
	"github.com/dyike/ChartPilotGo/internal/sizing"
)

// ContractSize mirrors the standard-lot convention used for PnL scaling.
const ContractSize = sizing.ContractSize

// tickInterval is the period of the ledger's own mark-to-market loop,
// independent of the agent scheduler.
const tickInterval = time.Second

// maxDriftRatio bounds the simulated per-tick price perturbation as a
// fraction of the entry price.
const maxDriftRatio = 0.0005

// Listener receives a full account snapshot on every mutating operation.
type Listener func(models.AccountState)

// MarkFunc supplies the next mark price for an open position during a tick.
type MarkFunc func(pos models.TradePosition) float64

// Ledger owns all account state. Every mutation happens under its mutex;
// readers only ever see immutable snapshots.
//
// Known simplification carried over from the margin model: marginUsed grows
// on open and is never reduced on close.
type Ledger struct {
	mu         sync.Mutex
	balance    float64
	equity     float64
	marginUsed float64
	positions  []*models.TradePosition
	listeners  map[int]Listener
	nextSub    int
	ticketSeq  int
	markFn     MarkFunc
	rng        *rand.Rand

	stopOnce sync.Once
	stop     chan struct{}
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithMarkFunc replaces the stochastic mark price source. Tests use this to
// force deterministic prices.
func WithMarkFunc(fn MarkFunc) Option {
	return func(l *Ledger) { l.markFn = fn }
}

// New creates a ledger with the given starting balance.
func New(initialBalance float64, opts ...Option) *Ledger {
	l := &Ledger{
		balance:   initialBalance,
		equity:    initialBalance,
		listeners: make(map[int]Listener),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		stop:      make(chan struct{}),
	}
	l.markFn = l.randomWalk
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start runs the mark-to-market loop until Stop is called.
func (l *Ledger) Start() {
	go func() {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.Tick()
			case <-l.stop:
				return
			}
		}
	}()
}

// Stop terminates the mark-to-market loop. Safe to call more than once.
func (l *Ledger) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// Open books a new simulated position from an executable signal. WAIT
// signals are a no-op. The returned position is a copy; take profit is the
// signal's first target, TP2 is informational only.
func (l *Ledger) Open(signal models.TradeSignal, asset string, lots float64) *models.TradePosition {
	if signal.Action == models.ActionWait {
		return nil
	}

	l.mu.Lock()
	l.ticketSeq++
	pos := &models.TradePosition{
		ID:           uuid.NewString(),
		Ticket:       fmt.Sprintf("CP-%06d", l.ticketSeq),
		Asset:        asset,
		Side:         signal.Action,
		EntryPrice:   signal.EntryPrice,
		CurrentPrice: signal.EntryPrice,
		StopLoss:     signal.StopLoss,
		TakeProfit:   signal.TakeProfit1,
		Lots:         lots,
		OpenTime:     time.Now(),
		PnL:          0,
		Status:       models.PositionOpen,
	}
	l.positions = append(l.positions, pos)
	l.marginUsed += signal.EntryPrice * lots
	l.recompute()
	out := *pos
	snapshot, targets := l.snapshotLocked()
	l.mu.Unlock()

	l.notify(snapshot, targets)
	return &out
}

// Close removes a position from the open set and folds its last-computed
// PnL into the balance exactly once. Unknown ids are a silent no-op, which
// makes a second Close of the same id idempotent.
func (l *Ledger) Close(id string) {
	l.mu.Lock()
	idx := -1
	for i, pos := range l.positions {
		if pos.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.mu.Unlock()
		return
	}
	pos := l.positions[idx]
	pos.Status = models.PositionClosed
	if pos.CloseReason == "" {
		pos.CloseReason = models.CloseManual
	}
	l.balance += pos.PnL
	l.positions = append(l.positions[:idx], l.positions[idx+1:]...)
	l.recompute()
	snapshot, targets := l.snapshotLocked()
	l.mu.Unlock()

	l.notify(snapshot, targets)
}

// Tick marks every open position to a fresh price, recomputes PnL and
// evaluates stop conditions. Positions that hit SL or TP are closed within
// the same tick: realized PnL goes to balance and they leave the open set
// before the tick completes.
func (l *Ledger) Tick() {
	l.mu.Lock()
	remaining := l.positions[:0]
	for _, pos := range l.positions {
		price := l.markFn(*pos)
		pos.CurrentPrice = price

		direction := 1.0
		if pos.Side == models.ActionSell {
			direction = -1.0
		}
		pos.PnL = (price - pos.EntryPrice) * direction * pos.Lots * ContractSize

		if reason, hit := stopTriggered(pos); hit {
			pos.Status = models.PositionClosed
			pos.CloseReason = reason
			l.balance += pos.PnL
			continue
		}
		remaining = append(remaining, pos)
	}
	l.positions = remaining
	l.recompute()
	snapshot, targets := l.snapshotLocked()
	l.mu.Unlock()

	l.notify(snapshot, targets)
}

// stopTriggered checks SL before TP for buys; the comparisons invert for
// sells.
func stopTriggered(pos *models.TradePosition) (models.CloseReason, bool) {
	if pos.Side == models.ActionBuy {
		if pos.StopLoss > 0 && pos.CurrentPrice <= pos.StopLoss {
			return models.CloseStopLoss, true
		}
		if pos.TakeProfit > 0 && pos.CurrentPrice >= pos.TakeProfit {
			return models.CloseTakeProfit, true
		}
		return "", false
	}
	if pos.StopLoss > 0 && pos.CurrentPrice >= pos.StopLoss {
		return models.CloseStopLoss, true
	}
	if pos.TakeProfit > 0 && pos.CurrentPrice <= pos.TakeProfit {
		return models.CloseTakeProfit, true
	}
	return "", false
}

// Subscribe registers a listener, delivers the current state immediately
// and returns an idempotent unsubscribe closure.
func (l *Ledger) Subscribe(fn Listener) func() {
	l.mu.Lock()
	id := l.nextSub
	l.nextSub++
	l.listeners[id] = fn
	snapshot, _ := l.snapshotLocked()
	l.mu.Unlock()

	fn(snapshot)

	return func() {
		l.mu.Lock()
		delete(l.listeners, id)
		l.mu.Unlock()
	}
}

// Snapshot returns the current account state.
func (l *Ledger) Snapshot() models.AccountState {
	l.mu.Lock()
	defer l.mu.Unlock()
	snapshot, _ := l.snapshotLocked()
	return snapshot
}

// recompute restores the account invariants after any mutation:
// equity = balance + sum of open PnL, freeMargin = equity - marginUsed.
func (l *Ledger) recompute() {
	floating := 0.0
	for _, pos := range l.positions {
		floating += pos.PnL
	}
	l.equity = l.balance + floating
}

func (l *Ledger) snapshotLocked() (models.AccountState, []Listener) {
	positions := make([]models.TradePosition, len(l.positions))
	for i, pos := range l.positions {
		positions[i] = *pos
	}
	state := models.AccountState{
		Balance:    l.balance,
		Equity:     l.equity,
		MarginUsed: l.marginUsed,
		FreeMargin: l.equity - l.marginUsed,
		Positions:  positions,
	}
	targets := make([]Listener, 0, len(l.listeners))
	for _, fn := range l.listeners {
		targets = append(targets, fn)
	}
	return state, targets
}

// notify delivers the snapshot outside the mutex so listeners may call back
// into the ledger.
func (l *Ledger) notify(state models.AccountState, targets []Listener) {
	for _, fn := range targets {
		fn(state)
	}
}

// randomWalk perturbs the position's current price by a bounded fraction of
// its entry price.
func (l *Ledger) randomWalk(pos models.TradePosition) float64 {
	drift := (l.rng.Float64()*2 - 1) * maxDriftRatio * pos.EntryPrice
	return pos.CurrentPrice + drift
}
