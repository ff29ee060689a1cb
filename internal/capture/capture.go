// Package capture sequences per-timeframe snapshot acquisition from the
// chart provider, with a fixed settle delay and a single courtesy retry.
package capture

import (
	"errors"
	"fmt"
	"time"

	"github.com/dyike/ChartPilotGo/internal/models"
	"github.com/dyike/ChartPilotGo/internal/provider"
)

// ErrNotCaptured reports that the provider yielded no snapshot after the
// single retry. The caller decides whether this aborts the cycle.
var ErrNotCaptured = errors.New("snapshot not captured")

const (
	// settleDelay gives the provider time to fetch and render after a
	// timeframe switch.
	settleDelay = 2000 * time.Millisecond
	// retryDelay is the one extra wait granted when the provider reports
	// not-ready. This is a courtesy delay, not a polling loop.
	retryDelay = 1500 * time.Millisecond
)

// Orchestrator captures snapshots from a provider.
type Orchestrator struct {
	provider provider.SnapshotProvider
	sleep    func(time.Duration)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSleep replaces the real delays; tests use this to run instantly.
func WithSleep(fn func(time.Duration)) Option {
	return func(o *Orchestrator) { o.sleep = fn }
}

// New creates an orchestrator over the given provider.
func New(p provider.SnapshotProvider, opts ...Option) *Orchestrator {
	o := &Orchestrator{provider: p, sleep: time.Sleep}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Capture switches the provider to the timeframe, waits for it to settle,
// grants one extra wait if it is not ready, then requests the snapshot.
func (o *Orchestrator) Capture(timeframe string) (*models.MarketSnapshot, error) {
	o.provider.SetTimeframe(timeframe)
	o.sleep(settleDelay)

	if !o.provider.IsReady() {
		o.sleep(retryDelay)
	}

	snap := o.provider.Snapshot()
	if snap == nil {
		return nil, fmt.Errorf("timeframe %s: %w", timeframe, ErrNotCaptured)
	}
	return snap, nil
}
