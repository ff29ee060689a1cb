package capture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/ChartPilotGo/internal/models"
)

// scriptedProvider records calls and plays back configured readiness and
// snapshot results.
type scriptedProvider struct {
	timeframes []string
	readySeq   []bool
	readyCalls int
	snapshot   *models.MarketSnapshot
}

func (p *scriptedProvider) SetTimeframe(label string) {
	p.timeframes = append(p.timeframes, label)
}

func (p *scriptedProvider) IsReady() bool {
	if p.readyCalls < len(p.readySeq) {
		ready := p.readySeq[p.readyCalls]
		p.readyCalls++
		return ready
	}
	return true
}

func (p *scriptedProvider) Snapshot() *models.MarketSnapshot {
	return p.snapshot
}

func TestCaptureHappyPath(t *testing.T) {
	snap := &models.MarketSnapshot{Symbol: "XAUUSD", Timeframe: "5m", CurrentPrice: 2000}
	p := &scriptedProvider{readySeq: []bool{true}, snapshot: snap}

	var delays []time.Duration
	o := New(p, WithSleep(func(d time.Duration) { delays = append(delays, d) }))

	got, err := o.Capture("5m")
	require.NoError(t, err)
	assert.Equal(t, snap, got)
	assert.Equal(t, []string{"5m"}, p.timeframes)
	assert.Equal(t, []time.Duration{2000 * time.Millisecond}, delays, "only the settle delay when ready")
}

func TestCaptureRetriesOnceWhenNotReady(t *testing.T) {
	snap := &models.MarketSnapshot{Symbol: "XAUUSD", Timeframe: "1h"}
	p := &scriptedProvider{readySeq: []bool{false}, snapshot: snap}

	var delays []time.Duration
	o := New(p, WithSleep(func(d time.Duration) { delays = append(delays, d) }))

	got, err := o.Capture("1h")
	require.NoError(t, err)
	assert.Equal(t, snap, got)
	assert.Equal(t, []time.Duration{2000 * time.Millisecond, 1500 * time.Millisecond}, delays)
	assert.Equal(t, 1, p.readyCalls, "readiness is polled exactly once")
}

func TestCaptureFailsWhenProviderYieldsNothing(t *testing.T) {
	p := &scriptedProvider{readySeq: []bool{false}, snapshot: nil}
	o := New(p, WithSleep(func(time.Duration) {}))

	got, err := o.Capture("1d")
	assert.Nil(t, got)
	require.ErrorIs(t, err, ErrNotCaptured)
	assert.Contains(t, err.Error(), "1d")
}
