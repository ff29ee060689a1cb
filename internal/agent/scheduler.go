// Package agent implements the cyclical trading state machine: snapshot
// capture across three timeframes, the activity pre-flight, the analysis
// call, execution gating and rate-limit recovery.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dyike/ChartPilotGo/config"
	"github.com/dyike/ChartPilotGo/internal/activity"
	"github.com/dyike/ChartPilotGo/internal/ledger"
	"github.com/dyike/ChartPilotGo/internal/models"
	"github.com/dyike/ChartPilotGo/internal/oracle"
	"github.com/dyike/ChartPilotGo/internal/policy"
	"github.com/dyike/ChartPilotGo/internal/sizing"
)

// rateLimitBackoff is the one-shot pause after a quota error before a single
// resumption cycle.
const rateLimitBackoff = 60 * time.Second

// viewResetDelay is how long the last scanned chart stays visible before the
// provider is switched back to the scalp timeframe.
const viewResetDelay = 2 * time.Second

// Capturer produces one snapshot per timeframe with settle/retry handling.
type Capturer interface {
	Capture(timeframe string) (*models.MarketSnapshot, error)
}

// Analyzer turns captured snapshots into a normalized trade signal.
type Analyzer interface {
	Analyze(ctx context.Context, snapshots []*models.MarketSnapshot) (models.TradeSignal, error)
}

// Dispatcher routes approved orders to an external executor.
type Dispatcher interface {
	Enabled() bool
	Dispatch(ctx context.Context, symbol string, signal models.TradeSignal, lots float64) (string, error)
}

// ViewResetter restores the provider's visible timeframe between cycles.
type ViewResetter interface {
	SetTimeframe(label string)
}

// Scheduler owns cycle timing and the agent state. Only one cycle is ever in
// flight: re-entry is blocked by the EXECUTING status guard, not a lock.
type Scheduler struct {
	cfg        *config.Config
	capturer   Capturer
	analyzer   Analyzer
	book       *ledger.Ledger
	dispatcher Dispatcher
	view       ViewResetter
	clock      Clock
	trail      *Trail

	mu        sync.Mutex
	status    models.AgentStatus
	active    bool
	inBackoff bool
	periodic  Timer
	resume    Timer
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the wall clock, for tests.
func WithClock(clock Clock) Option {
	return func(s *Scheduler) {
		s.clock = clock
		s.trail = NewTrail(clock)
	}
}

// WithDispatcher attaches an execution bridge for non-simulated mode.
func WithDispatcher(d Dispatcher) Option {
	return func(s *Scheduler) { s.dispatcher = d }
}

// WithViewResetter attaches the provider view to reset between cycles.
func WithViewResetter(v ViewResetter) Option {
	return func(s *Scheduler) { s.view = v }
}

// New creates an idle scheduler.
func New(cfg *config.Config, capturer Capturer, analyzer Analyzer, book *ledger.Ledger, opts ...Option) *Scheduler {
	s := &Scheduler{
		cfg:      cfg,
		capturer: capturer,
		analyzer: analyzer,
		book:     book,
		clock:    realClock{},
		status:   models.StatusIdle,
	}
	s.trail = NewTrail(s.clock)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Status returns the scheduler's current state.
func (s *Scheduler) Status() models.AgentStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Trail returns the audit trail.
func (s *Scheduler) Trail() *Trail {
	return s.trail
}

// Activate runs one cycle immediately and then re-arms a periodic timer at
// the configured interval. Activating an active scheduler is a no-op.
func (s *Scheduler) Activate() {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.mu.Unlock()

	s.log(models.SeverityInfo, "Agent activated, interval %ds", s.cfg.IntervalSeconds)
	s.runCycle()
	s.armPeriodic()
}

// Deactivate cancels all pending timers and forces the state to IDLE. An
// in-flight cycle completes naturally; a new one is never scheduled.
func (s *Scheduler) Deactivate() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	s.inBackoff = false
	if s.periodic != nil {
		s.periodic.Stop()
		s.periodic = nil
	}
	if s.resume != nil {
		s.resume.Stop()
		s.resume = nil
	}
	s.status = models.StatusIdle
	s.mu.Unlock()

	s.log(models.SeverityInfo, "Agent deactivated")
}

// armPeriodic schedules the next cycle unless the scheduler is inactive or
// waiting out a rate limit.
func (s *Scheduler) armPeriodic() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active || s.inBackoff {
		return
	}
	interval := time.Duration(s.cfg.IntervalSeconds) * time.Second
	s.periodic = s.clock.AfterFunc(interval, func() {
		s.runCycle()
		s.armPeriodic()
	})
}

// runCycle executes one full scan-analyze-execute pass.
func (s *Scheduler) runCycle() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	if s.status == models.StatusExecuting {
		s.mu.Unlock()
		s.log(models.SeverityWarning, "Cycle skipped: execution still in progress")
		return
	}
	s.mu.Unlock()

	htf, ok := s.scan(models.StatusScanningHTF, s.cfg.HTFTimeframe)
	if !ok {
		return
	}
	mtf, ok := s.scan(models.StatusScanningMTF, s.cfg.MTFTimeframe)
	if !ok {
		return
	}
	scalp, ok := s.scan(models.StatusScanningLTF, s.cfg.ScalpTimeframe)
	if !ok {
		return
	}

	if !activity.IsActive(scalp.RecentBars) {
		s.log(models.SeverityInfo, "Market quiet on %s, skipping analysis to save quota", s.cfg.ScalpTimeframe)
		s.cooldown()
		s.scheduleViewReset()
		return
	}

	s.setStatus(models.StatusAnalyzing)
	s.log(models.SeverityInfo, "Requesting analysis for %s", s.cfg.Symbol)

	signal, err := s.analyzer.Analyze(context.Background(), []*models.MarketSnapshot{htf, mtf, scalp})
	if err != nil {
		if errors.Is(err, oracle.ErrRateLimited) {
			s.handleRateLimit(err)
			return
		}
		s.log(models.SeverityError, "Analysis failed: %v", err)
		s.cooldown()
		return
	}

	switch policy.Decide(signal, s.cfg.MinConfidence) {
	case policy.Execute:
		s.execute(signal)
	case policy.RejectLowConfidence:
		s.log(models.SeverityWarning, "Signal rejected: confidence %.0f below minimum %.0f",
			signal.ConfidenceScore, s.cfg.MinConfidence)
		s.cooldown()
	case policy.RejectWait:
		s.log(models.SeverityInfo, "Oracle advises WAIT (confidence %.0f)", signal.ConfidenceScore)
		s.cooldown()
	}
}

// scan captures one timeframe. On failure it logs, moves to COOLDOWN and
// reports false so the caller aborts the cycle.
func (s *Scheduler) scan(status models.AgentStatus, timeframe string) (*models.MarketSnapshot, bool) {
	s.setStatus(status)
	snap, err := s.capturer.Capture(timeframe)
	if err != nil {
		s.log(models.SeverityError, "Capture failed on %s: %v", timeframe, err)
		s.cooldown()
		return nil, false
	}
	return snap, true
}

// execute opens the position on the ledger, or dispatches through the bridge
// in non-simulated mode, then settles back to COOLDOWN after a short delay.
func (s *Scheduler) execute(signal models.TradeSignal) {
	s.setStatus(models.StatusExecuting)
	s.log(models.SeveritySuccess, "Executing %s %s @ %.5f (confidence %.0f)",
		signal.Action, s.cfg.Symbol, signal.EntryPrice, signal.ConfidenceScore)

	balance := s.book.Snapshot().Balance
	lots := sizing.LotsForRisk(balance, s.cfg.RiskPerTrade, signal.EntryPrice, signal.StopLoss)

	if s.cfg.Simulated || s.dispatcher == nil {
		if pos := s.book.Open(signal, s.cfg.Symbol, lots); pos != nil {
			s.log(models.SeveritySuccess, "Position %s opened: %.2f lots @ %.5f", pos.Ticket, pos.Lots, pos.EntryPrice)
		}
	} else {
		tradeID, err := s.dispatcher.Dispatch(context.Background(), s.cfg.Symbol, signal, lots)
		if err != nil {
			s.log(models.SeverityError, "Bridge dispatch failed: %v", err)
		} else {
			s.log(models.SeveritySuccess, "Order dispatched, trade id %s", tradeID)
		}
	}

	s.clock.AfterFunc(viewResetDelay, func() {
		s.cooldown()
		s.resetView()
	})
}

// handleRateLimit cancels periodic scheduling and arms a single resumption
// cycle that re-arms the normal timer only if the agent is still active.
func (s *Scheduler) handleRateLimit(cause error) {
	s.log(models.SeverityError, "Oracle rate limited, pausing %s: %v", rateLimitBackoff, cause)

	s.mu.Lock()
	s.inBackoff = true
	if s.periodic != nil {
		s.periodic.Stop()
		s.periodic = nil
	}
	s.status = models.StatusCooldown
	s.resume = s.clock.AfterFunc(rateLimitBackoff, func() {
		s.mu.Lock()
		s.inBackoff = false
		active := s.active
		s.mu.Unlock()
		if !active {
			return
		}
		s.log(models.SeverityInfo, "Resuming after rate-limit pause")
		s.runCycle()
		s.armPeriodic()
	})
	s.mu.Unlock()
}

func (s *Scheduler) scheduleViewReset() {
	s.clock.AfterFunc(viewResetDelay, s.resetView)
}

func (s *Scheduler) resetView() {
	if s.view != nil {
		s.view.SetTimeframe(s.cfg.ScalpTimeframe)
	}
}

func (s *Scheduler) cooldown() {
	s.setStatus(models.StatusCooldown)
}

func (s *Scheduler) setStatus(status models.AgentStatus) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// log records to the audit trail and mirrors to the process log.
func (s *Scheduler) log(severity models.LogSeverity, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	s.trail.Append(severity, message)
	log.Printf("[Agent] %s: %s", severity, message)
}
