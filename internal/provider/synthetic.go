package provider

import (
	"math/rand"
	"sync"
	"time"

	"github.com/dyike/ChartPilotGo/internal/models"
)

// timeframe step sizes for synthetic bar generation.
var timeframeSteps = map[string]time.Duration{
	"1m":  time.Minute,
	"5m":  5 * time.Minute,
	"15m": 15 * time.Minute,
	"30m": 30 * time.Minute,
	"1h":  time.Hour,
	"4h":  4 * time.Hour,
	"1d":  24 * time.Hour,
}

// SyntheticProvider simulates a charting terminal with a bounded random
// walk per timeframe. It is the default backend in simulated mode and the
// workhorse for tests.
type SyntheticProvider struct {
	mu        sync.Mutex
	symbol    string
	timeframe string
	price     float64
	rng       *rand.Rand
	ready     bool
}

// NewSyntheticProvider seeds the walk at basePrice.
func NewSyntheticProvider(symbol string, basePrice float64) *SyntheticProvider {
	return &SyntheticProvider{
		symbol: symbol,
		price:  basePrice,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		ready:  false,
	}
}

// SetTimeframe switches the visible timeframe. Readiness drops until the
// next snapshot request, mimicking a terminal re-render.
func (p *SyntheticProvider) SetTimeframe(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.timeframe = label
	p.ready = false
}

// IsReady becomes true once a timeframe is selected; the first poll after a
// switch reports false so callers exercise their retry wait.
func (p *SyntheticProvider) IsReady() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timeframe == "" {
		return false
	}
	if !p.ready {
		p.ready = true
		return false
	}
	return true
}

// Snapshot generates a fresh set of bars around the walk and renders the
// chart image.
func (p *SyntheticProvider) Snapshot() *models.MarketSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timeframe == "" {
		return nil
	}

	step, ok := timeframeSteps[p.timeframe]
	if !ok {
		step = time.Minute
	}

	bars := make([]models.OHLCBar, 0, models.MaxRecentBars)
	now := time.Now()
	for i := models.MaxRecentBars - 1; i >= 0; i-- {
		open := p.price
		drift := p.price * 0.002 * (p.rng.Float64()*2 - 1)
		closePrice := open + drift
		high := maxFloat(open, closePrice) + p.price*0.0005*p.rng.Float64()
		low := minFloat(open, closePrice) - p.price*0.0005*p.rng.Float64()
		bars = append(bars, models.OHLCBar{
			Time:  now.Add(-time.Duration(i) * step),
			Open:  open,
			High:  high,
			Low:   low,
			Close: closePrice,
		})
		p.price = closePrice
	}

	return &models.MarketSnapshot{
		Image:        renderChart(bars),
		Symbol:       p.symbol,
		Timeframe:    p.timeframe,
		CurrentPrice: p.price,
		RecentBars:   bars,
		CapturedAt:   now,
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
