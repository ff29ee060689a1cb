package provider

import (
	"context"
	"errors"
	"sync"
	"time"

	lpconfig "github.com/longportapp/openapi-go/config"
	"github.com/longportapp/openapi-go/quote"

	"github.com/dyike/ChartPilotGo/config"
	"github.com/dyike/ChartPilotGo/internal/models"
)

// snapshotTimeout bounds each candlestick fetch.
const snapshotTimeout = 10 * time.Second

// LongportProvider serves snapshots from Longport candlestick data.
type LongportProvider struct {
	quoteCtx *quote.QuoteContext
	symbol   string

	mu        sync.Mutex
	timeframe string
}

// NewLongportProvider connects a quote context with the configured
// credentials.
func NewLongportProvider(cfg *config.Config) (*LongportProvider, error) {
	if cfg.LongportAppKey == "" || cfg.LongportAppSecret == "" || cfg.LongportAccessToken == "" {
		return nil, errors.New("longport API credentials not configured")
	}

	conf, err := lpconfig.New(lpconfig.WithConfigKey(cfg.LongportAppKey, cfg.LongportAppSecret, cfg.LongportAccessToken))
	if err != nil {
		return nil, err
	}
	quoteContext, err := quote.NewFromCfg(conf)
	if err != nil {
		return nil, err
	}

	return &LongportProvider{
		quoteCtx: quoteContext,
		symbol:   cfg.Symbol,
	}, nil
}

// SetTimeframe records the timeframe for subsequent snapshots.
func (p *LongportProvider) SetTimeframe(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.timeframe = label
}

// IsReady reports whether the quote context is usable.
func (p *LongportProvider) IsReady() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.quoteCtx != nil && p.timeframe != ""
}

// Snapshot fetches the most recent candlesticks for the current timeframe.
// Returns nil on any upstream failure; the capture orchestrator treats that
// as not-captured.
func (p *LongportProvider) Snapshot() *models.MarketSnapshot {
	p.mu.Lock()
	timeframe := p.timeframe
	p.mu.Unlock()
	if timeframe == "" || p.quoteCtx == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	sticks, err := p.quoteCtx.Candlesticks(ctx, p.symbol, periodFor(timeframe), int32(models.MaxRecentBars), quote.AdjustTypeNo)
	if err != nil || len(sticks) == 0 {
		return nil
	}

	bars := make([]models.OHLCBar, 0, len(sticks))
	for _, s := range sticks {
		bars = append(bars, models.OHLCBar{
			Time:  time.Unix(s.Timestamp, 0),
			Open:  s.Open.InexactFloat64(),
			High:  s.High.InexactFloat64(),
			Low:   s.Low.InexactFloat64(),
			Close: s.Close.InexactFloat64(),
		})
	}
	if len(bars) > models.MaxRecentBars {
		bars = bars[len(bars)-models.MaxRecentBars:]
	}

	return &models.MarketSnapshot{
		Image:        renderChart(bars),
		Symbol:       p.symbol,
		Timeframe:    timeframe,
		CurrentPrice: bars[len(bars)-1].Close,
		RecentBars:   bars,
		CapturedAt:   time.Now(),
	}
}

// periodFor maps chart timeframe labels onto Longport candlestick periods.
// Unrecognized labels fall back to daily bars.
func periodFor(timeframe string) quote.Period {
	switch timeframe {
	case "1m":
		return quote.PeriodOneMinute
	case "5m":
		return quote.PeriodFiveMinute
	case "15m":
		return quote.PeriodFifteenMinute
	case "30m":
		return quote.PeriodThirtyMinute
	case "1h":
		return quote.PeriodSixtyMinute
	default:
		return quote.PeriodDay
	}
}
