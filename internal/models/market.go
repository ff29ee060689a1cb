package models

import "time"

// MaxRecentBars caps how many OHLC bars a snapshot carries for the
// pre-flight activity check. Oldest bars are dropped first.
const MaxRecentBars = 5

// OHLCBar is a single aggregated price bar.
type OHLCBar struct {
	Time  time.Time `json:"time"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
}

// MarketSnapshot is one timeframe's view of the market: a rendered chart
// image plus the numeric context that accompanies it. Snapshots are
// immutable once captured and discarded at the end of a cycle.
type MarketSnapshot struct {
	Image        []byte    `json:"-"`
	Symbol       string    `json:"symbol"`
	Timeframe    string    `json:"timeframe"`
	CurrentPrice float64   `json:"current_price"`
	RecentBars   []OHLCBar `json:"recent_bars"` // most-recent-last
	CapturedAt   time.Time `json:"captured_at"`
}
