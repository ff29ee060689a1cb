package ticker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntheticFallbackStaysNearLastPrice(t *testing.T) {
	f := NewFeed("XAUUSD", 2000)

	tick := f.synthetic(2000)
	assert.Equal(t, "XAUUSD", tick.Symbol)
	assert.InDelta(t, 2000, tick.Price, 2000*0.0003)
	assert.Equal(t, tick.Price, f.lastPrice, "fallback advances the walk")
}

func TestSubscribeReceivesPublishedTicks(t *testing.T) {
	f := NewFeed("XAUUSD", 2000)
	ch, unsub := f.Subscribe()
	defer unsub()

	want := Tick{Symbol: "XAUUSD", Price: 2001.5}
	f.publish(want)

	got := <-ch
	assert.Equal(t, want.Price, got.Price)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	f := NewFeed("XAUUSD", 2000)
	ch, unsub := f.Subscribe()

	unsub()
	unsub()

	_, open := <-ch
	assert.False(t, open, "channel closes on unsubscribe")

	require.NotPanics(t, func() { f.publish(Tick{Symbol: "XAUUSD", Price: 1}) })
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	f := NewFeed("XAUUSD", 2000)
	ch, unsub := f.Subscribe()
	defer unsub()

	for i := 0; i < 20; i++ {
		f.publish(Tick{Symbol: "XAUUSD", Price: float64(2000 + i)})
	}

	assert.Equal(t, cap(ch), len(ch), "buffer fills, extra ticks are dropped")
	first := <-ch
	assert.Equal(t, 2000.0, first.Price)
}
