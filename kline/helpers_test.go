package kline

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// makeBars 生成确定性的随机游走序列
func makeBars(n int, seed uint64) []Bar {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]Bar, n)
	price := 100.0
	for i := range bars {
		open := price
		closeP := math.Max(open*(1+(r.Float64()-0.5)*0.04), 0.01)
		high := math.Max(open, closeP) * (1 + r.Float64()*0.01)
		low := math.Min(open, closeP) * (1 - r.Float64()*0.01)
		bars[i] = Bar{
			Time:   start.AddDate(0, 0, i),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closeP,
			Volume: float64(1000 + r.IntN(9000)),
		}
		price = closeP
	}
	return bars
}

// flatBars 所有价格相同的序列
func flatBars(n int, price float64) []Bar {
	bars := make([]Bar, n)
	for i := range bars {
		bars[i] = Bar{Open: price, High: price, Low: price, Close: price}
	}
	return bars
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.MinBarWidth = 2
	cfg.MaxBarWidth = 20
	cfg.InitialBarWidth = 10
	cfg.TopInset = 10
	cfg.BottomInset = 10
	return cfg
}

// newTestEngine 宽 width、高 220（绘图区 200）、单根宽 10 的引擎
func newTestEngine(t *testing.T, bars []Bar, width float64) *Engine {
	t.Helper()
	e, err := NewEngine(testConfig())
	require.NoError(t, err)
	e.OnViewportResize(width, 220)
	e.Reset(bars)
	return e
}

// recorder 记录收到的事件
type recorder struct {
	events []Event
}

func (r *recorder) HandleChartEvent(ev Event) {
	r.events = append(r.events, ev)
}

func (r *recorder) kinds() []EventKind {
	out := make([]EventKind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}

func (r *recorder) last() Event {
	if len(r.events) == 0 {
		return Event{Kind: -1}
	}
	return r.events[len(r.events)-1]
}

func (r *recorder) reset() {
	r.events = nil
}
