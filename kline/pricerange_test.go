package kline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePriceRangeCandlestickBounds(t *testing.T) {
	bars := makeBars(300, 7)
	for start := 0; start < len(bars); start += 37 {
		end := min(start+50, len(bars))
		visible := bars[start:end]

		r := CalculatePriceRange(visible, RangePolicy{Mode: LineCandlestick, FlatRangeRatio: 0.005})

		lo, hi := math.Inf(1), math.Inf(-1)
		for _, b := range visible {
			lo = math.Min(lo, b.Low)
			hi = math.Max(hi, b.High)
		}
		assert.False(t, r.Degenerate)
		assert.Equal(t, lo, r.Min, "最低价应与可见K线最低价相等 start=%d", start)
		assert.Equal(t, hi, r.Max, "最高价应与可见K线最高价相等 start=%d", start)
	}
}

func TestCalculatePriceRangeFlatSeries(t *testing.T) {
	tests := []struct {
		price float64
		min   float64
		max   float64
		desc  string
	}{
		{100, 99.5, 100.5, "按 0.5% 扩展"},
		{0, -0.5, 0.5, "价格为 0 时使用最小半幅"},
	}
	for _, tt := range tests {
		r := CalculatePriceRange(flatBars(20, tt.price), RangePolicy{Mode: LineCandlestick, FlatRangeRatio: 0.005})
		assert.True(t, r.Degenerate, tt.desc)
		assert.InDelta(t, tt.min, r.Min, 1e-9, tt.desc)
		assert.InDelta(t, tt.max, r.Max, 1e-9, tt.desc)
	}
}

func TestCalculatePriceRangeTimeline(t *testing.T) {
	bars := []Bar{
		{Open: 10, High: 15, Low: 5, Close: 10.2},
		{Open: 10, High: 15, Low: 5, Close: 10.8},
		{Open: 10, High: 15, Low: 5, Close: 10.5},
	}

	tests := []struct {
		instrument InstrumentType
		baseline   float64
		min        float64
		max        float64
		desc       string
	}{
		{InstrumentIndex, 0, 10.2, 10.8, "无参考价只看收盘价"},
		{InstrumentIndex, 10, 10, 10.8, "指数：参考价纳入区间"},
		{InstrumentIndex, 11, 10.2, 11, "指数：参考价高于收盘价"},
		{InstrumentEquity, 10, 9.2, 10.8, "股票：以参考价为中心对称"},
		{InstrumentEquity, 10.5, 10.2, 10.8, "股票：参考价在中间"},
	}
	for _, tt := range tests {
		r := CalculatePriceRange(bars, RangePolicy{
			Mode:           LineTimeline,
			Instrument:     tt.instrument,
			Baseline:       tt.baseline,
			FlatRangeRatio: 0.005,
		})
		assert.InDelta(t, tt.min, r.Min, 1e-9, tt.desc)
		assert.InDelta(t, tt.max, r.Max, 1e-9, tt.desc)
		if tt.baseline > 0 {
			assert.LessOrEqual(t, r.Min, tt.baseline, tt.desc)
			assert.GreaterOrEqual(t, r.Max, tt.baseline, tt.desc)
		}
	}
}

func TestCalculatePriceRangeEmpty(t *testing.T) {
	r := CalculatePriceRange(nil, RangePolicy{Mode: LineCandlestick})
	assert.True(t, r.Empty)
	assert.Zero(t, r.Span())
}
