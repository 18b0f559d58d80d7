package kline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesResetCopiesAndIndexes(t *testing.T) {
	input := makeBars(10, 1)
	input[3].Index = 99

	s := NewSeries(InstrumentEquity)
	s.Reset(input)
	require.Equal(t, 10, s.Len())

	b, err := s.At(3)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Index, "Index 按顺序重新编号")

	input[3].Close = -1
	b, _ = s.At(3)
	assert.NotEqual(t, -1.0, b.Close, "输入被复制，外部修改不影响序列")
}

func TestSeriesSliceOutOfRange(t *testing.T) {
	s := NewSeries(InstrumentEquity)
	s.Reset(makeBars(10, 2))

	tests := []struct {
		start int
		end   int
		ok    bool
		desc  string
	}{
		{0, 10, true, "完整区间"},
		{4, 4, true, "空区间"},
		{-1, 3, false, "起点为负"},
		{5, 11, false, "终点越界"},
		{6, 5, false, "起点大于终点"},
	}
	for _, tt := range tests {
		got, err := s.Slice(tt.start, tt.end)
		if tt.ok {
			assert.NoError(t, err, tt.desc)
			assert.Len(t, got, tt.end-tt.start, tt.desc)
			continue
		}
		assert.True(t, errors.Is(err, ErrOutOfRange), tt.desc)
	}

	_, err := s.At(10)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestSeriesSliceIsCapacityCapped(t *testing.T) {
	s := NewSeries(InstrumentEquity)
	s.Reset(makeBars(10, 3))

	part, err := s.Slice(2, 5)
	require.NoError(t, err)
	_ = append(part, Bar{Close: -42})

	b, _ := s.At(5)
	assert.NotEqual(t, -42.0, b.Close, "append 不会覆盖序列")
}

func TestSeriesClassification(t *testing.T) {
	bars := []Bar{
		{Open: 10, Close: 11},     // 涨
		{Open: 12, Close: 10},     // 股票跌；指数对比前收 11 也跌
		{Open: 9, Close: 10},      // 股票涨；指数对比前收 10 平
		{Open: 10.5, Close: 10.2}, // 股票跌；指数对比前收 10 涨
	}

	tests := []struct {
		instrument InstrumentType
		expected   []Trend
		desc       string
	}{
		{InstrumentEquity, []Trend{TrendBullish, TrendBearish, TrendBullish, TrendBearish}, "股票对比开盘价"},
		{InstrumentIndex, []Trend{TrendBullish, TrendBearish, TrendNeutral, TrendBullish}, "指数对比前收"},
	}
	for _, tt := range tests {
		s := NewSeries(tt.instrument)
		s.Reset(bars)
		got := make([]Trend, s.Len())
		for i := range got {
			b, _ := s.At(i)
			got[i] = b.Trend
		}
		assert.Equal(t, tt.expected, got, tt.desc)
	}

	s := NewSeries(InstrumentEquity)
	s.Reset(bars)
	s.reclassify(InstrumentIndex)
	b, _ := s.At(2)
	assert.Equal(t, TrendNeutral, b.Trend, "切换品种后重新分类")
}
