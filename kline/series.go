package kline

import "fmt"

// ============================================================================
// Series 有序K线序列
// ============================================================================

// Series 持有有序K线序列，仅支持整体替换
type Series struct {
	bars       []Bar
	instrument InstrumentType
}

// NewSeries 创建空序列
func NewSeries(instrument InstrumentType) *Series {
	return &Series{instrument: instrument}
}

// Reset 整体替换序列
// 输入会被复制，Index 按顺序重新编号，Trend 按品种策略重新分类
func (s *Series) Reset(bars []Bar) {
	next := make([]Bar, len(bars))
	copy(next, bars)
	for i := range next {
		next[i].Index = i
		next[i].Trend = classify(next, i, s.instrument)
	}
	// 新的底层数组，之前返回的切片保持有效
	s.bars = next
}

// reclassify 品种类型变化后重新分类（仍然生成新数组）
func (s *Series) reclassify(instrument InstrumentType) {
	s.instrument = instrument
	if len(s.bars) > 0 {
		s.Reset(s.bars)
	}
}

// Len K线数量
func (s *Series) Len() int {
	return len(s.bars)
}

// At 按索引读取
func (s *Series) At(i int) (Bar, error) {
	if i < 0 || i >= len(s.bars) {
		return Bar{}, fmt.Errorf("%w: index %d not in [0, %d)", ErrOutOfRange, i, len(s.bars))
	}
	return s.bars[i], nil
}

// Slice 返回 [start, end) 的只读切片
// 容量被截断，调用方 append 不会覆盖序列
func (s *Series) Slice(start, end int) ([]Bar, error) {
	if start < 0 || end > len(s.bars) || start > end {
		return nil, fmt.Errorf("%w: range [%d, %d) not in [0, %d)", ErrOutOfRange, start, end, len(s.bars))
	}
	return s.bars[start:end:end], nil
}

// Last 最后一根K线
func (s *Series) Last() (Bar, bool) {
	if len(s.bars) == 0 {
		return Bar{}, false
	}
	return s.bars[len(s.bars)-1], true
}

// ============================================================================
// 涨跌分类
// ============================================================================

// classify 计算第 i 根K线的涨跌
// 股票：收盘价对比开盘价；指数：收盘价对比前一根收盘价（首根对比开盘价）
func classify(bars []Bar, i int, instrument InstrumentType) Trend {
	base := bars[i].Open
	if instrument == InstrumentIndex && i > 0 {
		base = bars[i-1].Close
	}
	return compareTrend(bars[i].Close, base)
}

func compareTrend(price, base float64) Trend {
	switch {
	case price > base:
		return TrendBullish
	case price < base:
		return TrendBearish
	default:
		return TrendNeutral
	}
}
