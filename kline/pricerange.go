package kline

import "math"

// flatRangeFloor 价格为 0 且无波动时的最小半幅
const flatRangeFloor = 0.5

// PriceRange 可见K线的价格区间
type PriceRange struct {
	Min        float64
	Max        float64
	Degenerate bool // min == max，已按比例扩展
	Empty      bool // 没有可见K线
}

// Span 区间跨度
func (r PriceRange) Span() float64 {
	return r.Max - r.Min
}

// RangePolicy 价格区间计算策略
type RangePolicy struct {
	Mode           LineMode
	Instrument     InstrumentType
	Baseline       float64 // 分时模式的参考价（昨收），<= 0 表示不可用
	FlatRangeRatio float64
}

// CalculatePriceRange 仅根据可见K线计算最高最低价
// K线模式扫描最高/最低价；分时模式只扫描收盘价，并把参考价纳入区间，
// 股票分时以参考价为中心对称展开
func CalculatePriceRange(bars []Bar, policy RangePolicy) PriceRange {
	if len(bars) == 0 {
		return PriceRange{Empty: true}
	}

	lo := math.Inf(1)
	hi := math.Inf(-1)
	for _, b := range bars {
		if policy.Mode == LineTimeline {
			lo = math.Min(lo, b.Close)
			hi = math.Max(hi, b.Close)
			continue
		}
		lo = math.Min(lo, b.Low)
		hi = math.Max(hi, b.High)
	}

	if policy.Mode == LineTimeline && policy.Baseline > 0 {
		base := policy.Baseline
		if policy.Instrument == InstrumentEquity {
			diff := math.Max(math.Abs(hi-base), math.Abs(base-lo))
			lo, hi = base-diff, base+diff
		} else {
			lo = math.Min(lo, base)
			hi = math.Max(hi, base)
		}
	}

	r := PriceRange{Min: lo, Max: hi}
	if r.Min == r.Max {
		half := math.Abs(r.Min) * policy.FlatRangeRatio
		if half <= 0 {
			half = flatRangeFloor
		}
		r.Min -= half
		r.Max += half
		r.Degenerate = true
	}
	return r
}
