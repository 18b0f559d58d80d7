package kline

import "math"

// Geometry 绘图区纵向几何
type Geometry struct {
	TopInset   float64
	PlotHeight float64
	BarGap     float64
}

// PriceToY 价格映射到屏幕 y：y = topInset + (max - price) / (max - min) * plotHeight
func (g Geometry) PriceToY(price float64, r PriceRange) float64 {
	span := r.Span()
	if span <= 0 {
		return g.TopInset + g.PlotHeight/2
	}
	return g.TopInset + (r.Max-price)/span*g.PlotHeight
}

// PriceAtY 屏幕 y 反算价格（十字线价格标签）
func (g Geometry) PriceAtY(y float64, r PriceRange) float64 {
	if g.PlotHeight <= 0 {
		return (r.Max + r.Min) / 2
	}
	return r.Max - (y-g.TopInset)/g.PlotHeight*r.Span()
}

// ClampY 限制在绘图区 [topInset, topInset+plotHeight] 内
func (g Geometry) ClampY(y float64) float64 {
	if math.IsNaN(y) {
		return g.TopInset
	}
	return math.Min(math.Max(y, g.TopInset), g.TopInset+g.PlotHeight)
}

// bodyWidth 实体宽度：扣除间隔，不小于 min(1, w)
func (g Geometry) bodyWidth(w float64) float64 {
	bw := w - g.BarGap
	if bw < 1 {
		bw = math.Min(1, w)
	}
	return bw
}

// ============================================================================
// 位置映射
// ============================================================================

// MapPositions 把可见K线投影为屏幕坐标，按索引升序一一对应
// x 为内容坐标 (i - startIndex) × w + w/2，落在 [0, totalContentWidth) 内；
// 右对齐的偏移由渲染层通过 ViewportState.ViewX 加上
// 纯函数：相同输入得到逐位相同的输出，兄弟视图依赖这一点保持像素级一致
func MapPositions(vp ViewportState, r PriceRange, g Geometry, mode LineMode, bars []Bar) []PositionModel {
	if len(bars) == 0 {
		return nil
	}

	bw := g.bodyWidth(vp.PerBarWidth)
	out := make([]PositionModel, len(bars))
	for i, b := range bars {
		x := columnCenter(vp, b.Index)
		yClose := g.PriceToY(b.Close, r)

		p := PositionModel{
			Index:   b.Index,
			XCenter: x,
			YClose:  yClose,
		}
		if mode == LineTimeline {
			// 分时线只有一个价格序列
			p.YOpen, p.YHigh, p.YLow = yClose, yClose, yClose
		} else {
			p.YOpen = g.PriceToY(b.Open, r)
			p.YHigh = g.PriceToY(b.High, r)
			p.YLow = g.PriceToY(b.Low, r)
		}

		top := math.Min(p.YOpen, p.YClose)
		p.Body = Rect{
			X:      x - bw/2,
			Y:      top,
			Width:  bw,
			Height: math.Abs(p.YOpen - p.YClose),
		}
		out[i] = p
	}
	return out
}

// ExactXForTouch 长按时把原始 x（视图坐标）吸附到最近K线列的中心
// 返回列中心（内容坐标，与 PositionModel.XCenter 一致）与对应索引；没有可见K线时索引为 -1，x 原样返回
func ExactXForTouch(vp ViewportState, rawX float64) (float64, int) {
	idx := indexAtX(vp, rawX)
	if idx < 0 {
		return rawX, -1
	}
	return columnCenter(vp, idx), idx
}

// ExactYForTouch 长按时把原始 y 限制在绘图区内，十字线不会越界
func ExactYForTouch(g Geometry, rawY float64) float64 {
	return g.ClampY(rawY)
}
