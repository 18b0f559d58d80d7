package kline

import "math"

// ViewportState 可见窗口快照
type ViewportState struct {
	StartIndex        int     // 第一根可见K线
	VisibleCount      int     // 可见K线数量
	Capacity          int     // 一屏可容纳的K线数量 floor(PixelWidth / PerBarWidth)
	BarCount          int     // 序列总长度
	PerBarWidth       float64 // 单根K线像素宽度
	TotalContentWidth float64 // PerBarWidth × BarCount
	PixelWidth        float64 // 视图宽度
	PixelHeight       float64 // 视图高度
	ContentInset      float64 // 右对齐时内容相对视图左边缘的偏移（只在渲染与原始触摸换算时使用）
}

// ViewX 内容坐标换算到视图坐标
func (s ViewportState) ViewX(contentX float64) float64 {
	return s.ContentInset + contentX
}

// EndIndex 可见区间的开区间右端
func (s ViewportState) EndIndex() int {
	return s.StartIndex + s.VisibleCount
}

// AtLatest 是否正在显示最后一根K线
func (s ViewportState) AtLatest() bool {
	return s.EndIndex() >= s.BarCount
}

// ============================================================================
// Viewport 可见窗口状态
// ============================================================================

// Viewport 维护可见窗口、缩放宽度与内容总宽度
type Viewport struct {
	state  ViewportState
	minW   float64
	maxW   float64
	anchor AnchorPolicy
}

// NewViewport 根据配置创建视口（配置需已校验）
func NewViewport(cfg Config) *Viewport {
	v := &Viewport{
		minW:   cfg.MinBarWidth,
		maxW:   cfg.MaxBarWidth,
		anchor: cfg.Anchor,
	}
	v.state.PerBarWidth = v.clampWidth(cfg.initialWidth())
	v.refresh()
	return v
}

// State 当前快照
func (v *Viewport) State() ViewportState {
	return v.state
}

// SetPerBarWidth 设置单根宽度（限制在 [min, max]），返回实际生效的宽度
func (v *Viewport) SetPerBarWidth(w float64) float64 {
	v.state.PerBarWidth = v.clampWidth(w)
	v.UpdateTotalWidth()
	v.refresh()
	return v.state.PerBarWidth
}

// ScrollTo 滚动到指定起始索引，保证 [index, index+visibleCount) 落在序列内
func (v *Viewport) ScrollTo(index int) int {
	v.state.StartIndex = clampInt(index, 0, v.maxStart())
	v.refresh()
	return v.state.StartIndex
}

// ScrollToLatest 滚动到最右侧
func (v *Viewport) ScrollToLatest() {
	v.ScrollTo(v.maxStart())
}

// UpdateTotalWidth 重新计算内容总宽度
// 序列重置或单根宽度变化后必须调用，否则滚动范围过期
func (v *Viewport) UpdateTotalWidth() {
	v.state.TotalContentWidth = v.state.PerBarWidth * float64(v.state.BarCount)
}

// Resize 视图尺寸变化
func (v *Viewport) Resize(pixelWidth, pixelHeight float64, follow bool) {
	wasLatest := v.state.AtLatest()
	v.state.PixelWidth = math.Max(pixelWidth, 0)
	v.state.PixelHeight = math.Max(pixelHeight, 0)
	v.refresh()
	if follow && wasLatest {
		v.ScrollToLatest()
	}
}

// SetBarCount 序列长度变化后重新对齐
// 原对齐仍有效时保持不变；follow 为真且原先停在最右侧时继续跟随最新K线
func (v *Viewport) SetBarCount(n int, follow bool) {
	wasLatest := v.state.AtLatest()
	v.state.BarCount = max(n, 0)
	v.UpdateTotalWidth()
	if follow && wasLatest {
		v.state.StartIndex = v.maxStart()
	}
	v.refresh()
}

// IndexAtX 视图 x 坐标（原始触摸）下的K线索引，没有可见K线时返回 -1
func (v *Viewport) IndexAtX(x float64) int {
	return indexAtX(v.state, x)
}

// ColumnCenter 指定K线所在列的中心 x 坐标（内容坐标，不含 ContentInset）
func (v *Viewport) ColumnCenter(index int) float64 {
	return columnCenter(v.state, index)
}

// ============================================================================
// 内部计算
// ============================================================================

// refresh 根据宽度与序列长度重新推导 Capacity / VisibleCount / StartIndex / ContentInset
func (v *Viewport) refresh() {
	s := &v.state
	s.Capacity = 0
	if s.PerBarWidth > 0 {
		// 1e-9 容差，避免 0.3/0.1 之类的浮点误差少算一列
		s.Capacity = int(math.Floor(s.PixelWidth/s.PerBarWidth + 1e-9))
	}
	s.StartIndex = clampInt(s.StartIndex, 0, v.maxStart())
	s.VisibleCount = min(s.Capacity, s.BarCount-s.StartIndex)
	if s.VisibleCount < 0 {
		s.VisibleCount = 0
	}

	s.ContentInset = 0
	if v.anchor == AnchorRight && s.BarCount < s.Capacity {
		s.ContentInset = s.PixelWidth - s.TotalContentWidth
	}
}

func (v *Viewport) maxStart() int {
	return max(0, v.state.BarCount-max(v.state.Capacity, 1))
}

func (v *Viewport) clampWidth(w float64) float64 {
	if math.IsNaN(w) {
		return v.minW
	}
	return math.Min(math.Max(w, v.minW), v.maxW)
}

func indexAtX(s ViewportState, x float64) int {
	if s.VisibleCount == 0 || s.PerBarWidth <= 0 {
		return -1
	}
	if !isFinite(x) {
		x = s.ContentInset
	}
	col := math.Floor((x - s.ContentInset) / s.PerBarWidth)
	col = math.Min(math.Max(col, 0), float64(s.VisibleCount-1))
	return s.StartIndex + int(col)
}

func columnCenter(s ViewportState, index int) float64 {
	return float64(index-s.StartIndex)*s.PerBarWidth + s.PerBarWidth/2
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
