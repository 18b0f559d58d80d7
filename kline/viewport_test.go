package kline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewportScrollToClamps(t *testing.T) {
	vp := NewViewport(testConfig())
	vp.Resize(300, 220, false)
	vp.SetPerBarWidth(10)
	vp.SetBarCount(100, false)

	s := vp.State()
	require.Equal(t, 30, s.Capacity)
	require.Equal(t, 30, s.VisibleCount)

	tests := []struct {
		input    int
		expected int
		desc     string
	}{
		{90, 70, "越过右边界截断到 count-visible"},
		{-5, 0, "负数截断到 0"},
		{35, 35, "区间内保持"},
		{70, 70, "恰好在右边界"},
	}
	for _, tt := range tests {
		got := vp.ScrollTo(tt.input)
		assert.Equal(t, tt.expected, got, tt.desc)
		s := vp.State()
		assert.LessOrEqual(t, s.StartIndex+s.VisibleCount, s.BarCount, tt.desc)
	}
}

func TestViewportSetPerBarWidth(t *testing.T) {
	vp := NewViewport(testConfig())
	vp.Resize(300, 220, false)
	vp.SetBarCount(100, false)

	tests := []struct {
		input   float64
		width   float64
		visible int
		desc    string
	}{
		{10, 10, 30, "区间内"},
		{1, 2, 100, "低于最小值截断（容量150，仅100根）"},
		{50, 20, 15, "高于最大值截断"},
		{7, 7, 42, "floor(300/7)=42"},
	}
	for _, tt := range tests {
		got := vp.SetPerBarWidth(tt.input)
		s := vp.State()
		assert.Equal(t, tt.width, got, tt.desc)
		assert.Equal(t, tt.visible, s.VisibleCount, tt.desc)
		assert.Equal(t, tt.width*100, s.TotalContentWidth, tt.desc)
	}
}

func TestViewportUpdateTotalWidthIdempotent(t *testing.T) {
	vp := NewViewport(testConfig())
	vp.Resize(300, 220, false)
	vp.SetPerBarWidth(7.5)
	vp.SetBarCount(123, false)

	vp.UpdateTotalWidth()
	first := vp.State()
	vp.UpdateTotalWidth()
	assert.Equal(t, first, vp.State())
	assert.Equal(t, 7.5*123, first.TotalContentWidth)
}

func TestViewportFollowLatest(t *testing.T) {
	vp := NewViewport(testConfig())
	vp.Resize(300, 220, true)
	vp.SetPerBarWidth(10)

	vp.SetBarCount(100, true)
	assert.Equal(t, 70, vp.State().StartIndex, "首次加载停在最新K线")

	vp.SetBarCount(110, true)
	assert.Equal(t, 80, vp.State().StartIndex, "在最右侧时跟随新数据")

	vp.ScrollTo(20)
	vp.SetBarCount(120, true)
	assert.Equal(t, 20, vp.State().StartIndex, "不在最右侧时保持位置")

	vp.SetBarCount(30, true)
	assert.Equal(t, 0, vp.State().StartIndex, "原位置失效时截断")
	assert.Equal(t, 30, vp.State().VisibleCount)
}

func TestViewportShortSeriesAnchor(t *testing.T) {
	tests := []struct {
		anchor AnchorPolicy
		inset  float64
		desc   string
	}{
		{AnchorLeft, 0, "左对齐无偏移"},
		{AnchorRight, 300 - 10*10, "右对齐贴右边缘"},
	}
	for _, tt := range tests {
		cfg := testConfig()
		cfg.Anchor = tt.anchor
		vp := NewViewport(cfg)
		vp.Resize(300, 220, false)
		vp.SetPerBarWidth(10)
		vp.SetBarCount(10, false)

		s := vp.State()
		assert.Equal(t, 0, s.StartIndex, tt.desc)
		assert.Equal(t, 10, s.VisibleCount, tt.desc)
		assert.Equal(t, tt.inset, s.ContentInset, tt.desc)
		assert.Equal(t, 9, vp.IndexAtX(299), tt.desc)
		assert.Equal(t, 5.0, vp.ColumnCenter(0), tt.desc)
		assert.Equal(t, tt.inset+5, s.ViewX(vp.ColumnCenter(0)), tt.desc)
	}
}

func TestViewportIndexAtX(t *testing.T) {
	vp := NewViewport(testConfig())
	assert.Equal(t, -1, vp.IndexAtX(10), "没有K线")

	vp.Resize(300, 220, false)
	vp.SetPerBarWidth(10)
	vp.SetBarCount(100, false)
	vp.ScrollTo(20)

	tests := []struct {
		x        float64
		expected int
		desc     string
	}{
		{0, 20, "第一列"},
		{9.99, 20, "第一列右边缘"},
		{10, 21, "第二列"},
		{-50, 20, "左侧越界截断"},
		{5000, 49, "右侧越界截断"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, vp.IndexAtX(tt.x), tt.desc)
	}
}
