package main

import (
	"math"
	"strings"
	"testing"

	"kline-monitor/kline"

	"github.com/stretchr/testify/assert"
)

// TestBodyColumns 测试实体覆盖的列
func TestBodyColumns(t *testing.T) {
	tests := []struct {
		body        kline.Rect
		left, right int
		desc        string
	}{
		{kline.Rect{X: 0.5, Width: 2}, 1, 2, "宽 3 间隔 1"},
		{kline.Rect{X: 3.5, Width: 2}, 4, 5, "第二根"},
		{kline.Rect{X: 0.25, Width: 0.5}, 0, 0, "窄于一列时至少一列"},
		{kline.Rect{X: 10, Width: 4}, 10, 13, "整列对齐"},
	}

	for _, tt := range tests {
		left, right := bodyColumns(kline.ViewportState{}, tt.body)
		if left != tt.left || right != tt.right {
			t.Errorf("%s: bodyColumns(%+v) = (%d, %d), expected (%d, %d)", tt.desc, tt.body, left, right, tt.left, tt.right)
		}
	}

	// 右对齐时实体按 ContentInset 平移到视图列
	left, right := bodyColumns(kline.ViewportState{ContentInset: 60}, kline.Rect{X: 0.5, Width: 2})
	assert.Equal(t, 61, left)
	assert.Equal(t, 62, right)
}

// TestRowOf 测试 y 坐标到行的换算
func TestRowOf(t *testing.T) {
	assert.Equal(t, 0, rowOf(-3, 10), "超出顶部")
	assert.Equal(t, 4, rowOf(4.9, 10))
	assert.Equal(t, 9, rowOf(10, 10), "底边落在最后一行")
	assert.Equal(t, 9, rowOf(25, 10))
	assert.Equal(t, 0, rowOf(math.NaN(), 10))
}

// TestVolumePaneRender 成交量柱高度按最大成交量缩放
func TestVolumePaneRender(t *testing.T) {
	frame := &kline.Frame{
		Bars:      []kline.Bar{{Volume: 100}, {Volume: 50}},
		Positions: []kline.PositionModel{{Body: kline.Rect{X: 0, Width: 1}}, {Body: kline.Rect{X: 2, Width: 1}}},
		Trends:    []kline.Trend{kline.TrendBullish, kline.TrendBearish},
		MaxVolume: 100,
	}
	p := &volumePane{frame: frame, palette: newPalette(false, English), lang: English}
	p.HandleChartEvent(kline.Event{Kind: kline.EventColors, Frame: frame})

	view := p.render(4, 4, -1)
	assert.Equal(t, 6, strings.Count(view, "█"), "第一根满高 4 格，第二根 2 格")
	assert.Contains(t, view, "100")

	view = p.render(4, 4, 1)
	assert.Equal(t, 4, strings.Count(view, "┊"), "十字线竖线贯穿副图")
}
