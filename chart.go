package main

import (
	"math"
	"strings"

	"kline-monitor/kline"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/charmbracelet/lipgloss"
)

// ============================================================================
// 主图：K线 / 分时线 + 十字线 + 价格轴
// 作为引擎监听者按顺序接收一帧的各部分，长按事件驱动十字线
// ============================================================================

type mainPane struct {
	rng       kline.PriceRange
	bars      []kline.Bar
	positions []kline.PositionModel
	trends    []kline.Trend
	frame     *kline.Frame
	selection *kline.Selection

	palette Palette
	places  int
	frames  int // 已接收的完整帧数（调试面板显示）
}

// HandleChartEvent 实现 kline.Listener
func (p *mainPane) HandleChartEvent(ev kline.Event) {
	switch ev.Kind {
	case kline.EventPriceRange:
		p.rng = ev.Frame.Range
	case kline.EventBars:
		p.bars = ev.Frame.Bars
	case kline.EventPositions:
		p.positions = ev.Frame.Positions
	case kline.EventColors:
		p.trends = ev.Frame.Trends
		p.frame = ev.Frame
		p.frames++
	case kline.EventLongPress:
		p.selection = ev.Selection
	case kline.EventLongPressCleared:
		p.selection = nil
	}
}

// render 绘制 cols × rows 的主图及右侧价格轴
func (p *mainPane) render(cols, rows int) string {
	c := canvas.New(cols, rows)
	if p.frame != nil && len(p.positions) > 0 {
		if p.frame.Mode == kline.LineTimeline {
			p.drawTimeline(&c, cols, rows)
		} else {
			p.drawCandles(&c, rows)
		}
	}
	if col := p.crossCol(); col >= 0 {
		drawCrosshair(&c, cols, rows, col, rowOf(p.selection.CrossY, rows))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, c.View(), p.renderAxis(rows))
}

// crossCol 十字线所在列，没有长按选中时返回 -1
func (p *mainPane) crossCol() int {
	if p.selection == nil || p.frame == nil {
		return -1
	}
	return colOf(p.frame.Viewport.ViewX(p.selection.CrossX))
}

// drawCandles 影线在列中心，实体覆盖扣除间隔后的列
func (p *mainPane) drawCandles(c *canvas.Model, rows int) {
	vp := p.frame.Viewport
	for i, pos := range p.positions {
		style := p.palette.Style(p.trends[i])
		x := colOf(vp.ViewX(pos.XCenter))
		for r := rowOf(pos.YHigh, rows); r <= rowOf(pos.YLow, rows); r++ {
			c.SetCell(canvas.Point{X: x, Y: r}, canvas.Cell{Rune: '│', Style: style})
		}

		body := '█'
		top, bottom := rowOf(pos.Body.Y, rows), rowOf(pos.Body.Y+pos.Body.Height, rows)
		if p.trends[i] == kline.TrendNeutral || pos.Body.Height < 0.5 {
			body = '─'
		}
		left, right := bodyColumns(vp, pos.Body)
		for r := top; r <= bottom; r++ {
			for col := left; col <= right; col++ {
				c.SetCell(canvas.Point{X: col, Y: r}, canvas.Cell{Rune: body, Style: style})
			}
		}
	}
}

// drawTimeline 参考价虚线 + 收盘价折线，颜色按最新价相对参考价
func (p *mainPane) drawTimeline(c *canvas.Model, cols, rows int) {
	last := p.bars[len(p.bars)-1]
	style := p.palette.Style(trendOf(last.Close, p.frame.Baseline))

	if p.frame.Baseline > 0 {
		by := rowOf(p.frame.Geometry.PriceToY(p.frame.Baseline, p.rng), rows)
		for x := 0; x < cols; x++ {
			c.SetCell(canvas.Point{X: x, Y: by}, canvas.Cell{Rune: '┈', Style: baseStyle})
		}
	}

	prevRow := -1
	for _, pos := range p.positions {
		x, r := colOf(p.frame.Viewport.ViewX(pos.XCenter)), rowOf(pos.YClose, rows)
		if prevRow >= 0 && prevRow != r {
			lo, hi := min(prevRow, r), max(prevRow, r)
			for y := lo; y <= hi; y++ {
				c.SetCell(canvas.Point{X: x, Y: y}, canvas.Cell{Rune: '│', Style: style})
			}
		}
		c.SetCell(canvas.Point{X: x, Y: r}, canvas.Cell{Rune: '•', Style: style})
		prevRow = r
	}
}

// renderAxis 价格轴：顶部、中部、底部刻度，长按时显示十字线价格
func (p *mainPane) renderAxis(rows int) string {
	lines := make([]string, rows)
	if p.frame != nil && !p.rng.Empty {
		g := p.frame.Geometry
		for _, y := range []float64{g.TopInset, g.TopInset + g.PlotHeight/2, g.TopInset + g.PlotHeight} {
			r := rowOf(y, rows)
			lines[r] = axisStyle.Render(" " + formatPrice(g.PriceAtY(y, p.rng), p.places))
		}
	}
	if p.selection != nil {
		r := rowOf(p.selection.CrossY, rows)
		lines[r] = crossStyle.Render(" " + formatPrice(p.selection.Price, p.places))
	}
	return strings.Join(lines, "\n")
}

// ============================================================================
// 成交量副图
// 使用独立引擎，与主图通过共享滚动组保持同一可见区间与单根宽度
// ============================================================================

type volumePane struct {
	frame   *kline.Frame
	palette Palette
	lang    Language
}

// HandleChartEvent 实现 kline.Listener
func (p *volumePane) HandleChartEvent(ev kline.Event) {
	if ev.Kind == kline.EventColors {
		p.frame = ev.Frame
	}
}

// volumeBlocks 八分之一高度的方块字符
var volumeBlocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// render 绘制成交量柱，crossCol >= 0 时画出与主图对齐的竖线
func (p *volumePane) render(cols, rows, crossCol int) string {
	c := canvas.New(cols, rows)
	if p.frame != nil && p.frame.MaxVolume > 0 {
		for i, pos := range p.frame.Positions {
			style := p.palette.Style(p.frame.Trends[i])
			h := p.frame.Bars[i].Volume / p.frame.MaxVolume * float64(rows)
			full := int(h)
			partial := int(math.Round((h - float64(full)) * 8))
			left, right := bodyColumns(p.frame.Viewport, pos.Body)
			for col := left; col <= right; col++ {
				for k := 0; k < full && k < rows; k++ {
					c.SetCell(canvas.Point{X: col, Y: rows - 1 - k}, canvas.Cell{Rune: '█', Style: style})
				}
				if partial > 0 && full < rows {
					c.SetCell(canvas.Point{X: col, Y: rows - 1 - full}, canvas.Cell{Rune: volumeBlocks[partial], Style: style})
				}
			}
		}
	}
	if crossCol >= 0 {
		for r := 0; r < rows; r++ {
			c.SetCell(canvas.Point{X: crossCol, Y: r}, canvas.Cell{Rune: '┊', Style: crossStyle})
		}
	}

	label := ""
	if p.frame != nil && p.frame.MaxVolume > 0 {
		label = axisStyle.Render(" " + formatVolume(p.frame.MaxVolume, p.lang))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, c.View(), label)
}

// ============================================================================
// 坐标换算：1 像素 = 1 列 / 1 行
// ============================================================================

func colOf(x float64) int {
	return int(math.Floor(x))
}

func rowOf(y float64, rows int) int {
	if math.IsNaN(y) {
		return 0
	}
	return min(max(int(math.Floor(y)), 0), rows-1)
}

// bodyColumns 实体覆盖的视图列（闭区间），至少一列
func bodyColumns(vp kline.ViewportState, body kline.Rect) (int, int) {
	x := vp.ViewX(body.X)
	left := int(math.Round(x))
	right := int(math.Round(x+body.Width)) - 1
	if right < left {
		right = left
	}
	return left, right
}

// drawCrosshair 十字线
func drawCrosshair(c *canvas.Model, cols, rows, x, y int) {
	for r := 0; r < rows; r++ {
		c.SetCell(canvas.Point{X: x, Y: r}, canvas.Cell{Rune: '┊', Style: crossStyle})
	}
	for col := 0; col < cols; col++ {
		c.SetCell(canvas.Point{X: col, Y: y}, canvas.Cell{Rune: '┈', Style: crossStyle})
	}
	c.SetCell(canvas.Point{X: x, Y: y}, canvas.Cell{Rune: '┼', Style: crossStyle})
}
