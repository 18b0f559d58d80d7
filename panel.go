package main

import (
	"strings"

	"kline-monitor/kline"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// ============================================================================
// K线信息表格
// 长按时显示选中的K线，否则显示可见区间的最后一根
// ============================================================================

type infoPanel struct {
	latest    *kline.Bar
	selection *kline.Selection

	// prevClose 返回 index 前一根的收盘价，首根时返回参考价
	prevClose func(index int) float64
}

// HandleChartEvent 实现 kline.Listener
func (p *infoPanel) HandleChartEvent(ev kline.Event) {
	switch ev.Kind {
	case kline.EventBars:
		p.latest = nil
		if n := len(ev.Frame.Bars); n > 0 {
			last := ev.Frame.Bars[n-1]
			p.latest = &last
		}
	case kline.EventLongPress:
		p.selection = ev.Selection
	case kline.EventLongPressCleared:
		p.selection = nil
	}
}

// current 当前展示的K线
func (p *infoPanel) current() (kline.Bar, bool) {
	if p.selection != nil {
		return p.selection.Bar, true
	}
	if p.latest != nil {
		return *p.latest, true
	}
	return kline.Bar{}, false
}

// tableStyles 配置名称到 go-pretty 样式
var tableStyles = map[string]table.Style{
	"light":   table.StyleLight,
	"bold":    table.StyleBold,
	"rounded": table.StyleRounded,
	"double":  table.StyleDouble,
	"default": table.StyleDefault,
}

// render 渲染表格；没有数据时返回空字符串
func (p *infoPanel) render(m *Model) string {
	bar, ok := p.current()
	if !ok {
		return ""
	}

	base := 0.0
	if p.prevClose != nil {
		base = p.prevClose(bar.Index)
	}
	places := m.config.Display.DecimalPlaces
	color := m.mainPane.palette.TextColor(trendOf(bar.Close, base))

	t := table.NewWriter()
	style, ok := tableStyles[strings.ToLower(m.config.Display.TableStyle)]
	if !ok {
		style = table.StyleLight
	}
	t.SetStyle(style)
	t.AppendHeader(table.Row{
		m.getText("time"), m.getText("open"), m.getText("high"), m.getText("low"),
		m.getText("close"), m.getText("change"), m.getText("volume"),
	})
	t.AppendRow(table.Row{
		formatBarTime(bar),
		formatPrice(bar.Open, places),
		formatPrice(bar.High, places),
		formatPrice(bar.Low, places),
		color.Sprint(formatPrice(bar.Close, places)),
		color.Sprint(formatChange(bar.Close, base)),
		formatVolume(bar.Volume, m.language),
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})
	return t.Render()
}

// formatBarTime 日线只显示日期，分钟线显示到分钟
func formatBarTime(b kline.Bar) string {
	if b.Time.IsZero() {
		return "-"
	}
	if b.Time.Hour() == 0 && b.Time.Minute() == 0 {
		return b.Time.Format("2006-01-02")
	}
	return b.Time.Format("2006-01-02 15:04")
}
