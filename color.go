package main

import (
	"kline-monitor/kline"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/text"
)

// ============================================================================
// 涨跌配色
// A股红涨绿跌；非A股按界面语言：中文红涨绿跌，英文绿涨红跌
// ============================================================================

// Palette 涨跌配色
type Palette struct {
	upIsRed bool
}

// newPalette 根据市场与语言选择配色
func newPalette(aShare bool, lang Language) Palette {
	return Palette{upIsRed: aShare || lang == Chinese}
}

// 终端 256 色编号
const (
	colorRed     = lipgloss.Color("9")
	colorGreen   = lipgloss.Color("10")
	colorWhite   = lipgloss.Color("15")
	colorCyan    = lipgloss.Color("14")
	colorYellow  = lipgloss.Color("11")
	colorGrey    = lipgloss.Color("240")
	colorDimGrey = lipgloss.Color("238")
)

// Style 趋势对应的 lipgloss 样式（画布使用）
func (p Palette) Style(t kline.Trend) lipgloss.Style {
	switch t {
	case kline.TrendBullish:
		if p.upIsRed {
			return lipgloss.NewStyle().Foreground(colorRed)
		}
		return lipgloss.NewStyle().Foreground(colorGreen)
	case kline.TrendBearish:
		if p.upIsRed {
			return lipgloss.NewStyle().Foreground(colorGreen)
		}
		return lipgloss.NewStyle().Foreground(colorRed)
	default:
		return lipgloss.NewStyle().Foreground(colorWhite)
	}
}

// TextColor 趋势对应的 go-pretty 颜色（表格使用）
func (p Palette) TextColor(t kline.Trend) text.Colors {
	switch t {
	case kline.TrendBullish:
		if p.upIsRed {
			return text.Colors{text.FgRed}
		}
		return text.Colors{text.FgGreen}
	case kline.TrendBearish:
		if p.upIsRed {
			return text.Colors{text.FgGreen}
		}
		return text.Colors{text.FgRed}
	default:
		return text.Colors{}
	}
}

// trendOf 价格相对基准的涨跌
func trendOf(price, base float64) kline.Trend {
	switch {
	case base <= 0 || price == base:
		return kline.TrendNeutral
	case price > base:
		return kline.TrendBullish
	default:
		return kline.TrendBearish
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	faintStyle = lipgloss.NewStyle().Faint(true)
	axisStyle  = lipgloss.NewStyle().Foreground(colorGrey)
	crossStyle = lipgloss.NewStyle().Foreground(colorYellow)
	baseStyle  = lipgloss.NewStyle().Foreground(colorDimGrey)
	errorStyle = lipgloss.NewStyle().Foreground(colorRed)
)
