package main

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ============================================================================
// 价格格式化
// ============================================================================

// formatPrice 根据价格量级动态选择精度；places > 0 时使用固定小数位
func formatPrice(value float64, places int) string {
	if places > 0 {
		return fmt.Sprintf("%.*f", places, value)
	}
	abs := math.Abs(value)
	switch {
	case abs >= 100:
		return fmt.Sprintf("%.1f", value) // 100+ → 150.5
	case abs >= 10:
		return fmt.Sprintf("%.2f", value) // 10-100 → 35.25
	case abs >= 1:
		return fmt.Sprintf("%.3f", value) // 1-10 → 5.745
	default:
		return fmt.Sprintf("%.4f", value) // <1 → 0.7452
	}
}

// formatChange 涨跌额与涨跌幅："+1.23 (+0.45%)"，基准不可用时为 "-"
func formatChange(price, base float64) string {
	if base <= 0 {
		return "-"
	}
	change := price - base
	return fmt.Sprintf("%+.2f (%+.2f%%)", change, change/base*100)
}

// ============================================================================
// 成交量格式化
// 中文：万 / 亿；英文：千分位分组
// ============================================================================

var (
	zhPrinter = message.NewPrinter(language.SimplifiedChinese)
	enPrinter = message.NewPrinter(language.English)
)

// formatVolume 格式化成交量
func formatVolume(volume float64, lang Language) string {
	if lang == Chinese {
		switch {
		case volume >= 1e8:
			return zhPrinter.Sprintf("%.2f亿", volume/1e8)
		case volume >= 1e4:
			return zhPrinter.Sprintf("%.2f万", volume/1e4)
		default:
			return zhPrinter.Sprintf("%d", int64(volume))
		}
	}
	switch {
	case volume >= 1e9:
		return enPrinter.Sprintf("%.2fB", volume/1e9)
	case volume >= 1e6:
		return enPrinter.Sprintf("%.2fM", volume/1e6)
	default:
		return enPrinter.Sprintf("%d", int64(volume))
	}
}
