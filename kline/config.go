package kline

import (
	"fmt"
	"math"
)

// Config 图表引擎配置
type Config struct {
	InstrumentType  InstrumentType `yaml:"instrument_type"`   // 股票 / 指数
	LineMode        LineMode       `yaml:"line_mode"`         // K线 / 分时
	MinBarWidth     float64        `yaml:"min_bar_width"`     // 单根K线最小像素宽度
	MaxBarWidth     float64        `yaml:"max_bar_width"`     // 单根K线最大像素宽度
	InitialBarWidth float64        `yaml:"initial_bar_width"` // 初始宽度（0 表示取最小最大值的中点）
	BarGap          float64        `yaml:"bar_gap"`           // 相邻实体之间的间隔
	TopInset        float64        `yaml:"top_inset"`         // 绘图区顶部留白
	BottomInset     float64        `yaml:"bottom_inset"`      // 绘图区底部留白（PlotHeight 为 0 时参与计算）
	PlotHeight      float64        `yaml:"plot_height"`       // 绘图区高度（0 表示随视图高度变化）
	Anchor          AnchorPolicy   `yaml:"anchor"`            // 数据不足一屏时的对齐方式
	FollowLatest    bool           `yaml:"follow_latest"`     // 视图停在最右侧时，数据刷新后保持显示最新K线
	FlatRangeRatio  float64        `yaml:"flat_range_ratio"`  // 价格无波动时上下扩展的比例
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		InstrumentType:  InstrumentEquity,
		LineMode:        LineCandlestick,
		MinBarWidth:     2,
		MaxBarWidth:     20,
		InitialBarWidth: 8,
		BarGap:          1,
		TopInset:        10,
		BottomInset:     10,
		Anchor:          AnchorLeft,
		FollowLatest:    true,
		FlatRangeRatio:  0.005, // 0.5% 视觉空间
	}
}

// Validate 校验配置，错误立即返回而不做静默修正
func (c Config) Validate() error {
	if !c.InstrumentType.valid() {
		return fmt.Errorf("%w: instrument type %d", ErrInvalidConfiguration, c.InstrumentType)
	}
	if !c.LineMode.valid() {
		return fmt.Errorf("%w: line mode %d", ErrInvalidConfiguration, c.LineMode)
	}
	if !c.Anchor.valid() {
		return fmt.Errorf("%w: anchor policy %d", ErrInvalidConfiguration, c.Anchor)
	}
	if !isFinite(c.MinBarWidth) || c.MinBarWidth <= 0 {
		return fmt.Errorf("%w: min_bar_width must be positive, got %v", ErrInvalidConfiguration, c.MinBarWidth)
	}
	if !isFinite(c.MaxBarWidth) || c.MinBarWidth > c.MaxBarWidth {
		return fmt.Errorf("%w: min_bar_width %v > max_bar_width %v", ErrInvalidConfiguration, c.MinBarWidth, c.MaxBarWidth)
	}
	if c.InitialBarWidth != 0 && (c.InitialBarWidth < c.MinBarWidth || c.InitialBarWidth > c.MaxBarWidth) {
		return fmt.Errorf("%w: initial_bar_width %v outside [%v, %v]",
			ErrInvalidConfiguration, c.InitialBarWidth, c.MinBarWidth, c.MaxBarWidth)
	}
	if c.BarGap < 0 || c.TopInset < 0 || c.BottomInset < 0 || c.PlotHeight < 0 {
		return fmt.Errorf("%w: gap and insets must not be negative", ErrInvalidConfiguration)
	}
	if c.FlatRangeRatio < 0 || !isFinite(c.FlatRangeRatio) {
		return fmt.Errorf("%w: flat_range_ratio %v", ErrInvalidConfiguration, c.FlatRangeRatio)
	}
	return nil
}

// initialWidth 初始单根宽度
func (c Config) initialWidth() float64 {
	if c.InitialBarWidth > 0 {
		return c.InitialBarWidth
	}
	return (c.MinBarWidth + c.MaxBarWidth) / 2
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
