package kline

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ============================================================================
// 枚举类型
// ============================================================================

// InstrumentType 品种类型：股票或指数
type InstrumentType int

const (
	InstrumentEquity InstrumentType = iota // 股票
	InstrumentIndex                        // 指数
)

// LineMode 线类型：K线或分时线
type LineMode int

const (
	LineCandlestick LineMode = iota // K线（蜡烛图）
	LineTimeline                    // 分时线（仅收盘价）
)

// AnchorPolicy 数据不足一屏时的对齐方式
type AnchorPolicy int

const (
	AnchorLeft  AnchorPolicy = iota // 左对齐
	AnchorRight                     // 右对齐
)

// Trend 单根K线的涨跌分类
type Trend int

const (
	TrendNeutral Trend = iota // 平
	TrendBullish              // 涨
	TrendBearish              // 跌
)

var (
	instrumentNames = []string{"equity", "index"}
	lineModeNames   = []string{"candlestick", "timeline"}
	anchorNames     = []string{"left", "right"}
	trendNames      = []string{"neutral", "bullish", "bearish"}
)

func enumName(names []string, v int) string {
	if v < 0 || v >= len(names) {
		return fmt.Sprintf("unknown(%d)", v)
	}
	return names[v]
}

func parseEnum(names []string, kind, s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown %s %q", ErrInvalidConfiguration, kind, s)
}

func (t InstrumentType) String() string { return enumName(instrumentNames, int(t)) }
func (m LineMode) String() string       { return enumName(lineModeNames, int(m)) }
func (a AnchorPolicy) String() string   { return enumName(anchorNames, int(a)) }
func (t Trend) String() string          { return enumName(trendNames, int(t)) }

// ParseInstrumentType 解析品种类型名称 ("equity" / "index")
func ParseInstrumentType(s string) (InstrumentType, error) {
	v, err := parseEnum(instrumentNames, "instrument type", s)
	return InstrumentType(v), err
}

// ParseLineMode 解析线类型名称 ("candlestick" / "timeline")
func ParseLineMode(s string) (LineMode, error) {
	v, err := parseEnum(lineModeNames, "line mode", s)
	return LineMode(v), err
}

// ParseAnchorPolicy 解析对齐方式名称 ("left" / "right")
func ParseAnchorPolicy(s string) (AnchorPolicy, error) {
	v, err := parseEnum(anchorNames, "anchor policy", s)
	return AnchorPolicy(v), err
}

func (t InstrumentType) valid() bool { return t == InstrumentEquity || t == InstrumentIndex }
func (m LineMode) valid() bool       { return m == LineCandlestick || m == LineTimeline }
func (a AnchorPolicy) valid() bool   { return a == AnchorLeft || a == AnchorRight }

// ============================================================================
// YAML 编解码（配置文件中使用名称而非数字）
// ============================================================================

func (t InstrumentType) MarshalYAML() (any, error) { return t.String(), nil }
func (m LineMode) MarshalYAML() (any, error)       { return m.String(), nil }
func (a AnchorPolicy) MarshalYAML() (any, error)   { return a.String(), nil }

func (t *InstrumentType) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseInstrumentType(value.Value)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (m *LineMode) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseLineMode(value.Value)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (a *AnchorPolicy) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseAnchorPolicy(value.Value)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ============================================================================
// 数据模型
// ============================================================================

// Bar 一根K线（时间桶内的价格与成交量）
// 入库后不可变，Index 与 Trend 由 Series.Reset 写入
type Bar struct {
	Index  int       `json:"index"`
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
	Trend  Trend     `json:"trend"`
}

// Rect 屏幕坐标矩形
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// PositionModel 单根可见K线在当前帧中的屏幕坐标
// Index 仅作为查找键回指 Series 中的 Bar
type PositionModel struct {
	Index   int
	XCenter float64
	YOpen   float64
	YHigh   float64
	YLow    float64
	YClose  float64
	Body    Rect
}
