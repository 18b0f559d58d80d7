package main

// 文件路径常量
const (
	configFile      = "cmd/conf/config.yml"
	defaultDataFile = "data/sample_bars.json"
	defaultLogDir   = "logs"
	envFile         = ".env"
)

// 环境变量（覆盖配置文件）
const (
	envDataFile = "KLINE_DATA_FILE"
	envLanguage = "KLINE_LANGUAGE"
	envDebug    = "KLINE_DEBUG"
	envLogDir   = "KLINE_LOG_DIR"
)

// 语言常量
type Language string

const (
	Chinese Language = "zh"
	English Language = "en"
)

// 布局常量（单位：终端行/列）
const (
	headerLines   = 3  // 标题、统计信息、空行
	footerLines   = 2  // 空行、操作提示
	infoLines     = 5  // K线信息表格（边框 + 表头 + 一行数据）
	axisWidth     = 10 // 右侧价格轴宽度
	minChartRows  = 8
	minChartCols  = 20
	panStepBars   = 5   // 方向键每次拖动的K线数
	wheelZoomStep = 1.0 // 滚轮每格增减的单根宽度
)

// 图表区域
type ChartPane int

const (
	PaneNone   ChartPane = iota
	PaneMain             // 主图
	PaneVolume           // 成交量副图
)
