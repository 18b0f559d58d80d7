package main

import (
	"kline-monitor/kline"

	"github.com/google/uuid"
)

// Config 系统配置结构
type Config struct {
	System  SystemConfig  `yaml:"system"`  // 系统设置
	Display DisplayConfig `yaml:"display"` // 显示设置
	Data    DataConfig    `yaml:"data"`    // 数据源
	Chart   kline.Config  `yaml:"chart"`   // 图表引擎
}

// SystemConfig 系统设置
type SystemConfig struct {
	Language  string `yaml:"language"`   // 默认语言 "zh" 或 "en"
	DebugMode bool   `yaml:"debug_mode"` // 调试模式开关
	LogDir    string `yaml:"log_dir"`    // 日志目录
	LogLevel  string `yaml:"log_level"`  // debug / info / warn / error
}

// DisplayConfig 显示设置
type DisplayConfig struct {
	DecimalPlaces int    `yaml:"decimal_places"` // 价格显示小数位数（0 表示按价格量级自动选择）
	TableStyle    string `yaml:"table_style"`    // 表格样式 "light", "bold", "rounded"
	VolumeRows    int    `yaml:"volume_rows"`    // 成交量副图行数，0 表示不显示
	ShowInfo      bool   `yaml:"show_info"`      // 是否显示K线信息表格
}

// DataConfig 数据源设置
type DataConfig struct {
	File string `yaml:"file"` // K线文件（.json 或 .csv）
}

// TextMap 文本映射结构（用于i18n）
type TextMap map[string]string

// Model 应用程序主模型
type Model struct {
	config    Config
	language  Language
	debugMode bool

	debugLogs      []string // 调试日志存储
	debugScrollPos int      // debug日志滚动位置

	// 数据源
	series    *SeriesFile
	loadError error

	// 图表引擎：主图与成交量副图各一个，通过共享滚动组保持水平同步
	engine       *kline.Engine
	volumeEngine *kline.Engine
	scrollReg    *kline.ScrollRegistry
	scrollGroup  uuid.UUID

	mainPane   *mainPane
	volumePane *volumePane
	info       *infoPanel

	// 终端尺寸与布局
	termWidth  int
	termHeight int
	layout     chartLayout

	// 鼠标手势
	mouse mouseTracker
}

// chartLayout 各区域在终端中的位置
type chartLayout struct {
	chartTop   int // 主图第一行
	chartRows  int
	chartCols  int
	volumeTop  int // 副图第一行
	volumeRows int
}

// seriesLoadedMsg 数据加载完成消息
type seriesLoadedMsg struct {
	path   string
	series *SeriesFile
	err    error
}
