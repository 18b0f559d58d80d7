package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"kline-monitor/kline"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ============================================================================
// Config 配置文件持久化
// ============================================================================

// defaultChartConfig 终端环境下的图表配置：1 像素 = 1 列 / 1 行
func defaultChartConfig() kline.Config {
	cfg := kline.DefaultConfig()
	cfg.MinBarWidth = 1
	cfg.MaxBarWidth = 9
	cfg.InitialBarWidth = 3
	cfg.BarGap = 1
	cfg.TopInset = 1
	cfg.BottomInset = 1
	cfg.Anchor = kline.AnchorRight
	return cfg
}

// getDefaultConfig 获取默认配置
func getDefaultConfig() Config {
	return Config{
		System: SystemConfig{
			Language:  "en",  // 默认英文
			DebugMode: false, // 调试模式关闭
			LogDir:    defaultLogDir,
			LogLevel:  "info",
		},
		Display: DisplayConfig{
			DecimalPlaces: 0,       // 按价格量级自动选择
			TableStyle:    "light", // 轻量表格样式
			VolumeRows:    6,
			ShowInfo:      true,
		},
		Data: DataConfig{
			File: defaultDataFile,
		},
		Chart: defaultChartConfig(),
	}
}

// loadConfig 加载配置文件；文件不存在时写入默认配置，之后应用 .env 与环境变量覆盖
func loadConfig(path string) (Config, error) {
	config := getDefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := saveConfig(path, config); err != nil {
			logWarn("log.config.saveFailed", path, err)
		}
	case err != nil:
		return config, fmt.Errorf("read config %s: %w", path, err)
	default:
		// 未出现的字段保持默认值
		if err := yaml.Unmarshal(data, &config); err != nil {
			return getDefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(&config)
	sanitizeConfig(&config)

	if err := config.Chart.Validate(); err != nil {
		return config, fmt.Errorf("chart config: %w", err)
	}
	return config, nil
}

// saveConfig 保存配置文件
func saveConfig(path string, config Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// loadDotEnv 加载 .env（不存在时忽略），已有的环境变量不会被覆盖
func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("Warning: Failed to load %s: %v\n", path, err)
	}
}

// applyEnvOverrides 环境变量覆盖配置文件
func applyEnvOverrides(config *Config) {
	if v := strings.TrimSpace(os.Getenv(envDataFile)); v != "" {
		config.Data.File = v
	}
	if v := strings.TrimSpace(os.Getenv(envLanguage)); v != "" {
		config.System.Language = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(envDebug)); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			config.System.DebugMode = debug
		}
	}
	if v := strings.TrimSpace(os.Getenv(envLogDir)); v != "" {
		config.System.LogDir = v
	}
}

// sanitizeConfig 修正明显不合理的显示配置
func sanitizeConfig(config *Config) {
	if config.System.Language != string(Chinese) && config.System.Language != string(English) {
		config.System.Language = string(English)
	}
	if config.System.LogDir == "" {
		config.System.LogDir = defaultLogDir
	}
	if config.Display.DecimalPlaces < 0 || config.Display.DecimalPlaces > 6 {
		config.Display.DecimalPlaces = 0
	}
	if config.Display.VolumeRows < 0 || config.Display.VolumeRows > 20 {
		config.Display.VolumeRows = 6
	}
	if config.Data.File == "" {
		config.Data.File = defaultDataFile
	}
}
