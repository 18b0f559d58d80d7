package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseLogLevel 测试配置中的级别名称
func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
		desc     string
	}{
		{"debug", LogDebug, "调试"},
		{" WARN ", LogWarn, "大写加空格"},
		{"warning", LogWarn, "warning 别名"},
		{"error", LogError, "错误"},
		{"verbose", LogInfo, "未知名称按 info"},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.input); got != tt.expected {
			t.Errorf("%s: parseLogLevel(%q) = %v, expected %v", tt.desc, tt.input, got, tt.expected)
		}
	}
}

// TestLoggerWritesDailyFile 日志按天写入日志目录，低于级别的消息被过滤
func TestLoggerWritesDailyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, InitLogger(dir, LogInfo))
	t.Cleanup(func() {
		globalLogger.Sync()
		globalLogger = nil
	})

	logInfo("log.series.loaded", "memory", 3, "SH600000", "equity")
	logDebug("log.chart.layout", 1, 2, 3, 4, 5)
	engineLogger("kline.main").Info("series reset")
	globalLogger.Sync()

	path := filepath.Join(dir, fmt.Sprintf("kline-monitor-%s.log", time.Now().Format("2006-01-02")))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "[INFO]")
	assert.Contains(t, content, "[log.series.loaded]")
	assert.Contains(t, content, "SH600000")
	assert.NotContains(t, content, "log.chart.layout", "DEBUG 低于 INFO 不输出")
	assert.Contains(t, content, "[kline.main]")
}
