package main

import (
	"fmt"

	"go.uber.org/zap"
)

// ============================================================================
// 日志函数 - 四个级别
// key: i18n 键名（如 "log.series.loaded"），args 替换文本中的占位符
// ============================================================================

func logDebug(key string, args ...any) { logKey(LogDebug, key, args...) }
func logInfo(key string, args ...any)  { logKey(LogInfo, key, args...) }
func logWarn(key string, args ...any)  { logKey(LogWarn, key, args...) }
func logError(key string, args ...any) { logKey(LogError, key, args...) }

// logKey 取 i18n 文本并格式化后写入日志文件
func logKey(level LogLevel, key string, args ...any) {
	if globalLogger == nil {
		return
	}
	text := getLogText(key)
	if len(args) > 0 {
		text = fmt.Sprintf(text, args...)
	}
	globalLogger.Log(level, key, text)
}

// getLogText 获取 i18n 日志文本，找不到时返回 key 本身
func getLogText(key string) string {
	if globalModel != nil {
		return globalModel.getText(key)
	}
	return getDebugText(key)
}

// ============================================================================
// 图表引擎 logger
// ============================================================================

// engineLogger 注入图表引擎的 zap logger，日志系统未初始化时返回 Nop
func engineLogger(name string) *zap.Logger {
	if globalLogger == nil {
		return zap.NewNop()
	}
	return globalLogger.Named(name)
}
