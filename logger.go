package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ============================================================================
// 日志级别定义
// ============================================================================

// LogLevel 日志级别
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarn
	LogError
)

// parseLogLevel 配置中的级别名称，未知名称按 info 处理
func parseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogDebug
	case "warn", "warning":
		return LogWarn
	case "error":
		return LogError
	default:
		return LogInfo
	}
}

// ============================================================================
// Logger 结构
// ============================================================================

// Logger 封装 zap logger：按天切换文件，单个文件超过上限时由 lumberjack 滚动
type Logger struct {
	mu         sync.Mutex  // 保护 zap 实例和 currentDay 的并发访问
	zap        *zap.Logger // zap logger 实例
	sink       *lumberjack.Logger
	currentDay string // 当前日志文件对应的日期 (YYYY-MM-DD)
	logDir     string // 日志目录路径
	level      LogLevel
}

var globalLogger *Logger

// 单个日志文件的滚动参数
const (
	logMaxSizeMB  = 10
	logMaxBackups = 5
	logMaxAgeDays = 30
)

// ============================================================================
// 初始化
// ============================================================================

// InitLogger 初始化全局日志系统
func InitLogger(logDir string, level LogLevel) error {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	globalLogger = &Logger{
		logDir: logDir,
		level:  level,
	}
	return globalLogger.rotateIfNeeded()
}

// ============================================================================
// 日志轮转
// ============================================================================

// rotateIfNeeded 跨天时切换到新的日志文件
func (l *Logger) rotateIfNeeded() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	today := time.Now().Format("2006-01-02")
	if l.currentDay == today && l.zap != nil {
		return nil
	}

	if l.zap != nil {
		l.zap.Sync()
	}
	if l.sink != nil {
		l.sink.Close()
	}

	l.sink = &lumberjack.Logger{
		Filename:   filepath.Join(l.logDir, fmt.Sprintf("kline-monitor-%s.log", today)),
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:    "time",
		LevelKey:   "level",
		NameKey:    "logger",
		MessageKey: "msg",
		LineEnding: zapcore.DefaultLineEnding,
		// [2006-01-02 15:04:05][DEBUG]
		EncodeLevel: bracketLevelEncoder,
		EncodeTime:  bracketTimeEncoder,
		EncodeName:  bracketNameEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(l.sink),
		levelToZapLevel(l.level),
	)

	l.zap = zap.New(core)
	l.currentDay = today
	return nil
}

// ============================================================================
// 编码器
// ============================================================================

// bracketTimeEncoder 自定义时间编码器: [2006-01-02 15:04:05]
func bracketTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + t.Format("2006-01-02 15:04:05") + "]")
}

// bracketLevelEncoder 自定义级别编码器: [DEBUG]
func bracketLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + l.CapitalString() + "]")
}

// bracketNameEncoder 子 logger 名称: [kline]
func bracketNameEncoder(name string, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + name + "]")
}

// levelToZapLevel 将自定义 LogLevel 转换为 zapcore.Level
func levelToZapLevel(l LogLevel) zapcore.Level {
	switch l {
	case LogDebug:
		return zapcore.DebugLevel
	case LogInfo:
		return zapcore.InfoLevel
	case LogWarn:
		return zapcore.WarnLevel
	case LogError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// ============================================================================
// 日志接口
// ============================================================================

// Log 统一日志接口
// pathKey: i18n 键名（作为日志标识符，便于过滤），为空时不输出
func (l *Logger) Log(level LogLevel, pathKey string, message string) {
	l.rotateIfNeeded()

	formatted := "[" + message + "]"
	if pathKey != "" {
		formatted = "[" + pathKey + "]" + formatted
	}

	z := l.current()
	switch level {
	case LogDebug:
		z.Debug(formatted)
	case LogInfo:
		z.Info(formatted)
	case LogWarn:
		z.Warn(formatted)
	case LogError:
		z.Error(formatted)
	}
}

// Named 子 logger（图表引擎使用结构化字段输出）
func (l *Logger) Named(name string) *zap.Logger {
	l.rotateIfNeeded()
	return l.current().Named(name)
}

func (l *Logger) current() *zap.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.zap
}

// Sync 刷新缓冲区（应用退出时调用）
func (l *Logger) Sync() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.zap != nil {
		l.zap.Sync()
	}
	if l.sink != nil {
		l.sink.Close()
	}
}
