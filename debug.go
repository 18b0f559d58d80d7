package main

import (
	"fmt"
	"strings"
	"time"
)

// ============================================================================
// 调试日志系统
// ============================================================================

// globalModel 全局模型引用，用于调试日志记录
var globalModel *Model

// 调试面板占用的行数（分隔线 + 标题 + 状态 + 日志）
const (
	maxDebugLines   = 6
	debugPanelLines = maxDebugLines + 5
)

// addDebugLog 添加调试日志
func (m *Model) addDebugLog(msg string) {
	m.debugLogs = append(m.debugLogs, msg)
	// 用户在查看历史日志时保持当前位置不变
	if m.debugScrollPos > 0 {
		m.debugScrollPos++
	}
}

// logUserAction 记录用户操作（同时写入日志文件）
func (m *Model) logUserAction(actionKey string, args ...any) {
	logDebug(actionKey, args...)
	if m.debugMode {
		timestamp := time.Now().Format("15:04:05")
		prefix := m.getText("debug.action.prefix")
		action := fmt.Sprintf(m.getText(actionKey), args...)
		m.addDebugLog(fmt.Sprintf("[%s] %s %s", timestamp, prefix, action))
	}
}

// ============================================================================
// 调试日志滚动控制
// ============================================================================

// scrollDebugUp 向上滚动调试日志
func (m *Model) scrollDebugUp() {
	if m.debugScrollPos < len(m.debugLogs)-1 {
		m.debugScrollPos++
	}
}

// scrollDebugDown 向下滚动调试日志
func (m *Model) scrollDebugDown() {
	if m.debugScrollPos > 0 {
		m.debugScrollPos--
	}
}

// ============================================================================
// 调试面板渲染
// ============================================================================

// engineStatus 引擎状态一行摘要
func (m *Model) engineStatus() string {
	vs := m.engine.Viewport()
	g := m.engine.Gesture()
	seq := uint64(0)
	if f := m.engine.Frame(); f != nil {
		seq = f.Seq
	}
	return fmt.Sprintf("start=%d visible=%d/%d width=%.1f total=%.0f gesture=%s anchor=%d acc=%.1f seq=%d frames=%d group=%s",
		vs.StartIndex, vs.VisibleCount, vs.BarCount, vs.PerBarWidth, vs.TotalContentWidth,
		g.Mode, g.AnchorIndex, g.DragAccumulator, seq, m.mainPane.frames, m.scrollGroup.String()[:8])
}

// renderDebugPanel 渲染调试面板
func (m *Model) renderDebugPanel() string {
	if !m.debugMode {
		return ""
	}

	width := max(min(m.termWidth, 100), 40)
	var s strings.Builder
	s.WriteString("\n" + strings.Repeat("=", width) + "\n")

	totalLogs := len(m.debugLogs)
	currentPos := totalLogs - m.debugScrollPos
	fmt.Fprintf(&s, m.getText("debug.panel.title")+"\n", currentPos, totalLogs)
	s.WriteString(m.engineStatus() + "\n")
	s.WriteString(strings.Repeat("-", width) + "\n")

	endIndex := min(totalLogs-m.debugScrollPos, totalLogs)
	startIndex := max(endIndex-maxDebugLines, 0)
	for i := startIndex; i < endIndex; i++ {
		prefix := ""
		if i == endIndex-1 && m.debugScrollPos == 0 {
			prefix = "→ " // 标记最新日志
		}
		s.WriteString(prefix + m.debugLogs[i] + "\n")
	}

	s.WriteString(strings.Repeat("=", width))
	return s.String()
}
