package main

import (
	"kline-monitor/kline"

	tea "github.com/charmbracelet/bubbletea"
)

// ============================================================================
// 鼠标手势 → 引擎
// 左键拖动：拖动；右键按住：长按查看；滚轮：以指针为中心缩放
// ============================================================================

// mouseTracker 正在进行的鼠标手势
type mouseTracker struct {
	panning  bool
	pressing bool
	lastX    int
}

// paneAt 终端坐标所在的图表区域
func (m *Model) paneAt(x, y int) ChartPane {
	l := m.layout
	if x < 0 || x >= l.chartCols {
		return PaneNone
	}
	switch {
	case y >= l.chartTop && y < l.chartTop+l.chartRows:
		return PaneMain
	case l.volumeRows > 0 && y >= l.volumeTop && y < l.volumeTop+l.volumeRows:
		return PaneVolume
	}
	return PaneNone
}

// handleMouse 处理鼠标事件
func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.engine == nil {
		return
	}
	x, y := float64(msg.X), float64(msg.Y-m.layout.chartTop)

	switch msg.Action {
	case tea.MouseActionPress:
		pane := m.paneAt(msg.X, msg.Y)
		switch msg.Button {
		case tea.MouseButtonLeft:
			if pane == PaneNone || m.mouse.pressing {
				return
			}
			m.engine.OnPanBegin()
			m.mouse.panning = true
			m.mouse.lastX = msg.X
		case tea.MouseButtonRight:
			if pane != PaneMain || m.mouse.panning {
				return
			}
			m.engine.OnLongPressBegin(x, y)
			m.mouse.pressing = true
			m.logUserAction("debug.action.longPress", msg.X, msg.Y)
		case tea.MouseButtonWheelUp:
			if pane != PaneNone {
				m.zoomAt(x, wheelZoomStep)
			}
		case tea.MouseButtonWheelDown:
			if pane != PaneNone {
				m.zoomAt(x, -wheelZoomStep)
			}
		}

	case tea.MouseActionMotion:
		switch {
		case m.mouse.panning:
			// 手指向右拖动显示更早的K线
			m.engine.OnPanDelta(float64(m.mouse.lastX - msg.X))
			m.mouse.lastX = msg.X
		case m.mouse.pressing:
			m.engine.OnLongPressMove(x, y)
		}

	case tea.MouseActionRelease:
		if m.mouse.panning {
			m.engine.OnPanEnd()
			m.mouse.panning = false
		}
		if m.mouse.pressing {
			m.engine.OnLongPressEnd()
			m.mouse.pressing = false
		}
	}
}

// zoomAt 以 midX 为锚点缩放一步（delta 为单根宽度的增减像素）
func (m *Model) zoomAt(midX, delta float64) {
	w := m.engine.Viewport().PerBarWidth
	if w <= 0 {
		return
	}
	m.engine.OnPinchBegin(midX)
	m.engine.OnPinchUpdate(max(w+delta, 0.01)/w, midX)
	m.engine.OnPinchEnd()
}

// ============================================================================
// 键盘 → 引擎
// ============================================================================

// panBars 拖动 n 根K线（负数向左，显示更早的数据）
// 鼠标拖动进行中时并入当前手势，不结束它，累积的不足一根的位移保留
func (m *Model) panBars(n int) {
	w := m.engine.Viewport().PerBarWidth
	if m.mouse.panning {
		m.engine.OnPanDelta(float64(n) * w)
		return
	}
	m.engine.OnPanBegin()
	m.engine.OnPanDelta(float64(n) * w)
	m.engine.OnPanEnd()
}

// cancelGesture 取消正在进行的手势（esc / 失去焦点）
func (m *Model) cancelGesture() {
	m.engine.OnGestureCancel()
	m.mouse = mouseTracker{}
}

// toggleLineMode K线 / 分时切换，主图与副图保持一致
func (m *Model) toggleLineMode() {
	mode := kline.LineTimeline
	if m.engine.Config().LineMode == kline.LineTimeline {
		mode = kline.LineCandlestick
	}
	for _, e := range m.engines() {
		if err := e.SetLineMode(mode); err != nil {
			logWarn("log.chart.modeFailed", mode, err)
		}
	}
	m.logUserAction("debug.action.lineMode", mode)
}

// toggleInstrument 股票 / 指数切换（涨跌分类规则随之变化）
func (m *Model) toggleInstrument() {
	t := kline.InstrumentIndex
	if m.engine.Config().InstrumentType == kline.InstrumentIndex {
		t = kline.InstrumentEquity
	}
	for _, e := range m.engines() {
		if err := e.SetInstrumentType(t); err != nil {
			logWarn("log.chart.instrumentFailed", t, err)
		}
	}
	m.logUserAction("debug.action.instrument", t)
}

// handleKey 处理键盘事件
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.shutdown()
		return m, tea.Quit
	case "r":
		m.logUserAction("debug.action.reload", m.config.Data.File)
		return m, loadSeriesCmd(m.config.Data.File)
	case "d":
		m.debugMode = !m.debugMode
		m.relayout()
		return m, nil
	}

	if m.debugMode {
		switch msg.String() {
		case "pgup":
			m.scrollDebugUp()
			return m, nil
		case "pgdown":
			m.scrollDebugDown()
			return m, nil
		}
	}

	if m.engine == nil {
		return m, nil
	}
	w := m.engine.Viewport().PerBarWidth
	switch msg.String() {
	case "esc":
		m.cancelGesture()
	case "left", "h":
		m.panBars(-panStepBars)
	case "right", "l":
		m.panBars(panStepBars)
	case "+", "=":
		m.engine.SetPerBarWidth(w + 1)
	case "-", "_":
		m.engine.SetPerBarWidth(w - 1)
	case "home":
		m.engine.ScrollTo(0)
	case "end":
		m.engine.ScrollToLatest()
	case "t":
		m.toggleLineMode()
	case "i":
		m.toggleInstrument()
	}
	return m, nil
}
