package main

import (
	"fmt"
	"os"
	"strings"

	"kline-monitor/kline"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func main() {
	loadDotEnv(envFile)

	config, cfgErr := loadConfig(configFile)

	if err := loadI18nFiles(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	if err := InitLogger(config.System.LogDir, parseLogLevel(config.System.LogLevel)); err != nil {
		fmt.Printf("Warning: Failed to initialize logger: %v\n", err)
	}
	if cfgErr != nil {
		// 配置有误时以默认图表配置启动，错误写入日志与调试面板
		logError("log.config.invalid", cfgErr)
		config.Chart = defaultChartConfig()
	}

	m, err := newModel(config)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	globalModel = m
	if cfgErr != nil {
		m.addDebugLog(fmt.Sprintf("%s: %v", m.getText("loadError"), cfgErr))
	}

	logInfo("log.app.start", config.Data.File, config.Chart.LineMode, config.Chart.InstrumentType)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithReportFocus())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if globalLogger != nil {
		globalLogger.Sync()
	}
}

// newModel 创建主模型：主图引擎与成交量引擎加入同一个共享滚动组
func newModel(config Config) (*Model, error) {
	m := &Model{
		config:    config,
		language:  Language(config.System.Language),
		debugMode: config.System.DebugMode,
		scrollReg: kline.NewScrollRegistry(),
	}

	var err error
	m.engine, err = kline.NewEngine(config.Chart, kline.WithLogger(engineLogger("kline.main")))
	if err != nil {
		return nil, fmt.Errorf("create chart engine: %w", err)
	}

	volCfg := config.Chart
	volCfg.TopInset, volCfg.BottomInset, volCfg.PlotHeight = 0, 0, 0
	m.volumeEngine, err = kline.NewEngine(volCfg, kline.WithLogger(engineLogger("kline.volume")))
	if err != nil {
		return nil, fmt.Errorf("create volume engine: %w", err)
	}

	palette := newPalette(false, m.language)
	m.mainPane = &mainPane{palette: palette, places: config.Display.DecimalPlaces}
	m.volumePane = &volumePane{palette: palette, lang: m.language}
	m.info = &infoPanel{prevClose: m.prevClose}

	m.engine.Subscribe(m.mainPane)
	m.engine.Subscribe(m.info)
	m.volumeEngine.Subscribe(m.volumePane)

	m.scrollGroup = m.scrollReg.NewGroup()
	m.engine.JoinScrollGroup(m.scrollReg, m.scrollGroup)
	m.volumeEngine.JoinScrollGroup(m.scrollReg, m.scrollGroup)
	return m, nil
}

// engines 所有图表引擎
func (m *Model) engines() []*kline.Engine {
	return []*kline.Engine{m.engine, m.volumeEngine}
}

// shutdown 退出前移除监听者并离开共享滚动组
func (m *Model) shutdown() {
	for _, e := range m.engines() {
		e.Close()
	}
	logInfo("log.app.exit")
}

// ============================================================================
// 数据加载
// ============================================================================

// loadSeriesCmd 异步加载K线文件
func loadSeriesCmd(path string) tea.Cmd {
	return func() tea.Msg {
		sf, err := loadSeriesFile(path)
		return seriesLoadedMsg{path: path, series: sf, err: err}
	}
}

// applySeries 把加载结果送入两个引擎
func (m *Model) applySeries(msg seriesLoadedMsg) {
	if msg.err != nil {
		m.loadError = msg.err
		logWarn("log.series.loadFailed", msg.path, msg.err)
		return
	}
	bars, err := msg.series.toKlineBars()
	if err != nil {
		m.loadError = err
		logWarn("log.series.loadFailed", msg.path, err)
		return
	}

	m.series = msg.series
	m.loadError = nil

	palette := newPalette(m.series.isAShare(), m.language)
	m.mainPane.palette = palette
	m.volumePane.palette = palette

	instrument := m.series.instrumentType(m.config.Chart.InstrumentType)
	for _, e := range m.engines() {
		if err := e.SetInstrumentType(instrument); err != nil {
			logWarn("log.chart.instrumentFailed", instrument, err)
		}
		e.SetReferencePrice(m.series.PrevClose)
		e.Reset(bars)
	}

	logInfo("log.series.loaded", msg.path, len(bars), m.series.Code, instrument)
	m.logUserAction("debug.action.loaded", m.series.Code, len(bars))
}

// prevClose index 前一根K线的收盘价；首根使用参考价，参考价不可用时使用开盘价
func (m *Model) prevClose(index int) float64 {
	if index > 0 {
		if prev, err := m.engine.Bars(index-1, index); err == nil && len(prev) == 1 {
			return prev[0].Close
		}
	}
	if ref := m.engine.ReferencePrice(); ref > 0 {
		return ref
	}
	if first, err := m.engine.Bars(0, 1); err == nil && len(first) == 1 {
		return first[0].Open
	}
	return 0
}

// ============================================================================
// 布局
// ============================================================================

// relayout 根据终端尺寸重新分配区域并通知引擎
func (m *Model) relayout() {
	l := chartLayout{chartTop: headerLines}
	l.chartCols = m.termWidth - axisWidth

	rows := m.termHeight - headerLines - footerLines
	if m.config.Display.ShowInfo {
		rows -= infoLines
	}
	if m.debugMode {
		rows -= debugPanelLines
	}
	if m.config.Display.VolumeRows > 0 && rows-m.config.Display.VolumeRows >= minChartRows {
		l.volumeRows = m.config.Display.VolumeRows
		rows -= l.volumeRows
	}
	l.chartRows = rows
	l.volumeTop = l.chartTop + l.chartRows

	if l.chartCols < minChartCols || l.chartRows < minChartRows {
		l = chartLayout{}
	}
	m.layout = l

	m.engine.OnViewportResize(float64(l.chartCols), float64(l.chartRows))
	m.volumeEngine.OnViewportResize(float64(l.chartCols), float64(l.volumeRows))
	logDebug("log.chart.layout", m.termWidth, m.termHeight, l.chartCols, l.chartRows, l.volumeRows)
}

// ============================================================================
// bubbletea
// ============================================================================

func (m *Model) Init() tea.Cmd {
	return loadSeriesCmd(m.config.Data.File)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
		m.relayout()
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.BlurMsg:
		m.cancelGesture()
	case seriesLoadedMsg:
		m.applySeries(msg)
	}
	return m, nil
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")

	switch {
	case m.loadError != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("%s: %s", m.getText("loadError"), m.loadError.Error())))
		b.WriteString("\n\n")
		b.WriteString(m.getText("noDataAvailable"))
		b.WriteString("\n")
	case m.layout.chartRows == 0:
		b.WriteString(m.getText("terminalTooSmall"))
		b.WriteString("\n\n")
		b.WriteString(m.getText("pleaseResize"))
		b.WriteString("\n")
	default:
		b.WriteString(m.mainPane.render(m.layout.chartCols, m.layout.chartRows))
		b.WriteString("\n")
		if m.layout.volumeRows > 0 {
			b.WriteString(m.volumePane.render(m.layout.chartCols, m.layout.volumeRows, m.mainPane.crossCol()))
			b.WriteString("\n")
		}
		if m.config.Display.ShowInfo {
			b.WriteString(m.info.render(m))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(faintStyle.Render(m.getText("controls")))
	b.WriteString(m.renderDebugPanel())
	return b.String()
}

// viewHeader 标题与统计信息（两行）
func (m *Model) viewHeader() string {
	mode := m.getText("candlestick")
	if m.engine.Config().LineMode == kline.LineTimeline {
		mode = m.getText("timeline")
	}
	instrument := m.getText("equity")
	if m.engine.Config().InstrumentType == kline.InstrumentIndex {
		instrument = m.getText("index")
	}

	name := m.getText("noChartData")
	if m.series != nil {
		name = fmt.Sprintf("%s (%s) [%s]", m.series.Code, m.series.Name, m.marketLabel())
	}
	title := titleStyle.Render(fmt.Sprintf("📈 %s - %s - %s / %s", m.getText("klineChart"), name, mode, instrument))

	return lipgloss.JoinVertical(lipgloss.Left, title, m.viewStats())
}

// viewStats 最新一根K线相对参考价的涨跌
func (m *Model) viewStats() string {
	n := m.engine.Len()
	if n == 0 {
		return ""
	}
	last, err := m.engine.Bars(n-1, n)
	if err != nil {
		return ""
	}
	bar := last[0]
	base := m.prevClose(bar.Index)
	places := m.config.Display.DecimalPlaces

	style := m.mainPane.palette.Style(trendOf(bar.Close, base))
	return style.Render(fmt.Sprintf("%s: %s  %s: %s  %s: %s  %s: %s  %s: %s",
		m.getText("prevClose"), formatPrice(base, places),
		m.getText("close"), formatPrice(bar.Close, places),
		m.getText("high"), formatPrice(bar.High, places),
		m.getText("low"), formatPrice(bar.Low, places),
		m.getText("change"), formatChange(bar.Close, base),
	))
}

// marketLabel 市场标签
func (m *Model) marketLabel() string {
	switch m.series.Market {
	case "CN":
		return m.getText("marketChina")
	case "HK":
		return m.getText("marketHongKong")
	case "US":
		return m.getText("marketUS")
	default:
		return m.getText("market")
	}
}
