package kline

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxDeferredReplays 一次发布结束后最多重放的重入修改数，防止监听者之间互相触发死循环
const maxDeferredReplays = 64

// Option 引擎选项
type Option func(*Engine)

// WithLogger 注入 zap logger（默认 zap.NewNop）
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithID 指定引擎 ID（默认随机生成）
func WithID(id uuid.UUID) Option {
	return func(e *Engine) {
		e.id = id
	}
}

// Engine K线视口与交互引擎
// 每个图表一个实例，所有方法都应在同一个 UI 线程上调用，内部不加锁
type Engine struct {
	id     uuid.UUID
	cfg    Config
	series *Series
	vp     *Viewport
	geom   Geometry
	ctl    controller
	pub    publisher
	log    *zap.Logger

	reference float64 // 参考价（昨收）
	frame     *Frame
	seq       uint64

	selection *Selection
	touchX    float64
	touchY    float64

	publishing bool
	draining   bool
	pending    []func()

	scroll     scrollLink
	lastShared ScrollPosition
}

// NewEngine 创建引擎；配置非法时立即返回 ErrInvalidConfiguration
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		id:     uuid.New(),
		cfg:    cfg,
		series: NewSeries(cfg.InstrumentType),
		vp:     NewViewport(cfg),
		ctl:    newController(),
		log:    zap.NewNop(),
		geom: Geometry{
			TopInset:   cfg.TopInset,
			PlotHeight: cfg.PlotHeight,
			BarGap:     cfg.BarGap,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.rebuild()
	return e, nil
}

// ============================================================================
// 只读访问
// ============================================================================

// ID 引擎 ID
func (e *Engine) ID() uuid.UUID { return e.id }

// Config 当前配置（含运行中切换的线类型与品种类型）
func (e *Engine) Config() Config { return e.cfg }

// Frame 最近一次生成的帧
func (e *Engine) Frame() *Frame { return e.frame }

// Viewport 当前视口快照
func (e *Engine) Viewport() ViewportState { return e.vp.State() }

// Gesture 当前手势状态
func (e *Engine) Gesture() GestureState { return e.ctl.state }

// Geometry 当前纵向几何
func (e *Engine) Geometry() Geometry { return e.geom }

// Selection 当前长按选中，没有时返回 nil
func (e *Engine) Selection() *Selection { return e.selection }

// Len 序列长度
func (e *Engine) Len() int { return e.series.Len() }

// Bars 读取 [start, end) 区间
func (e *Engine) Bars(start, end int) ([]Bar, error) { return e.series.Slice(start, end) }

// ReferencePrice 当前参考价
func (e *Engine) ReferencePrice() float64 { return e.reference }

// ExactXForTouch 把原始 x 吸附到最近K线列中心
func (e *Engine) ExactXForTouch(rawX float64) (float64, int) {
	return ExactXForTouch(e.vp.State(), rawX)
}

// ExactYForTouch 把原始 y 限制在绘图区内
func (e *Engine) ExactYForTouch(rawY float64) float64 {
	return ExactYForTouch(e.geom, rawY)
}

// ============================================================================
// 监听者
// ============================================================================

// Subscribe 注册监听者，立即生效
func (e *Engine) Subscribe(l Listener) ListenerID {
	return e.pub.add(l)
}

// Unsubscribe 移除单个监听者
func (e *Engine) Unsubscribe(id ListenerID) bool {
	return e.pub.remove(id)
}

// RemoveAllObservers 移除所有监听者，丢弃引擎前必须调用
func (e *Engine) RemoveAllObservers() {
	e.pub.clear()
	e.log.Debug("all observers removed", zap.String("engine", e.id.String()))
}

// Close 移除所有监听者并退出共享滚动组
func (e *Engine) Close() {
	e.RemoveAllObservers()
	e.LeaveScrollGroup()
}

// ============================================================================
// 数据与配置输入
// ============================================================================

// Reset 整体替换K线序列（来自外部数据源）
func (e *Engine) Reset(bars []Bar) {
	e.mutate("reset", func() bool {
		e.series.Reset(bars)
		n := e.series.Len()
		e.vp.SetBarCount(n, e.cfg.FollowLatest)
		if e.ctl.state.Mode == GesturePinching && e.ctl.state.AnchorIndex >= n {
			e.ctl.state.AnchorIndex = n - 1
		}
		e.log.Debug("series reset", zap.Int("bars", n), zap.Int("start", e.vp.State().StartIndex))
		return true
	})
}

// SetReferencePrice 设置参考价（昨收），<= 0 表示不可用，回退到首根开盘价
func (e *Engine) SetReferencePrice(price float64) {
	e.mutate("reference", func() bool {
		if !isFinite(price) || price < 0 {
			price = 0
		}
		if price == e.reference {
			return false
		}
		e.reference = price
		return true
	})
}

// SetLineMode 切换K线/分时
func (e *Engine) SetLineMode(mode LineMode) error {
	if !mode.valid() {
		return fmt.Errorf("%w: line mode %d", ErrInvalidConfiguration, mode)
	}
	e.mutate("line-mode", func() bool {
		if e.cfg.LineMode == mode {
			return false
		}
		e.cfg.LineMode = mode
		return true
	})
	return nil
}

// SetInstrumentType 切换股票/指数，重新分类涨跌
func (e *Engine) SetInstrumentType(t InstrumentType) error {
	if !t.valid() {
		return fmt.Errorf("%w: instrument type %d", ErrInvalidConfiguration, t)
	}
	e.mutate("instrument", func() bool {
		if e.cfg.InstrumentType == t {
			return false
		}
		e.cfg.InstrumentType = t
		e.series.reclassify(t)
		return true
	})
	return nil
}

// OnViewportResize 布局变化
func (e *Engine) OnViewportResize(pixelWidth, pixelHeight float64) {
	e.mutate("resize", func() bool {
		if !isFinite(pixelWidth) {
			pixelWidth = 0
		}
		if !isFinite(pixelHeight) {
			pixelHeight = 0
		}
		e.vp.Resize(pixelWidth, pixelHeight, e.cfg.FollowLatest)
		if e.cfg.PlotHeight == 0 {
			e.geom.PlotHeight = max(e.vp.State().PixelHeight-e.cfg.TopInset-e.cfg.BottomInset, 0)
		}
		return true
	})
}

// SetPerBarWidth 直接设置单根宽度（按钮缩放等非手势场景）
func (e *Engine) SetPerBarWidth(w float64) {
	e.mutate("bar-width", func() bool {
		before := e.vp.State()
		e.vp.SetPerBarWidth(w)
		return e.vp.State() != before
	})
}

// ScrollTo 滚动到指定起始索引（越界被截断）
func (e *Engine) ScrollTo(index int) {
	e.mutate("scroll", func() bool {
		before := e.vp.State()
		e.vp.ScrollTo(index)
		return e.vp.State() != before
	})
}

// ScrollToLatest 滚动到最新K线
func (e *Engine) ScrollToLatest() {
	e.mutate("scroll-latest", func() bool {
		before := e.vp.State()
		e.vp.ScrollToLatest()
		return e.vp.State() != before
	})
}

// UpdateTotalWidth 重新计算内容总宽度（更新 MainView 宽度）
func (e *Engine) UpdateTotalWidth() {
	e.mutate("total-width", func() bool {
		before := e.vp.State()
		e.vp.UpdateTotalWidth()
		return e.vp.State() != before
	})
}

// Redraw 以当前状态重新生成并发布一帧
func (e *Engine) Redraw() {
	e.mutate("redraw", func() bool { return true })
}

// ============================================================================
// 手势输入
// ============================================================================

// OnPanBegin 拖动开始
func (e *Engine) OnPanBegin() {
	e.mutate("pan-begin", func() bool {
		e.ctl.begin(GesturePanning)
		return false
	})
}

// OnPanDelta 拖动增量（像素），空闲时隐式开始拖动
func (e *Engine) OnPanDelta(pixels float64) {
	e.mutate("pan", func() bool {
		if e.ctl.state.Mode == GestureIdle {
			e.ctl.begin(GesturePanning)
		}
		return e.ctl.panDelta(e.vp, pixels)
	})
}

// OnPanEnd 拖动结束
func (e *Engine) OnPanEnd() {
	e.mutate("pan-end", func() bool {
		e.ctl.end(GesturePanning)
		return false
	})
}

// OnPinchBegin 双指捏合开始，记录中点下的锚点K线
func (e *Engine) OnPinchBegin(midpointX float64) {
	e.mutate("pinch-begin", func() bool {
		if e.ctl.beginPinch(e.vp, midpointX) {
			e.log.Debug("pinch begin", zap.Int("anchor", e.ctl.state.AnchorIndex))
		}
		return false
	})
}

// OnPinchUpdate 捏合更新；scale 为相对开始时的累计比例，空闲时隐式开始
func (e *Engine) OnPinchUpdate(scale, midpointX float64) {
	e.mutate("pinch", func() bool {
		if e.ctl.state.Mode == GestureIdle {
			e.ctl.beginPinch(e.vp, midpointX)
		}
		return e.ctl.pinchUpdate(e.vp, scale, midpointX)
	})
}

// OnPinchEnd 捏合结束
func (e *Engine) OnPinchEnd() {
	e.mutate("pinch-end", func() bool {
		e.ctl.end(GesturePinching)
		return false
	})
}

// OnLongPressBegin 长按开始，解析手指下的K线并通知监听者
func (e *Engine) OnLongPressBegin(rawX, rawY float64) {
	e.mutate("long-press-begin", func() bool {
		if e.ctl.begin(GestureLongPressing) {
			e.resolveSelection(rawX, rawY)
		}
		return false
	})
}

// OnLongPressMove 长按拖动，持续重新解析
func (e *Engine) OnLongPressMove(rawX, rawY float64) {
	e.mutate("long-press-move", func() bool {
		if e.ctl.state.Mode == GestureLongPressing {
			e.resolveSelection(rawX, rawY)
		}
		return false
	})
}

// OnLongPressEnd 长按结束，通知监听者清除选中
func (e *Engine) OnLongPressEnd() {
	e.mutate("long-press-end", func() bool {
		if e.ctl.end(GestureLongPressing) {
			e.clearSelection()
		}
		return false
	})
}

// OnGestureCancel 系统打断：立即回到空闲，丢弃未提交的累计量
func (e *Engine) OnGestureCancel() {
	e.mutate("cancel", func() bool {
		prev := e.ctl.cancel()
		if prev == GestureLongPressing {
			e.clearSelection()
		}
		if prev != GestureIdle {
			e.log.Debug("gesture cancelled", zap.Stringer("mode", prev))
		}
		return false
	})
}

// ============================================================================
// 内部：修改、重建与发布
// ============================================================================

// mutate 执行一次状态修改，需要时重建并发布新帧
// 监听者回调中的重入调用会排队，等当前发布完成后按顺序执行
func (e *Engine) mutate(op string, fn func() bool) {
	if e.publishing {
		e.pending = append(e.pending, func() { e.mutate(op, fn) })
		e.log.Debug("re-entrant mutation deferred", zap.String("op", op))
		return
	}
	if fn() {
		e.commit()
	}
	e.drain()
}

// drain 重放排队的修改
func (e *Engine) drain() {
	if e.draining {
		return
	}
	e.draining = true
	defer func() { e.draining = false }()

	for n := 0; len(e.pending) > 0; n++ {
		if n >= maxDeferredReplays {
			e.log.Warn("dropping deferred mutations", zap.Int("count", len(e.pending)))
			e.pending = nil
			return
		}
		next := e.pending[0]
		e.pending = e.pending[1:]
		next()
	}
}

// commit 重建帧并按顺序发布；长按中则重新解析选中，最后同步共享滚动位置
func (e *Engine) commit() {
	e.rebuild()
	e.deliver(func() { e.pub.publishFrame(e.frame) })
	if e.ctl.state.Mode == GestureLongPressing {
		e.resolveSelection(e.touchX, e.touchY)
	}
	e.shareScroll()
}

// deliver 在发布标记下回调监听者
func (e *Engine) deliver(fn func()) {
	e.publishing = true
	defer func() { e.publishing = false }()
	fn()
}

// rebuild 根据当前视口与序列生成新帧（整体替换，不做局部修改）
func (e *Engine) rebuild() {
	vs := e.vp.State()
	bars, err := e.series.Slice(vs.StartIndex, vs.EndIndex())
	if err != nil {
		// 视口始终截断在序列范围内，走到这里说明状态不一致
		e.log.Warn("visible slice out of range", zap.Error(err))
		bars = nil
	}
	// 帧持有可见K线的副本，监听者改动不会影响序列或其他帧
	bars = slices.Clone(bars)

	baseline := e.baseline()
	r := CalculatePriceRange(bars, RangePolicy{
		Mode:           e.cfg.LineMode,
		Instrument:     e.cfg.InstrumentType,
		Baseline:       baseline,
		FlatRangeRatio: e.cfg.FlatRangeRatio,
	})

	trends := make([]Trend, len(bars))
	var maxVol float64
	for i, b := range bars {
		trends[i] = b.Trend
		maxVol = max(maxVol, b.Volume)
	}

	e.seq++
	e.frame = &Frame{
		Seq:       e.seq,
		Mode:      e.cfg.LineMode,
		Viewport:  vs,
		Geometry:  e.geom,
		Range:     r,
		Bars:      bars,
		Positions: MapPositions(vs, r, e.geom, e.cfg.LineMode, bars),
		Trends:    trends,
		Baseline:  baseline,
		MaxVolume: maxVol,
	}
}

// baseline 参考价；不可用时回退到首根K线开盘价
func (e *Engine) baseline() float64 {
	if e.reference > 0 {
		return e.reference
	}
	if first, err := e.series.At(0); err == nil {
		return first.Open
	}
	return 0
}

// resolveSelection 解析手指位置对应的K线并发送长按事件
func (e *Engine) resolveSelection(rawX, rawY float64) {
	e.touchX, e.touchY = rawX, rawY

	crossX, idx := ExactXForTouch(e.frame.Viewport, rawX)
	off := idx - e.frame.Viewport.StartIndex
	if idx < 0 || off >= len(e.frame.Positions) {
		if e.selection != nil {
			e.clearSelection()
		}
		return
	}

	crossY := ExactYForTouch(e.geom, rawY)
	sel := &Selection{
		Bar:      e.frame.Bars[off],
		Position: e.frame.Positions[off],
		CrossX:   crossX,
		CrossY:   crossY,
		Price:    e.geom.PriceAtY(crossY, e.frame.Range),
	}
	e.selection = sel
	e.ctl.state.SelectedIndex = idx
	e.deliver(func() { e.pub.publish(Event{Kind: EventLongPress, Selection: sel}) })
}

// clearSelection 清除选中并通知监听者
func (e *Engine) clearSelection() {
	e.selection = nil
	e.ctl.state.SelectedIndex = -1
	e.deliver(func() { e.pub.publish(Event{Kind: EventLongPressCleared}) })
}
