package kline

import "math"

// GestureMode 当前手势模式
type GestureMode int

const (
	GestureIdle         GestureMode = iota // 空闲
	GesturePanning                         // 拖动
	GesturePinching                        // 捏合缩放
	GestureLongPressing                    // 长按查看
)

var gestureModeNames = []string{"idle", "panning", "pinching", "long-pressing"}

func (m GestureMode) String() string { return enumName(gestureModeNames, int(m)) }

// GestureState 手势状态快照
type GestureState struct {
	Mode            GestureMode
	AnchorIndex     int     // 捏合开始时中点下的K线，-1 表示无
	PinchBaseWidth  float64 // 捏合开始时的单根宽度
	DragAccumulator float64 // 未满一根K线的拖动像素
	SelectedIndex   int     // 长按选中的K线，-1 表示无
}

func idleGesture() GestureState {
	return GestureState{Mode: GestureIdle, AnchorIndex: -1, SelectedIndex: -1}
}

// ============================================================================
// controller 手势状态机
// 同一时刻只接受一种手势，非空闲时新的手势开始被忽略
// ============================================================================

type controller struct {
	state GestureState
}

func newController() controller {
	return controller{state: idleGesture()}
}

// begin 从空闲进入 mode，非空闲时拒绝
func (c *controller) begin(mode GestureMode) bool {
	if c.state.Mode != GestureIdle {
		return false
	}
	c.state = idleGesture()
	c.state.Mode = mode
	return true
}

// end 结束指定模式的手势，模式不匹配时忽略
func (c *controller) end(mode GestureMode) bool {
	if c.state.Mode != mode {
		return false
	}
	c.state = idleGesture()
	return true
}

// cancel 立即回到空闲，丢弃累计量；已提交的视口变化保留
func (c *controller) cancel() GestureMode {
	prev := c.state.Mode
	c.state = idleGesture()
	return prev
}

// panDelta 拖动像素换算为K线数：向零取整，余数留在累加器中
// 碰到边界被截断时清空累加器，避免反向拖动时“粘滞”
func (c *controller) panDelta(vp *Viewport, px float64) bool {
	if c.state.Mode != GesturePanning || !isFinite(px) {
		return false
	}
	w := vp.state.PerBarWidth
	if w <= 0 {
		return false
	}

	c.state.DragAccumulator += px
	steps := math.Trunc(c.state.DragAccumulator / w)
	if steps == 0 {
		return false
	}
	c.state.DragAccumulator -= steps * w

	before := vp.state.StartIndex
	target := before + clampSteps(steps)
	got := vp.ScrollTo(target)
	if got != target {
		c.state.DragAccumulator = 0
	}
	return got != before
}

// beginPinch 记录中点下的锚点K线和初始宽度
func (c *controller) beginPinch(vp *Viewport, midX float64) bool {
	if !c.begin(GesturePinching) {
		return false
	}
	c.state.AnchorIndex = vp.IndexAtX(midX)
	c.state.PinchBaseWidth = vp.state.PerBarWidth
	return true
}

// pinchUpdate 按累计缩放比例调整宽度，并让锚点K线保持在中点下方
// 锚点与边界冲突时以边界截断为准
func (c *controller) pinchUpdate(vp *Viewport, scale, midX float64) bool {
	if c.state.Mode != GesturePinching || !isFinite(scale) || scale <= 0 {
		return false
	}
	before := vp.state
	w := vp.SetPerBarWidth(c.state.PinchBaseWidth * scale)

	if c.state.AnchorIndex >= 0 && isFinite(midX) {
		s := vp.state
		col := math.Floor((midX - s.ContentInset) / w)
		col = math.Min(math.Max(col, 0), float64(max(s.Capacity-1, 0)))
		vp.ScrollTo(c.state.AnchorIndex - int(col))
	}

	after := vp.state
	return after.PerBarWidth != before.PerBarWidth || after.StartIndex != before.StartIndex ||
		after.VisibleCount != before.VisibleCount
}

// clampSteps 把浮点步数转换为 int，避免极端拖动量溢出
func clampSteps(steps float64) int {
	const limit = 1 << 30
	return int(math.Min(math.Max(steps, -limit), limit))
}
