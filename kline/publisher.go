package kline

// ============================================================================
// 帧与事件
// ============================================================================

// Frame 一帧的完整快照：可见K线、屏幕坐标、涨跌分类与价格区间
// 发布后不再修改，所有监听者看到的是同一份数据
type Frame struct {
	Seq       uint64
	Mode      LineMode
	Viewport  ViewportState
	Geometry  Geometry
	Range     PriceRange
	Bars      []Bar
	Positions []PositionModel
	Trends    []Trend
	Baseline  float64 // 分时参考价，<= 0 表示无
	MaxVolume float64 // 可见K线的最大成交量（成交量副图使用）
}

// Selection 长按选中的K线
type Selection struct {
	Bar      Bar
	Position PositionModel
	CrossX   float64 // 吸附后的十字线 x（内容坐标）
	CrossY   float64 // 限制在绘图区内的十字线 y
	Price    float64 // CrossY 对应的价格
}

// EventKind 事件类型
type EventKind int

const (
	EventPriceRange       EventKind = iota // 帧：最高最低价
	EventBars                              // 帧：可见K线
	EventPositions                         // 帧：位置模型
	EventColors                            // 帧：涨跌分类（一帧的最后一个事件）
	EventLongPress                         // 长按选中更新
	EventLongPressCleared                  // 长按结束，清除选中
)

var eventKindNames = []string{"price-range", "bars", "positions", "colors", "long-press", "long-press-cleared"}

func (k EventKind) String() string { return enumName(eventKindNames, int(k)) }

// Event 发给监听者的事件
type Event struct {
	Kind      EventKind
	Frame     *Frame     // 帧事件携带
	Selection *Selection // EventLongPress 携带
}

// Listener 事件监听者（渲染层、十字线、叠加的兄弟视图）
// 回调中不得同步修改引擎状态，这类调用会被推迟到本次发布结束之后
// Frame 在发布后视为只读；其中的 Bars 是可见区间的副本，改动它不会影响序列
type Listener interface {
	HandleChartEvent(ev Event)
}

// ListenerFunc 函数适配器
type ListenerFunc func(ev Event)

// HandleChartEvent 调用 f(ev)
func (f ListenerFunc) HandleChartEvent(ev Event) { f(ev) }

// FrameListener 只关心完整帧的监听者，在一帧的最后一个事件上回调
func FrameListener(f func(*Frame)) Listener {
	return ListenerFunc(func(ev Event) {
		if ev.Kind == EventColors {
			f(ev.Frame)
		}
	})
}

// ListenerID 订阅句柄
type ListenerID int

// ============================================================================
// publisher 监听者注册与按序分发
// ============================================================================

type listenerEntry struct {
	id     ListenerID
	l      Listener
	active bool
}

type publisher struct {
	entries []*listenerEntry
	nextID  ListenerID
}

func (p *publisher) add(l Listener) ListenerID {
	p.nextID++
	p.entries = append(p.entries, &listenerEntry{id: p.nextID, l: l, active: true})
	return p.nextID
}

func (p *publisher) remove(id ListenerID) bool {
	for i, e := range p.entries {
		if e.id == id {
			// 发布中被移除的监听者不再收到剩余事件
			e.active = false
			next := make([]*listenerEntry, 0, len(p.entries)-1)
			next = append(next, p.entries[:i]...)
			p.entries = append(next, p.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (p *publisher) clear() {
	for _, e := range p.entries {
		e.active = false
	}
	p.entries = nil
}

func (p *publisher) len() int {
	return len(p.entries)
}

// frameKinds 一帧内的固定顺序：价格区间 → K线 → 位置 → 颜色
var frameKinds = [...]EventKind{EventPriceRange, EventBars, EventPositions, EventColors}

// publishFrame 按固定顺序把一帧分发给每个监听者
func (p *publisher) publishFrame(f *Frame) {
	entries := p.entries
	for _, e := range entries {
		for _, k := range frameKinds {
			if !e.active {
				break
			}
			e.l.HandleChartEvent(Event{Kind: k, Frame: f})
		}
	}
}

func (p *publisher) publish(ev Event) {
	entries := p.entries
	for _, e := range entries {
		if e.active {
			e.l.HandleChartEvent(ev)
		}
	}
}
