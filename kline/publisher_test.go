package kline

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestPublishFrameOrderPerListener(t *testing.T) {
	e := newTestEngine(t, makeBars(60, 2), 300)

	type call struct {
		who  string
		kind EventKind
	}
	var calls []call
	for _, who := range []string{"main", "volume"} {
		e.Subscribe(ListenerFunc(func(ev Event) {
			calls = append(calls, call{who, ev.Kind})
		}))
	}

	e.Redraw()
	expected := []call{
		{"main", EventPriceRange}, {"main", EventBars}, {"main", EventPositions}, {"main", EventColors},
		{"volume", EventPriceRange}, {"volume", EventBars}, {"volume", EventPositions}, {"volume", EventColors},
	}
	assert.Equal(t, expected, calls)
}

func TestFrameBarsDoNotAliasSeries(t *testing.T) {
	e := newTestEngine(t, makeBars(60, 2), 300)
	original, err := e.Bars(0, 60)
	require.NoError(t, err)
	want := slices.Clone(original)

	// 只改第一帧
	var first *Frame
	e.Subscribe(ListenerFunc(func(ev Event) {
		if ev.Kind != EventBars || first != nil {
			return
		}
		first = ev.Frame
		for i := range ev.Frame.Bars {
			ev.Frame.Bars[i].Close = -1
		}
	}))

	e.ScrollTo(3)
	require.NotNil(t, first)
	assert.Equal(t, -1.0, first.Bars[0].Close)

	got, err := e.Bars(0, 60)
	require.NoError(t, err)
	assert.Equal(t, want, got, "序列不受监听者改动影响")

	e.ScrollTo(2)
	f := e.Frame()
	require.NotSame(t, first, f)
	assert.Equal(t, want[2:2+len(f.Bars)], f.Bars, "新帧从序列重新复制")
}

func TestPublishedFrameIsConsistent(t *testing.T) {
	e := newTestEngine(t, makeBars(60, 2), 300)
	var frames []*Frame
	e.Subscribe(FrameListener(func(f *Frame) { frames = append(frames, f) }))

	e.ScrollTo(5)
	e.ScrollTo(5)
	require.Len(t, frames, 1, "视口未变化不发布")

	f := frames[0]
	assert.Equal(t, 5, f.Viewport.StartIndex)
	require.Len(t, f.Bars, f.Viewport.VisibleCount)
	require.Len(t, f.Positions, len(f.Bars))
	require.Len(t, f.Trends, len(f.Bars))
	for i := range f.Bars {
		assert.Equal(t, f.Bars[i].Index, f.Positions[i].Index)
		assert.Equal(t, f.Bars[i].Trend, f.Trends[i])
		assert.GreaterOrEqual(t, f.MaxVolume, f.Bars[i].Volume)
	}
	assert.Same(t, f, e.Frame())

	e.Redraw()
	require.Len(t, frames, 2)
	assert.Greater(t, frames[1].Seq, f.Seq)
	assert.NotSame(t, f, frames[1], "每次发布都是新的帧")
}

func TestRemoveAllObservers(t *testing.T) {
	e := newTestEngine(t, makeBars(30, 2), 300)
	a, b := &recorder{}, &recorder{}
	e.Subscribe(a)
	id := e.Subscribe(b)

	assert.True(t, e.Unsubscribe(id))
	assert.False(t, e.Unsubscribe(id), "重复移除")
	e.Redraw()
	assert.Len(t, a.events, 4)
	assert.Empty(t, b.events)

	e.RemoveAllObservers()
	e.Redraw()
	e.OnLongPressBegin(20, 20)
	assert.Len(t, a.events, 4, "移除后不再收到任何事件")
}

func TestListenerRemovedDuringPublishSkipsRest(t *testing.T) {
	e := newTestEngine(t, makeBars(30, 2), 300)
	late := &recorder{}
	e.Subscribe(ListenerFunc(func(ev Event) {
		if ev.Kind == EventPriceRange {
			e.RemoveAllObservers()
		}
	}))
	e.Subscribe(late)

	e.Redraw()
	assert.Empty(t, late.events)
}

func TestReentrantMutationIsDeferred(t *testing.T) {
	e := newTestEngine(t, makeBars(100, 4), 300)
	e.ScrollTo(10)

	depth, maxDepth := 0, 0
	var seen []int
	scrolled := false
	e.Subscribe(ListenerFunc(func(ev Event) {
		depth++
		defer func() { depth-- }()
		maxDepth = max(maxDepth, depth)

		if ev.Kind != EventColors {
			return
		}
		seen = append(seen, ev.Frame.Viewport.StartIndex)
		if !scrolled {
			scrolled = true
			e.ScrollTo(40)
			assert.Equal(t, 10, e.Viewport().StartIndex, "回调中的修改被推迟")
		}
	}))

	e.Redraw()
	assert.Equal(t, 1, maxDepth, "监听者不会被重入调用")
	assert.Equal(t, []int{10, 40}, seen, "推迟的修改在本次发布后执行")
	assert.Equal(t, 40, e.Viewport().StartIndex)
}

func TestDeferredReplayLoopIsBounded(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	e, err := NewEngine(testConfig(), WithLogger(zap.New(core)))
	require.NoError(t, err)
	e.OnViewportResize(300, 220)
	e.Reset(makeBars(50, 1))

	frames := 0
	e.Subscribe(FrameListener(func(*Frame) {
		frames++
		e.Redraw()
	}))

	e.Redraw()
	assert.Equal(t, maxDeferredReplays+1, frames)
	assert.Equal(t, 1, logs.FilterMessage("dropping deferred mutations").Len())

	e.RemoveAllObservers()
	e.Redraw()
	assert.Equal(t, maxDeferredReplays+1, frames)
}

func TestLineModeAndInstrumentSwitch(t *testing.T) {
	e := newTestEngine(t, makeBars(40, 6), 300)
	rec := &recorder{}
	e.Subscribe(rec)

	require.NoError(t, e.SetLineMode(LineTimeline))
	f := e.Frame()
	assert.Equal(t, LineTimeline, f.Mode)
	for _, p := range f.Positions {
		assert.Equal(t, p.YClose, p.YHigh)
	}
	assert.Len(t, rec.events, 4)

	require.NoError(t, e.SetLineMode(LineTimeline))
	assert.Len(t, rec.events, 4, "未变化不发布")

	require.NoError(t, e.SetInstrumentType(InstrumentIndex))
	assert.Equal(t, InstrumentIndex, e.Config().InstrumentType)
	assert.Len(t, rec.events, 8)

	assert.ErrorIs(t, e.SetLineMode(LineMode(7)), ErrInvalidConfiguration)
	assert.ErrorIs(t, e.SetInstrumentType(InstrumentType(-1)), ErrInvalidConfiguration)
}

func TestReferencePriceBaseline(t *testing.T) {
	bars := makeBars(20, 8)
	e := newTestEngine(t, bars, 300)
	require.NoError(t, e.SetLineMode(LineTimeline))
	assert.Equal(t, bars[0].Open, e.Frame().Baseline, "无昨收时回退到首根开盘价")

	e.SetReferencePrice(95)
	assert.Equal(t, 95.0, e.Frame().Baseline)
	assert.LessOrEqual(t, e.Frame().Range.Min, 95.0)

	e.SetReferencePrice(-3)
	assert.Equal(t, 0.0, e.ReferencePrice())
	assert.Equal(t, bars[0].Open, e.Frame().Baseline)
}
