package kline

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScrollPosition 共享的水平滚动位置
type ScrollPosition struct {
	StartIndex  int
	PerBarWidth float64
}

// ============================================================================
// ScrollRegistry 共享滚动位置登记表
// 主图、成交量、指标等上下叠放的图表各自一个引擎，通过同一个组 ID 保持水平同步；
// 引擎只持有登记表和组 ID，彼此之间没有引用
// ============================================================================

// ScrollRegistry 按组 ID 管理共享滚动位置
type ScrollRegistry struct {
	groups map[uuid.UUID]*scrollGroup
}

type scrollGroup struct {
	pos     ScrollPosition
	has     bool
	members []scrollMember
}

type scrollMember struct {
	id    uuid.UUID
	apply func(ScrollPosition)
}

// NewScrollRegistry 创建登记表
func NewScrollRegistry() *ScrollRegistry {
	return &ScrollRegistry{groups: make(map[uuid.UUID]*scrollGroup)}
}

// NewGroup 分配新的组 ID
func (r *ScrollRegistry) NewGroup() uuid.UUID {
	id := uuid.New()
	r.groups[id] = &scrollGroup{}
	return id
}

// Position 组当前的滚动位置
func (r *ScrollRegistry) Position(group uuid.UUID) (ScrollPosition, bool) {
	g, ok := r.groups[group]
	if !ok || !g.has {
		return ScrollPosition{}, false
	}
	return g.pos, true
}

// Members 组内成员数量
func (r *ScrollRegistry) Members(group uuid.UUID) int {
	if g, ok := r.groups[group]; ok {
		return len(g.members)
	}
	return 0
}

func (r *ScrollRegistry) join(group, member uuid.UUID, apply func(ScrollPosition)) *scrollGroup {
	g, ok := r.groups[group]
	if !ok {
		g = &scrollGroup{}
		r.groups[group] = g
	}
	r.leave(group, member)
	g.members = append(g.members, scrollMember{id: member, apply: apply})
	return g
}

func (r *ScrollRegistry) leave(group, member uuid.UUID) {
	g, ok := r.groups[group]
	if !ok {
		return
	}
	for i, m := range g.members {
		if m.id == member {
			g.members = append(g.members[:i:i], g.members[i+1:]...)
			return
		}
	}
}

// update 记录新位置并通知组内其他成员
func (r *ScrollRegistry) update(group, from uuid.UUID, pos ScrollPosition) {
	g, ok := r.groups[group]
	if !ok {
		return
	}
	g.pos, g.has = pos, true
	members := g.members
	for _, m := range members {
		if m.id != from {
			m.apply(pos)
		}
	}
}

// ============================================================================
// 引擎侧
// ============================================================================

type scrollLink struct {
	reg   *ScrollRegistry
	group uuid.UUID
}

// JoinScrollGroup 加入共享滚动组；组内已有位置时立即对齐
func (e *Engine) JoinScrollGroup(reg *ScrollRegistry, group uuid.UUID) {
	e.LeaveScrollGroup()
	e.scroll = scrollLink{reg: reg, group: group}
	g := reg.join(group, e.id, e.applySharedScroll)
	e.log.Debug("joined scroll group", zap.String("group", group.String()), zap.Int("members", len(g.members)))
	if g.has {
		e.applySharedScroll(g.pos)
		return
	}
	e.shareScroll()
}

// LeaveScrollGroup 退出共享滚动组
func (e *Engine) LeaveScrollGroup() {
	if e.scroll.reg == nil {
		return
	}
	e.scroll.reg.leave(e.scroll.group, e.id)
	e.scroll = scrollLink{}
	e.lastShared = ScrollPosition{}
}

// ScrollGroup 当前所在的组 ID，未加入时返回 uuid.Nil
func (e *Engine) ScrollGroup() uuid.UUID {
	return e.scroll.group
}

func (e *Engine) scrollPosition() ScrollPosition {
	s := e.vp.State()
	return ScrollPosition{StartIndex: s.StartIndex, PerBarWidth: s.PerBarWidth}
}

// shareScroll 本地提交后把变化同步给组内其他引擎
func (e *Engine) shareScroll() {
	if e.scroll.reg == nil {
		return
	}
	pos := e.scrollPosition()
	if pos == e.lastShared {
		return
	}
	e.lastShared = pos
	e.scroll.reg.update(e.scroll.group, e.id, pos)
}

// applySharedScroll 应用其他成员的滚动位置，不回传
func (e *Engine) applySharedScroll(pos ScrollPosition) {
	e.mutate("shared-scroll", func() bool {
		before := e.vp.State()
		e.vp.SetPerBarWidth(pos.PerBarWidth)
		e.vp.ScrollTo(pos.StartIndex)
		e.lastShared = e.scrollPosition()
		return e.vp.State() != before
	})
}
