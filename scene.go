package rowan

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Scene is the top-level object that owns the arena and drives the frame
// pipeline: update, then layout (measure bottom-up, place top-down), then
// render. A scene is created with a pre-attached root container.
type Scene struct {
	arena   *Arena
	root    NodeID
	target  *ebiten.Image
	log     *zap.Logger
	runtime *Runtime

	scale    float64
	viewport Size // used when drawing without a target (headless)

	frame   uint64
	skipped map[NodeID]struct{} // nodes disabled for the remainder of the frame
	debug   bool
}

// NewScene creates a new scene with a pre-created root container and a
// style scale factor of 1.
func NewScene() *Scene {
	s := &Scene{
		arena:   NewArena(),
		log:     zap.NewNop(),
		scale:   1,
		frame:   1, // zero is reserved so empty layout caches never match
		skipped: make(map[NodeID]struct{}),
	}
	s.root = s.arena.Insert(NodeID{}, NewContainer("root"))
	return s
}

// Root returns the scene's root container node.
func (s *Scene) Root() NodeID {
	return s.root
}

// Arena returns the scene's node arena.
func (s *Scene) Arena() *Arena {
	return s.arena
}

// Context returns a scene context addressing id.
func (s *Scene) Context(id NodeID) *SceneContext {
	return &SceneContext{Context: Context{arena: s.arena, id: id}, scene: s}
}

// Insert attaches comp as the last child of parent. A zero parent attaches
// under the scene root.
func (s *Scene) Insert(parent NodeID, comp Component) NodeID {
	if parent.IsZero() {
		parent = s.root
	}
	return s.arena.Insert(parent, comp)
}

// InsertStyled is Insert with an explicit (unscaled) style map.
func (s *Scene) InsertStyled(parent NodeID, comp Component, styles *Style) NodeID {
	if parent.IsZero() {
		parent = s.root
	}
	return s.arena.InsertStyled(parent, comp, styles)
}

// Remove cascade-removes the node and its descendants.
func (s *Scene) Remove(id NodeID) bool {
	_, ok := s.arena.Remove(id)
	return ok
}

// SetLogger installs a structured logger for pipeline diagnostics.
// The default is a no-op logger.
func (s *Scene) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	s.log = log
}

// SetRuntime attaches a task runtime that components can reach through
// SceneContext.Runtime.
func (s *Scene) SetRuntime(rt *Runtime) {
	s.runtime = rt
}

// SetScaleFactor sets the conversion factor from resolution-independent
// style units to device pixels. Panics on non-positive factors.
func (s *Scene) SetScaleFactor(factor float64) {
	if factor <= 0 {
		panic("rowan: scale factor must be positive")
	}
	s.scale = factor
}

// ScaleFactor returns the current style scale factor.
func (s *Scene) ScaleFactor() float64 {
	return s.scale
}

// SetViewport sets the layout viewport used when Draw is called with a nil
// target (headless runs and tests). With a real target the target size wins.
func (s *Scene) SetViewport(size Size) {
	s.viewport = size
}

// SetDebugMode enables or disables debug mode. When enabled, per-frame
// phase timings are logged at debug level and the render phase verifies
// that no component mutated the tree.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// SetEventSink sets the optional mutation event bridge on the arena.
func (s *Scene) SetEventSink(sink EventSink) {
	s.arena.SetEventSink(sink)
}

// Frame returns the current frame number.
func (s *Scene) Frame() uint64 {
	return s.frame
}

// Update runs the update phase: every live node's component receives an
// update call, parents before children. The traversal set is snapshotted
// at phase start, so nodes inserted during the phase are first updated on
// the next frame (they still take part in this frame's layout and render).
//
// A component error disables its node, and the subtree below it, for the
// remainder of the frame; it never aborts the frame.
func (s *Scene) Update() error {
	s.frame++
	clear(s.skipped)

	for _, id := range s.traversalOrder() {
		if s.nodeSkipped(id) {
			continue
		}
		comp, ok := s.arena.Component(id)
		if !ok {
			continue // removed earlier this phase
		}
		if err := comp.Update(s.Context(id)); err != nil {
			s.skipped[id] = struct{}{}
			s.log.Warn("component update failed, node skipped for this frame",
				zap.Stringer("node", id), zap.Error(err))
		}
	}
	return nil
}

// Draw runs the layout and render phases against the given target. A nil
// target lays out against the configured viewport and skips actual drawing;
// components see a nil SceneContext.Target.
func (s *Scene) Draw(screen *ebiten.Image) {
	s.target = screen
	viewport := s.viewport
	if screen != nil {
		b := screen.Bounds()
		viewport = Size{Width: float64(b.Dx()), Height: float64(b.Dy())}
	}

	var stats frameStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	// Layout: measure bottom-up, then place top-down from each root.
	for _, root := range s.arena.Roots() {
		if s.nodeSkipped(root) {
			continue
		}
		desired, err := s.measureNode(root, viewport)
		if err != nil {
			s.skipped[root] = struct{}{}
			s.log.Warn("component layout failed, node skipped for this frame",
				zap.Stringer("node", root), zap.Error(err))
			continue
		}
		s.placeNode(root, RectFrom(Point{}, desired.Min(viewport)))
	}

	if s.debug {
		stats.layoutTime = time.Since(t0)
		t0 = time.Now()
	}

	// Render: top-down over a snapshot; the phase is read-only.
	var versionBefore uint64
	if s.debug {
		versionBefore = s.arena.Version()
	}
	for _, id := range s.traversalOrder() {
		if s.nodeSkipped(id) {
			continue
		}
		bounds, placed := s.placedBounds(id)
		if !placed {
			continue // not laid out this frame (parent chose not to place it)
		}
		comp, ok := s.arena.Component(id)
		if !ok {
			continue
		}
		ctx := s.styledContext(id)
		ctx.bounds = bounds
		stats.rendered++
		if err := comp.Render(ctx); err != nil {
			s.skipped[id] = struct{}{}
			s.log.Warn("component render failed, node skipped for this frame",
				zap.Stringer("node", id), zap.Error(err))
		}
	}
	if s.debug {
		if s.arena.Version() != versionBefore {
			panic("rowan debug: tree mutated during render phase")
		}
		stats.renderTime = time.Since(t0)
		stats.nodes = s.arena.Count()
		s.logStats(stats)
	}
}

// traversalOrder returns a parent-before-children snapshot of the tree.
func (s *Scene) traversalOrder() []NodeID {
	order := make([]NodeID, 0, s.arena.Count())
	var walk func(NodeID)
	walk = func(id NodeID) {
		order = append(order, id)
		for _, child := range s.arena.Children(id) {
			walk(child)
		}
	}
	for _, root := range s.arena.Roots() {
		walk(root)
	}
	return order
}

// nodeSkipped reports whether id or any of its ancestors was disabled for
// this frame by a component failure.
func (s *Scene) nodeSkipped(id NodeID) bool {
	for cur := id; ; {
		if _, ok := s.skipped[cur]; ok {
			return true
		}
		parent, ok := s.arena.Parent(cur)
		if !ok || parent.IsZero() {
			return false
		}
		cur = parent
	}
}

// measureNode resolves the node's style, asks the component for its desired
// size within max, and caches the result for the rest of the frame. The
// cache is keyed by frame number and constraint, so repeated measurement
// with the same input is idempotent. Stale nodes measure as zero.
func (s *Scene) measureNode(id NodeID, max Size) (Size, error) {
	a := s.arena
	a.mu.Lock()
	if !a.aliveLocked(id) {
		a.mu.Unlock()
		return Size{}, nil
	}
	entry := &a.slots[id.slot]
	if entry.layout.measuredFrame == s.frame && entry.layout.maxIn == max {
		desired := entry.layout.desired
		a.mu.Unlock()
		return desired, nil
	}
	comp := entry.comp
	a.mu.Unlock()

	desired, err := comp.Measure(s.styledContext(id), max)
	if err != nil {
		return Size{}, err
	}
	desired = desired.Max(Size{})

	a.mu.Lock()
	if a.aliveLocked(id) {
		entry := &a.slots[id.slot]
		entry.layout.measuredFrame = s.frame
		entry.layout.maxIn = max
		entry.layout.desired = desired
	}
	a.mu.Unlock()
	return desired, nil
}

// placeNode records the node's placement for this frame and recurses
// top-down. Components implementing Placer position their own children;
// all other components pass their full bounds through.
func (s *Scene) placeNode(id NodeID, bounds Rect) {
	a := s.arena
	a.mu.Lock()
	if !a.aliveLocked(id) {
		a.mu.Unlock()
		return
	}
	entry := &a.slots[id.slot]
	entry.layout.placedFrame = s.frame
	entry.layout.bounds = bounds
	comp := entry.comp
	a.mu.Unlock()

	if placer, ok := comp.(Placer); ok {
		ctx := s.styledContext(id)
		ctx.bounds = bounds
		if err := placer.Place(ctx, bounds); err != nil {
			s.skipped[id] = struct{}{}
			s.log.Warn("component placement failed, node skipped for this frame",
				zap.Stringer("node", id), zap.Error(err))
		}
		return
	}
	for _, child := range s.arena.Children(id) {
		s.placeNode(child, bounds)
	}
}

// placedBounds returns the node's placement rectangle if it was assigned
// one during this frame's layout phase.
func (s *Scene) placedBounds(id NodeID) (Rect, bool) {
	a := s.arena
	a.mu.RLock()
	defer a.mu.RUnlock()
	if !a.aliveLocked(id) {
		return Rect{}, false
	}
	entry := &a.slots[id.slot]
	if entry.layout.placedFrame != s.frame {
		return Rect{}, false
	}
	return entry.layout.bounds, true
}

// styledContext builds a StyledContext for id with the node's effective
// style resolved and scaled for this frame. Bounds is left zero; layout
// and render fill it in where meaningful.
func (s *Scene) styledContext(id NodeID) *StyledContext {
	return &StyledContext{
		SceneContext: SceneContext{Context: Context{arena: s.arena, id: id}, scene: s},
		style:        s.resolvedStyle(id),
	}
}

// resolvedStyle returns the node's device-pixel style snapshot, computing
// and caching it once per node per frame. The unscaled merge with inherited
// parent components is cached separately so the cascade walks each ancestor
// at most once per frame.
func (s *Scene) resolvedStyle(id NodeID) *Style {
	a := s.arena
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.aliveLocked(id) {
		return &Style{scaled: true}
	}
	return s.resolvedStyleLocked(id)
}

func (s *Scene) resolvedStyleLocked(id NodeID) *Style {
	entry := &s.arena.slots[id.slot]
	base := s.resolvedBaseLocked(id)
	if entry.resolved == nil {
		entry.resolved = base.Scale(s.scale)
	}
	return entry.resolved
}

func (s *Scene) resolvedBaseLocked(id NodeID) *Style {
	a := s.arena
	entry := &a.slots[id.slot]
	if entry.styleFrame == s.frame && entry.resolvedBase != nil {
		return entry.resolvedBase
	}
	var parentBase *Style
	if parent := entry.parent; !parent.IsZero() && a.aliveLocked(parent) {
		parentBase = s.resolvedBaseLocked(parent)
	}
	entry.resolvedBase = mergeInherited(entry.styles, parentBase)
	entry.resolved = nil
	entry.styleFrame = s.frame
	return entry.resolvedBase
}
