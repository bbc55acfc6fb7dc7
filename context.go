package rowan

import (
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Context is the root capability handed to components: the shared arena
// plus the addressed node. Contexts are small values; copying one shares
// the arena, it never duplicates it.
type Context struct {
	arena *Arena
	id    NodeID
}

// NewContext creates a context addressing id within arena.
func NewContext(arena *Arena, id NodeID) *Context {
	return &Context{arena: arena, id: id}
}

// Arena returns the shared arena.
func (c *Context) Arena() *Arena {
	return c.arena
}

// ID returns the addressed node.
func (c *Context) ID() NodeID {
	return c.id
}

// ForNode returns a context sharing the same arena but addressing a
// different node. Used when a parent produces a context for a child.
func (c *Context) ForNode(id NodeID) *Context {
	return &Context{arena: c.arena, id: id}
}

// Children returns the addressed node's child list in insertion order.
func (c *Context) Children() []NodeID {
	return c.arena.Children(c.id)
}

// Remove removes the addressed node and its descendants from the tree.
// Returns false if the node is already gone.
func (c *Context) Remove() bool {
	_, ok := c.arena.Remove(c.id)
	return ok
}

// SceneContext layers scene capabilities over Context: the active render
// target, the scene logger, the task runtime, and the frame counter.
// Everything Context exposes is promoted unchanged.
type SceneContext struct {
	Context
	scene *Scene
}

// Target returns the render target for the current frame. It is nil before
// the first Draw; components must tolerate that during early updates.
func (c *SceneContext) Target() *ebiten.Image {
	return c.scene.target
}

// Logger returns the scene's structured logger (a no-op logger unless one
// was installed with Scene.SetLogger).
func (c *SceneContext) Logger() *zap.Logger {
	return c.scene.log
}

// Runtime returns the scene's task runtime, or nil if none was attached.
func (c *SceneContext) Runtime() *Runtime {
	return c.scene.runtime
}

// Frame returns the current frame number. It increments once per Update.
func (c *SceneContext) Frame() uint64 {
	return c.scene.frame
}

// Scene returns the owning scene.
func (c *SceneContext) Scene() *Scene {
	return c.scene
}

// ForNode returns a scene context sharing the same arena and scene but
// addressing a different node.
func (c *SceneContext) ForNode(id NodeID) *SceneContext {
	return &SceneContext{Context: Context{arena: c.arena, id: id}, scene: c.scene}
}

// StyledContext layers the node's resolved style snapshot and layout bounds
// over SceneContext. The style map is in device-pixel space, resolved once
// for this node this frame. Bounds is the placement rectangle assigned
// during the layout phase; it is the zero Rect while measuring.
type StyledContext struct {
	SceneContext
	style  *Style
	bounds Rect
}

// Style returns the node's effective style snapshot (scaled, cascaded).
func (c *StyledContext) Style() *Style {
	return c.style
}

// Bounds returns the node's placement rectangle for this frame.
func (c *StyledContext) Bounds() Rect {
	return c.bounds
}

// ForNode returns a styled context for a different node, resolving that
// node's own style snapshot. Shared resources are preserved.
func (c *StyledContext) ForNode(id NodeID) *StyledContext {
	return c.scene.styledContext(id)
}

// MeasureChild asks a child to report its desired size within max,
// recursing bottom-up. Results are cached per frame, so measuring a child
// twice with the same constraint returns identical values. A stale child
// reports a zero size.
func (c *StyledContext) MeasureChild(child NodeID, max Size) (Size, error) {
	return c.scene.measureNode(child, max)
}

// PlaceChild assigns a child its placement rectangle for this frame and
// recurses top-down into the child's subtree. Coordinates are relative to
// the render target, in device pixels. A stale child is ignored.
func (c *StyledContext) PlaceChild(child NodeID, bounds Rect) {
	c.scene.placeNode(child, bounds)
}
