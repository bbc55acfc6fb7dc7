package rowan

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields of a component simultaneously.
// Create one via NewTweenGroup and register fields with Add, or use the
// convenience constructors (TweenSize, TweenColor). Call Update(dt) each
// frame. If the target node is removed from the arena, the group stops
// immediately.
//
// There is no global animation manager — users call Update themselves,
// typically from a component's update phase.
type TweenGroup struct {
	tweens [4]*gween.Tween
	fields [4]*float64
	count  int
	arena  *Arena
	id     NodeID
	Done   bool
}

// NewTweenGroup creates an empty group bound to the node id. The group
// watches the node's liveness through the arena.
func NewTweenGroup(arena *Arena, id NodeID) *TweenGroup {
	return &TweenGroup{arena: arena, id: id}
}

// Add registers one field to animate from its current value to the target
// over duration seconds. Panics when the group is full.
func (g *TweenGroup) Add(field *float64, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	if g.count == len(g.tweens) {
		panic("rowan: TweenGroup is full")
	}
	g.tweens[g.count] = gween.New(float32(*field), float32(to), duration, fn)
	g.fields[g.count] = field
	g.count++
	return g
}

// Update advances all tweens by dt seconds and writes values to the target
// fields. If the bound node has gone stale, Done is set and no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.arena != nil && !g.arena.Alive(g.id) {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// TweenSize creates a TweenGroup that animates a Size (typically a
// Spacer's) to the given extent over the specified duration.
func TweenSize(arena *Arena, id NodeID, size *Size, to Size, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := NewTweenGroup(arena, id)
	g.Add(&size.Width, to.Width, duration, fn)
	g.Add(&size.Height, to.Height, duration, fn)
	return g
}

// TweenColor creates a TweenGroup that animates all four components of a
// Color to the target color over the specified duration.
func TweenColor(arena *Arena, id NodeID, c *Color, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := NewTweenGroup(arena, id)
	g.Add(&c.R, to.R, duration, fn)
	g.Add(&c.G, to.G, duration, fn)
	g.Add(&c.B, to.B, duration, fn)
	g.Add(&c.A, to.A, duration, fn)
	return g
}
