package rowan

import (
	"fmt"
	"sync"
)

// NodeID identifies a node in an Arena and encodes a generation for
// stale-handle detection. The zero value never refers to a live node:
// generations start at 1.
type NodeID struct {
	slot       uint32
	generation uint32
}

// Slot returns the backing slot index of the node.
func (id NodeID) Slot() uint32 {
	return id.slot
}

// Generation returns the generation counter associated with the node.
func (id NodeID) Generation() uint32 {
	return id.generation
}

// IsZero reports whether the identifier is the zero value.
func (id NodeID) IsZero() bool {
	return id.slot == 0 && id.generation == 0
}

// String renders the identifier for diagnostics.
func (id NodeID) String() string {
	if id.IsZero() {
		return "NodeID(0:0)"
	}
	return fmt.Sprintf("NodeID(%d:%d)", id.slot, id.generation)
}

// TreeEventKind identifies a kind of arena mutation.
type TreeEventKind uint8

const (
	TreeNodeInserted TreeEventKind = iota // fires after a node is attached
	TreeNodeRemoved                       // fires after a node (or a cascaded descendant) is removed
)

// TreeEvent carries arena mutation data for the optional EventSink bridge.
type TreeEvent struct {
	Kind   TreeEventKind
	ID     NodeID
	Parent NodeID // zero for root nodes
}

// EventSink is the interface for optional ECS integration. When set on an
// Arena, tree mutations are forwarded to it after they take effect.
type EventSink interface {
	EmitTreeEvent(event TreeEvent)
}

// Attacher is an optional component hook called once, after the component's
// node has been inserted into the arena. Components typically use it to
// capture their own NodeID for entity handles.
type Attacher interface {
	Attached(id NodeID)
}

// Detacher is an optional component hook called once, after the component's
// node has been removed from the arena (including cascade removal).
type Detacher interface {
	Detached()
}

// slotEntry is one arena slot. A slot is reused after removal with an
// incremented generation, so outstanding NodeIDs go stale rather than
// aliasing the new occupant.
type slotEntry struct {
	generation uint32
	live       bool
	comp       Component
	styles     *Style
	parent     NodeID
	children   []NodeID

	// Per-frame caches, owned by the pipeline. Tagged with the frame
	// number so no cross-frame staleness is possible.
	styleFrame   uint64
	resolvedBase *Style // merged with inherited parent components, unscaled
	resolved     *Style // device-pixel snapshot handed to StyledContext
	layout       layoutState
}

// layoutState caches one frame's measure and place results for a node.
type layoutState struct {
	measuredFrame uint64
	maxIn         Size
	desired       Size
	placedFrame   uint64
	bounds        Rect
}

// Arena owns all nodes of a scene tree. Storage is a flat slot array with a
// free list; parent/child adjacency is kept by NodeID so the graph carries
// no reference cycles. All mutation is serialized behind a single writer
// lock; reads may run concurrently with other reads.
type Arena struct {
	mu      sync.RWMutex
	slots   []slotEntry
	free    []uint32
	roots   []NodeID
	count   int
	version uint64 // bumps on every structural mutation
	sink    EventSink
}

// NewArena creates an empty arena. Slot 0 is reserved so that the zero
// NodeID can never match a live node.
func NewArena() *Arena {
	return &Arena{slots: make([]slotEntry, 1)}
}

// Insert allocates a node for comp and attaches it as the last child of
// parent. A zero parent attaches the node as a root. The returned NodeID is
// unique among all live nodes for the lifetime of the arena.
//
// If parent is non-zero but no longer live (removed concurrently), the
// insert does not happen and the zero NodeID is returned; this mirrors the
// soft-failure contract of lookups.
func (a *Arena) Insert(parent NodeID, comp Component) NodeID {
	return a.InsertStyled(parent, comp, nil)
}

// InsertStyled is Insert with an explicit style map for the new node.
// Styles must be unscaled; passing a scaled map panics.
func (a *Arena) InsertStyled(parent NodeID, comp Component, styles *Style) NodeID {
	if comp == nil {
		panic("rowan: cannot insert nil component")
	}
	if styles != nil && styles.scaled {
		panic("rowan: node styles must be in unscaled units")
	}

	a.mu.Lock()
	if !parent.IsZero() && !a.aliveLocked(parent) {
		a.mu.Unlock()
		return NodeID{}
	}

	var slot uint32
	if n := len(a.free); n > 0 {
		slot = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		slot = uint32(len(a.slots))
		a.slots = append(a.slots, slotEntry{generation: 1})
	}

	entry := &a.slots[slot]
	entry.live = true
	entry.comp = comp
	entry.styles = styles
	entry.parent = parent
	entry.children = nil
	id := NodeID{slot: slot, generation: entry.generation}

	if parent.IsZero() {
		a.roots = append(a.roots, id)
	} else {
		p := &a.slots[parent.slot]
		p.children = append(p.children, id)
	}
	a.count++
	a.version++
	a.mu.Unlock()

	if att, ok := comp.(Attacher); ok {
		att.Attached(id)
	}
	a.emit(TreeEvent{Kind: TreeNodeInserted, ID: id, Parent: parent})
	return id
}

// Remove detaches the node from its parent, removes the node and all of its
// descendants (cascade delete), and bumps the slot generations so every
// outstanding NodeID for the subtree goes stale. It returns the removed
// node's component, or (nil, false) if id is not live.
func (a *Arena) Remove(id NodeID) (Component, bool) {
	a.mu.Lock()
	if !a.aliveLocked(id) {
		a.mu.Unlock()
		return nil, false
	}

	parent := a.slots[id.slot].parent
	if parent.IsZero() {
		a.roots = removeID(a.roots, id)
	} else {
		p := &a.slots[parent.slot]
		p.children = removeID(p.children, id)
	}

	var removed []removalRecord
	a.removeSubtreeLocked(id, &removed)
	a.mu.Unlock()

	// Hooks and events run outside the lock so they may reenter the arena.
	var comp Component
	for _, rec := range removed {
		if closer, ok := rec.comp.(mailboxCloser); ok {
			closer.closeMailbox()
		}
		if det, ok := rec.comp.(Detacher); ok {
			det.Detached()
		}
		if rec.ev.ID == id {
			comp = rec.comp
		}
	}
	for _, rec := range removed {
		a.emit(rec.ev)
	}
	return comp, true
}

// removalRecord pairs a removal event with the detached component so hooks
// can run after the arena lock is released.
type removalRecord struct {
	ev   TreeEvent
	comp Component
}

// removeSubtreeLocked clears id's slot and recursively clears descendants.
// Events are collected (with their components) for post-unlock delivery.
func (a *Arena) removeSubtreeLocked(id NodeID, removed *[]removalRecord) {
	entry := &a.slots[id.slot]
	children := entry.children
	*removed = append(*removed, removalRecord{
		ev:   TreeEvent{Kind: TreeNodeRemoved, ID: id, Parent: entry.parent},
		comp: entry.comp,
	})

	entry.live = false
	entry.generation++
	entry.comp = nil
	entry.styles = nil
	entry.parent = NodeID{}
	entry.children = nil
	entry.resolvedBase = nil
	entry.resolved = nil
	entry.layout = layoutState{}
	a.free = append(a.free, id.slot)
	a.count--
	a.version++

	for _, child := range children {
		a.removeSubtreeLocked(child, removed)
	}
}

// Component returns the node's component instance, or (nil, false) if id is
// stale or out of range. Lookups race with removal by design; callers treat
// a miss as routine.
func (a *Arena) Component(id NodeID) (Component, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if !a.aliveLocked(id) {
		return nil, false
	}
	return a.slots[id.slot].comp, true
}

// Children returns a copy of the node's child list in insertion order.
// A stale id yields nil.
func (a *Arena) Children(id NodeID) []NodeID {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if !a.aliveLocked(id) {
		return nil
	}
	children := a.slots[id.slot].children
	if len(children) == 0 {
		return nil
	}
	out := make([]NodeID, len(children))
	copy(out, children)
	return out
}

// Parent returns the node's parent, or the zero NodeID for a root. The
// second return is false if id itself is not live.
func (a *Arena) Parent(id NodeID) (NodeID, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if !a.aliveLocked(id) {
		return NodeID{}, false
	}
	return a.slots[id.slot].parent, true
}

// Alive reports whether id refers to a currently live node.
func (a *Arena) Alive(id NodeID) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.aliveLocked(id)
}

// Count returns the number of live nodes.
func (a *Arena) Count() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.count
}

// Roots returns a copy of the top-level node list in insertion order.
func (a *Arena) Roots() []NodeID {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if len(a.roots) == 0 {
		return nil
	}
	out := make([]NodeID, len(a.roots))
	copy(out, a.roots)
	return out
}

// SetStyle replaces the node's style map. Returns false if id is stale.
// The map must be unscaled; passing a scaled map panics.
func (a *Arena) SetStyle(id NodeID, styles *Style) bool {
	if styles != nil && styles.scaled {
		panic("rowan: node styles must be in unscaled units")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.aliveLocked(id) {
		return false
	}
	a.slots[id.slot].styles = styles
	a.version++
	return true
}

// NodeStyle returns the node's own (unscaled) style map, which may be nil.
func (a *Arena) NodeStyle(id NodeID) *Style {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if !a.aliveLocked(id) {
		return nil
	}
	return a.slots[id.slot].styles
}

// SetEventSink sets the optional mutation event bridge.
func (a *Arena) SetEventSink(sink EventSink) {
	a.mu.Lock()
	a.sink = sink
	a.mu.Unlock()
}

// Version returns the structural mutation counter. The pipeline uses it in
// debug mode to verify the render phase left the tree untouched.
func (a *Arena) Version() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.version
}

func (a *Arena) aliveLocked(id NodeID) bool {
	if id.slot == 0 || id.slot >= uint32(len(a.slots)) {
		return false
	}
	entry := &a.slots[id.slot]
	return entry.live && entry.generation == id.generation
}

func (a *Arena) emit(ev TreeEvent) {
	a.mu.RLock()
	sink := a.sink
	a.mu.RUnlock()
	if sink != nil {
		sink.EmitTreeEvent(ev)
	}
}

// removeID removes the first occurrence of id from ids without retaining a
// gap in the backing array.
func removeID(ids []NodeID, id NodeID) []NodeID {
	for i, c := range ids {
		if c == id {
			copy(ids[i:], ids[i+1:])
			return ids[:len(ids)-1]
		}
	}
	return ids
}
