package rowan

import (
	"testing"
)

// --- Insert / lookup basics ---

func TestInsertReturnsLiveID(t *testing.T) {
	a := NewArena()
	id := a.Insert(NodeID{}, newTestComponent("n"))

	if id.IsZero() {
		t.Fatal("Insert returned the zero NodeID")
	}
	if !a.Alive(id) {
		t.Error("inserted node should be alive")
	}
	if _, ok := a.Component(id); !ok {
		t.Error("Component lookup should succeed")
	}
	if a.Count() != 1 {
		t.Errorf("Count = %d, want 1", a.Count())
	}
}

func TestInsertNilComponentPanics(t *testing.T) {
	a := NewArena()
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for nil component, got none")
		}
	}()
	a.Insert(NodeID{}, nil)
}

func TestInsertUnderStaleParent(t *testing.T) {
	a := NewArena()
	parent := a.Insert(NodeID{}, newTestComponent("parent"))
	a.Remove(parent)

	id := a.Insert(parent, newTestComponent("orphan"))
	if !id.IsZero() {
		t.Errorf("insert under a stale parent should return the zero NodeID, got %v", id)
	}
	if a.Count() != 0 {
		t.Errorf("Count = %d, want 0", a.Count())
	}
}

func TestZeroIDNeverResolves(t *testing.T) {
	a := NewArena()
	a.Insert(NodeID{}, newTestComponent("n"))
	if a.Alive(NodeID{}) {
		t.Error("zero NodeID should never be alive")
	}
	if _, ok := a.Component(NodeID{}); ok {
		t.Error("zero NodeID should never resolve")
	}
}

// --- Generation safety ---

func TestGenerationSafetyAfterReuse(t *testing.T) {
	a := NewArena()
	old := a.Insert(NodeID{}, newTestComponent("old"))
	a.Remove(old)

	reused := a.Insert(NodeID{}, newTestComponent("new"))
	if reused.Slot() != old.Slot() {
		t.Fatalf("expected slot reuse: old slot %d, new slot %d", old.Slot(), reused.Slot())
	}
	if reused.Generation() <= old.Generation() {
		t.Errorf("reused generation %d should exceed old generation %d",
			reused.Generation(), old.Generation())
	}
	if a.Alive(old) {
		t.Error("old NodeID should stay stale after slot reuse")
	}
	if _, ok := a.Component(old); ok {
		t.Error("old NodeID should not resolve to the new occupant")
	}
	if !a.Alive(reused) {
		t.Error("new NodeID should be alive")
	}
}

func TestRemoveStaleReturnsFalse(t *testing.T) {
	a := NewArena()
	id := a.Insert(NodeID{}, newTestComponent("n"))
	a.Remove(id)

	if _, ok := a.Remove(id); ok {
		t.Error("second Remove of the same NodeID should report false")
	}
}

// --- Hierarchy ---

func TestChildrenInsertionOrder(t *testing.T) {
	a := NewArena()
	parent := a.Insert(NodeID{}, newTestComponent("parent"))
	c1 := a.Insert(parent, newTestComponent("a"))
	c2 := a.Insert(parent, newTestComponent("b"))
	c3 := a.Insert(parent, newTestComponent("c"))

	children := a.Children(parent)
	if len(children) != 3 {
		t.Fatalf("len(Children) = %d, want 3", len(children))
	}
	if children[0] != c1 || children[1] != c2 || children[2] != c3 {
		t.Error("children should be in insertion order")
	}
}

func TestTreeIntegrity(t *testing.T) {
	a := NewArena()
	root := a.Insert(NodeID{}, newTestComponent("root"))
	mid := a.Insert(root, newTestComponent("mid"))
	a.Insert(mid, newTestComponent("leaf"))
	a.Insert(root, newTestComponent("leaf2"))

	var walk func(id NodeID)
	walk = func(id NodeID) {
		for _, child := range a.Children(id) {
			parent, ok := a.Parent(child)
			if !ok {
				t.Errorf("child %v of %v is not alive", child, id)
				continue
			}
			if parent != id {
				t.Errorf("child %v parent = %v, want %v", child, parent, id)
			}
			count := 0
			for _, c := range a.Children(id) {
				if c == child {
					count++
				}
			}
			if count != 1 {
				t.Errorf("child %v appears %d times in %v's child list", child, count, id)
			}
			walk(child)
		}
	}
	walk(root)
}

func TestParentOfRootIsZero(t *testing.T) {
	a := NewArena()
	root := a.Insert(NodeID{}, newTestComponent("root"))
	parent, ok := a.Parent(root)
	if !ok {
		t.Fatal("root should be alive")
	}
	if !parent.IsZero() {
		t.Errorf("root parent = %v, want zero", parent)
	}
}

func TestRootsOrderAndRemoval(t *testing.T) {
	a := NewArena()
	r1 := a.Insert(NodeID{}, newTestComponent("r1"))
	r2 := a.Insert(NodeID{}, newTestComponent("r2"))

	roots := a.Roots()
	if len(roots) != 2 || roots[0] != r1 || roots[1] != r2 {
		t.Fatalf("Roots = %v, want [%v %v]", roots, r1, r2)
	}

	a.Remove(r1)
	roots = a.Roots()
	if len(roots) != 1 || roots[0] != r2 {
		t.Errorf("Roots after removal = %v, want [%v]", roots, r2)
	}
}

// --- Cascade delete ---

func TestCascadeDelete(t *testing.T) {
	a := NewArena()
	root := a.Insert(NodeID{}, newTestComponent("root"))
	child := a.Insert(root, newTestComponent("child"))
	grandchild := a.Insert(child, newTestComponent("grandchild"))

	if _, ok := a.Remove(root); !ok {
		t.Fatal("Remove(root) should succeed")
	}
	for _, id := range []NodeID{root, child, grandchild} {
		if a.Alive(id) {
			t.Errorf("%v should be removed by the cascade", id)
		}
	}
	if a.Count() != 0 {
		t.Errorf("Count = %d, want 0", a.Count())
	}
}

func TestRemoveDetachesFromParent(t *testing.T) {
	a := NewArena()
	parent := a.Insert(NodeID{}, newTestComponent("parent"))
	c1 := a.Insert(parent, newTestComponent("a"))
	c2 := a.Insert(parent, newTestComponent("b"))

	a.Remove(c1)
	children := a.Children(parent)
	if len(children) != 1 || children[0] != c2 {
		t.Errorf("Children = %v, want [%v]", children, c2)
	}
}

// Scenario from the removal/reuse contract: removing a root cascades to its
// child, and reusing the freed slots never resurrects the old IDs.
func TestRemoveReuseScenario(t *testing.T) {
	a := NewArena()
	r := a.Insert(NodeID{}, newTestComponent("R"))
	c := a.Insert(r, newTestComponent("C"))

	a.Remove(r)
	if _, ok := a.Component(c); ok {
		t.Error("lookup(C) should fail after cascade removal of R")
	}
	if _, ok := a.Component(r); ok {
		t.Error("lookup(R) should fail after removal")
	}

	fresh := a.Insert(NodeID{}, newTestComponent("fresh"))
	if fresh.Slot() != r.Slot() && fresh.Slot() != c.Slot() {
		t.Fatalf("expected a freed slot to be reused, got slot %d", fresh.Slot())
	}
	if fresh.Generation() <= 1 {
		t.Errorf("reused slot generation = %d, want > 1", fresh.Generation())
	}
	if _, ok := a.Component(r); ok {
		t.Error("old R NodeID should still fail lookup after reuse")
	}
	if _, ok := a.Component(c); ok {
		t.Error("old C NodeID should still fail lookup after reuse")
	}
}

// --- Events and hooks ---

type recordingSink struct {
	events []TreeEvent
}

func (r *recordingSink) EmitTreeEvent(ev TreeEvent) {
	r.events = append(r.events, ev)
}

func TestEventSinkReceivesMutations(t *testing.T) {
	a := NewArena()
	sink := &recordingSink{}
	a.SetEventSink(sink)

	root := a.Insert(NodeID{}, newTestComponent("root"))
	child := a.Insert(root, newTestComponent("child"))
	a.Remove(root)

	if len(sink.events) != 4 {
		t.Fatalf("got %d events, want 4 (2 inserts + 2 cascade removals)", len(sink.events))
	}
	if sink.events[0].Kind != TreeNodeInserted || sink.events[0].ID != root {
		t.Errorf("event 0 = %+v, want insert of root", sink.events[0])
	}
	if sink.events[1].Kind != TreeNodeInserted || sink.events[1].ID != child || sink.events[1].Parent != root {
		t.Errorf("event 1 = %+v, want insert of child under root", sink.events[1])
	}
	if sink.events[2].Kind != TreeNodeRemoved || sink.events[2].ID != root {
		t.Errorf("event 2 = %+v, want removal of root", sink.events[2])
	}
	if sink.events[3].Kind != TreeNodeRemoved || sink.events[3].ID != child {
		t.Errorf("event 3 = %+v, want cascade removal of child", sink.events[3])
	}
}

type hookComp struct {
	testComponent
	attached NodeID
	detached bool
}

func (h *hookComp) Attached(id NodeID) { h.attached = id }
func (h *hookComp) Detached()          { h.detached = true }

func TestAttachedDetachedHooks(t *testing.T) {
	a := NewArena()
	comp := &hookComp{}
	id := a.Insert(NodeID{}, comp)

	if comp.attached != id {
		t.Errorf("Attached hook got %v, want %v", comp.attached, id)
	}
	if comp.detached {
		t.Error("Detached should not fire before removal")
	}

	a.Remove(id)
	if !comp.detached {
		t.Error("Detached should fire on removal")
	}
}

func TestDetachedHookFiresForDescendants(t *testing.T) {
	a := NewArena()
	root := a.Insert(NodeID{}, newTestComponent("root"))
	comp := &hookComp{}
	a.Insert(root, comp)

	a.Remove(root)
	if !comp.detached {
		t.Error("Detached should fire for cascade-removed descendants")
	}
}

// --- NodeID ---

func TestNodeIDString(t *testing.T) {
	if got := (NodeID{}).String(); got != "NodeID(0:0)" {
		t.Errorf("zero String = %q", got)
	}
	id := NodeID{slot: 3, generation: 7}
	if got := id.String(); got != "NodeID(3:7)" {
		t.Errorf("String = %q, want NodeID(3:7)", got)
	}
}
