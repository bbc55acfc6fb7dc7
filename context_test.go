package rowan

import (
	"testing"

	"go.uber.org/zap"
)

func TestContextForNodeSharesArena(t *testing.T) {
	a := NewArena()
	id1 := a.Insert(NodeID{}, newTestComponent("one"))
	id2 := a.Insert(NodeID{}, newTestComponent("two"))

	ctx := NewContext(a, id1)
	rebound := ctx.ForNode(id2)

	if rebound.Arena() != a {
		t.Error("ForNode should share the arena")
	}
	if rebound.ID() != id2 {
		t.Errorf("ID = %v, want %v", rebound.ID(), id2)
	}
	if ctx.ID() != id1 {
		t.Error("ForNode must not mutate the source context")
	}
}

func TestContextChildrenAndRemove(t *testing.T) {
	a := NewArena()
	parent := a.Insert(NodeID{}, newTestComponent("parent"))
	child := a.Insert(parent, newTestComponent("child"))

	ctx := NewContext(a, parent)
	children := ctx.Children()
	if len(children) != 1 || children[0] != child {
		t.Errorf("Children = %v, want [%v]", children, child)
	}

	if !ctx.ForNode(child).Remove() {
		t.Fatal("Remove should succeed on a live node")
	}
	if a.Alive(child) {
		t.Error("node should be gone after Context.Remove")
	}
	if ctx.ForNode(child).Remove() {
		t.Error("second Remove should report false")
	}
}

func TestSceneContextPromotesContext(t *testing.T) {
	s := NewScene()
	id := s.Insert(NodeID{}, newTestComponent("n"))
	ctx := s.Context(id)

	// Context methods are promoted through embedding.
	if ctx.ID() != id {
		t.Errorf("ID = %v, want %v", ctx.ID(), id)
	}
	if ctx.Arena() != s.Arena() {
		t.Error("Arena should be the scene's arena")
	}
	if ctx.Scene() != s {
		t.Error("Scene should be the owning scene")
	}
	if ctx.Frame() != s.Frame() {
		t.Errorf("Frame = %d, want %d", ctx.Frame(), s.Frame())
	}
	if ctx.Target() != nil {
		t.Error("Target should be nil before the first Draw")
	}
}

func TestSceneContextLoggerDefaultsToNop(t *testing.T) {
	s := NewScene()
	ctx := s.Context(s.Root())
	if ctx.Logger() == nil {
		t.Fatal("Logger should never be nil")
	}

	log := zap.NewNop()
	s.SetLogger(log)
	if ctx.Logger() != log {
		t.Error("Logger should reflect SetLogger")
	}
	s.SetLogger(nil)
	if ctx.Logger() == nil {
		t.Error("SetLogger(nil) should install a no-op logger, not nil")
	}
}

func TestSceneContextRuntime(t *testing.T) {
	s := NewScene()
	ctx := s.Context(s.Root())
	if ctx.Runtime() != nil {
		t.Error("Runtime should be nil until attached")
	}

	rt := NewRuntime(nil)
	defer rt.Shutdown()
	s.SetRuntime(rt)
	if ctx.Runtime() != rt {
		t.Error("Runtime should reflect SetRuntime")
	}
}

func TestSceneContextForNode(t *testing.T) {
	s := NewScene()
	id := s.Insert(NodeID{}, newTestComponent("n"))
	ctx := s.Context(s.Root()).ForNode(id)

	if ctx.ID() != id {
		t.Errorf("ID = %v, want %v", ctx.ID(), id)
	}
	if ctx.Scene() != s {
		t.Error("ForNode should carry the scene through")
	}
}

func TestStyledContextForNodeResolvesOwnStyle(t *testing.T) {
	s := NewScene()
	red := Color{R: 1, A: 1}
	styled := s.InsertStyled(NodeID{}, newTestComponent("styled"),
		NewStyle(TextColor{red}))
	plain := s.Insert(NodeID{}, newTestComponent("plain"))

	ctx := s.styledContext(plain)
	if got := ResolveStyle[TextColor](ctx.Style()); got.Color != ColorWhite {
		t.Errorf("plain TextColor = %+v, want default white", got.Color)
	}

	other := ctx.ForNode(styled)
	if got := ResolveStyle[TextColor](other.Style()); got.Color != red {
		t.Errorf("styled TextColor = %+v, want %+v", got.Color, red)
	}
	if other.Scene() != s {
		t.Error("ForNode should preserve the scene")
	}
}

func TestStyledContextBoundsDuringRender(t *testing.T) {
	s := NewScene()
	s.SetViewport(Size{Width: 100, Height: 100})

	leaf := newTestComponent("leaf")
	leaf.desired = Size{Width: 20, Height: 10}
	var seen Rect
	leaf.renderFn = func(ctx *StyledContext) error {
		seen = ctx.Bounds()
		return nil
	}
	s.Insert(NodeID{}, leaf)

	s.Update()
	s.Draw(nil)

	want := Rect{X: 0, Y: 0, Width: 20, Height: 10}
	if seen != want {
		t.Errorf("render bounds = %+v, want %+v", seen, want)
	}
}

func TestMeasureChildStaleIsZero(t *testing.T) {
	s := NewScene()
	gone := s.Insert(NodeID{}, newTestComponent("gone"))
	s.Remove(gone)

	ctx := s.styledContext(s.Root())
	sz, err := ctx.MeasureChild(gone, Size{Width: 100, Height: 100})
	if err != nil {
		t.Fatalf("MeasureChild: %v", err)
	}
	if sz != (Size{}) {
		t.Errorf("stale MeasureChild = %+v, want zero", sz)
	}
}
