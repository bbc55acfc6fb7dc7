package rowan

import (
	"fmt"
	"image"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fillRect fills an axis-aligned region of target with a solid color.
func fillRect(target *ebiten.Image, r Rect, c Color) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	sub := target.SubImage(image.Rect(
		int(r.X), int(r.Y),
		int(r.X+r.Width), int(r.Y+r.Height),
	)).(*ebiten.Image)
	sub.Fill(c.toRGBA())
}

// fillBackground draws the node's resolved BackgroundColor across bounds.
// Transparent backgrounds and nil targets draw nothing.
func fillBackground(ctx *StyledContext, bounds Rect) {
	bg := ResolveStyle[BackgroundColor](ctx.Style())
	if bg.IsTransparent() {
		return
	}
	if target := ctx.Target(); target != nil {
		fillRect(target, bounds, bg.Color)
	}
}

// --- Container ---

// Container groups children without imposing an order on them: every child
// receives the container's content bounds (bounds inset by Padding). With a
// non-transparent BackgroundColor style it doubles as a filled panel.
type Container struct {
	Name string
}

// NewContainer creates a container node component.
func NewContainer(name string) *Container {
	return &Container{Name: name}
}

func (c *Container) Update(*SceneContext) error { return nil }

func (c *Container) Measure(ctx *StyledContext, max Size) (Size, error) {
	pad := ResolveStyle[Padding](ctx.Style())
	inner := max.Inset(pad.Horizontal(), pad.Vertical())
	var content Size
	for _, child := range ctx.Children() {
		sz, err := ctx.MeasureChild(child, inner)
		if err != nil {
			return Size{}, err
		}
		content = content.Max(sz)
	}
	return Size{
		Width:  content.Width + pad.Horizontal(),
		Height: content.Height + pad.Vertical(),
	}.Min(max), nil
}

func (c *Container) Place(ctx *StyledContext, bounds Rect) error {
	pad := ResolveStyle[Padding](ctx.Style())
	content := bounds.Inset(float64(pad.Left), float64(pad.Top), float64(pad.Right), float64(pad.Bottom))
	for _, child := range ctx.Children() {
		ctx.PlaceChild(child, content)
	}
	return nil
}

func (c *Container) Render(ctx *StyledContext) error {
	fillBackground(ctx, ctx.Bounds())
	return nil
}

// --- Stack ---

// Stack lays out children sequentially along one axis, separated by the
// resolved Gap style and inset by Padding. Children are stretched across
// the other axis.
type Stack struct {
	Axis Axis
}

// NewStack creates a stack component flowing along the given axis.
func NewStack(axis Axis) *Stack {
	return &Stack{Axis: axis}
}

func (st *Stack) Update(*SceneContext) error { return nil }

// measureFlow measures every child against the shrinking remaining space.
// Measure and Place both call it with identical constraints, so the per
// frame layout cache makes the second pass free.
func (st *Stack) measureFlow(ctx *StyledContext, content Size, gap float64) ([]Size, error) {
	children := ctx.Children()
	sizes := make([]Size, 0, len(children))
	remaining := content
	for i, child := range children {
		if i > 0 {
			remaining = st.shrink(remaining, gap)
		}
		sz, err := ctx.MeasureChild(child, remaining)
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, sz)
		remaining = st.shrink(remaining, st.along(sz))
	}
	return sizes, nil
}

func (st *Stack) Measure(ctx *StyledContext, max Size) (Size, error) {
	pad := ResolveStyle[Padding](ctx.Style())
	gap := float64(ResolveStyle[Gap](ctx.Style()).Amount)
	content := max.Inset(pad.Horizontal(), pad.Vertical())

	sizes, err := st.measureFlow(ctx, content, gap)
	if err != nil {
		return Size{}, err
	}
	var along, across float64
	for i, sz := range sizes {
		if i > 0 {
			along += gap
		}
		along += st.along(sz)
		if a := st.across(sz); a > across {
			across = a
		}
	}
	var desired Size
	if st.Axis == Vertical {
		desired = Size{Width: across, Height: along}
	} else {
		desired = Size{Width: along, Height: across}
	}
	return Size{
		Width:  desired.Width + pad.Horizontal(),
		Height: desired.Height + pad.Vertical(),
	}.Min(max), nil
}

func (st *Stack) Place(ctx *StyledContext, bounds Rect) error {
	pad := ResolveStyle[Padding](ctx.Style())
	gap := float64(ResolveStyle[Gap](ctx.Style()).Amount)
	content := bounds.Inset(float64(pad.Left), float64(pad.Top), float64(pad.Right), float64(pad.Bottom))

	sizes, err := st.measureFlow(ctx, content.Size(), gap)
	if err != nil {
		return err
	}
	offset := 0.0
	for i, child := range ctx.Children() {
		sz := sizes[i]
		var r Rect
		if st.Axis == Vertical {
			r = Rect{X: content.X, Y: content.Y + offset, Width: content.Width, Height: sz.Height}
		} else {
			r = Rect{X: content.X + offset, Y: content.Y, Width: sz.Width, Height: content.Height}
		}
		ctx.PlaceChild(child, r)
		offset += st.along(sz) + gap
	}
	return nil
}

func (st *Stack) Render(ctx *StyledContext) error {
	fillBackground(ctx, ctx.Bounds())
	return nil
}

func (st *Stack) along(sz Size) float64 {
	if st.Axis == Vertical {
		return sz.Height
	}
	return sz.Width
}

func (st *Stack) across(sz Size) float64 {
	if st.Axis == Vertical {
		return sz.Width
	}
	return sz.Height
}

func (st *Stack) shrink(remaining Size, by float64) Size {
	if st.Axis == Vertical {
		return remaining.Inset(0, by)
	}
	return remaining.Inset(by, 0)
}

// --- Spacer ---

// Spacer reserves a fixed extent in a layout. It draws nothing.
type Spacer struct {
	Size Size
}

// NewSpacer creates a spacer with the given extent in device pixels.
func NewSpacer(width, height float64) *Spacer {
	return &Spacer{Size: Size{Width: width, Height: height}}
}

func (sp *Spacer) Update(*SceneContext) error { return nil }

func (sp *Spacer) Measure(_ *StyledContext, max Size) (Size, error) {
	return sp.Size.Min(max), nil
}

func (sp *Spacer) Render(*StyledContext) error { return nil }

// --- Label ---

// Cell size of the ebitenutil debug font used by Label and FPSWidget.
const (
	debugGlyphWidth  = 6
	debugGlyphHeight = 16
)

// LabelMessage replaces a Label's text asynchronously through its entity
// handle.
type LabelMessage struct {
	Text string
}

// Label renders a block of text with the node's resolved TextColor. Text is
// drawn once into an offscreen canvas and re-drawn only when it changes.
// Labels accept LabelMessage values through their mailbox; sent text is
// applied during the next update phase.
type Label struct {
	Mailbox[LabelMessage]

	text   string
	canvas *ebiten.Image
	dirty  bool
}

// NewLabel creates a label component with the given initial text.
func NewLabel(text string) *Label {
	return &Label{text: text, dirty: true}
}

// Text returns the label's current text.
func (l *Label) Text() string {
	return l.text
}

// SetText replaces the label's text directly (same-goroutine use). Prefer
// Entity.Send with a LabelMessage from other goroutines.
func (l *Label) SetText(text string) {
	if l.text == text {
		return
	}
	l.text = text
	l.dirty = true
}

func (l *Label) Update(*SceneContext) error {
	for _, msg := range l.Drain() {
		l.SetText(msg.Text)
	}
	return nil
}

// textExtent returns the pixel extent of the debug-font rendering of text.
func textExtent(text string) Size {
	var cols int
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		if len(line) > cols {
			cols = len(line)
		}
	}
	return Size{
		Width:  float64(cols * debugGlyphWidth),
		Height: float64(len(lines) * debugGlyphHeight),
	}
}

func (l *Label) Measure(ctx *StyledContext, max Size) (Size, error) {
	pad := ResolveStyle[Padding](ctx.Style())
	extent := textExtent(l.text)
	return Size{
		Width:  extent.Width + pad.Horizontal(),
		Height: extent.Height + pad.Vertical(),
	}.Min(max), nil
}

func (l *Label) Render(ctx *StyledContext) error {
	target := ctx.Target()
	if target == nil || l.text == "" {
		return nil
	}
	extent := textExtent(l.text)
	w, h := int(extent.Width), int(extent.Height)
	if l.canvas == nil || l.canvas.Bounds().Dx() < w || l.canvas.Bounds().Dy() < h {
		l.canvas = ebiten.NewImage(w, h)
		l.dirty = true
	}
	if l.dirty {
		l.canvas.Clear()
		ebitenutil.DebugPrint(l.canvas, l.text)
		l.dirty = false
	}

	fillBackground(ctx, ctx.Bounds())
	pad := ResolveStyle[Padding](ctx.Style())
	tc := ResolveStyle[TextColor](ctx.Style())
	op := &ebiten.DrawImageOptions{}
	op.ColorScale.Scale(float32(tc.R), float32(tc.G), float32(tc.B), float32(tc.A))
	op.GeoM.Translate(ctx.Bounds().X+float64(pad.Left), ctx.Bounds().Y+float64(pad.Top))
	target.DrawImage(l.canvas, op)
	return nil
}

// --- FPSWidget ---

// FPSWidget displays the current FPS and TPS, refreshed about twice per
// second. It uses an internal canvas and the ebitenutil debug font.
type FPSWidget struct {
	canvas      *ebiten.Image
	sinceUpdate float64
}

// NewFPSWidget creates an FPS/TPS readout component.
func NewFPSWidget() *FPSWidget {
	return &FPSWidget{sinceUpdate: 1} // draw on the first update
}

func (f *FPSWidget) Update(*SceneContext) error {
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = 60
	}
	f.sinceUpdate += 1.0 / float64(tps)
	if f.sinceUpdate < 0.5 {
		return nil
	}
	f.sinceUpdate = 0

	if f.canvas == nil {
		// 100x32 is enough for "FPS: 60.0\nTPS: 60.0".
		f.canvas = ebiten.NewImage(100, 32)
	}
	f.canvas.Fill(Color{0, 0, 0, 0.5}.toRGBA())
	ebitenutil.DebugPrint(f.canvas, fmt.Sprintf("FPS: %.1f\nTPS: %.1f",
		ebiten.ActualFPS(), ebiten.ActualTPS()))
	return nil
}

func (f *FPSWidget) Measure(_ *StyledContext, max Size) (Size, error) {
	return Size{Width: 100, Height: 32}.Min(max), nil
}

func (f *FPSWidget) Render(ctx *StyledContext) error {
	target := ctx.Target()
	if target == nil || f.canvas == nil {
		return nil
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(ctx.Bounds().X, ctx.Bounds().Y)
	target.DrawImage(f.canvas, op)
	return nil
}
