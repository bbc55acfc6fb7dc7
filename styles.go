package rowan

import (
	"fmt"
	"reflect"
)

// StyleComponent is one typed entry of a style map. Implementations are
// small value types. Scale maps the component from resolution-independent
// units into device pixels; components that carry no lengths return
// themselves unchanged. Scale must preserve the component's dynamic type.
type StyleComponent interface {
	Scale(factor float64) StyleComponent
}

// DefaultStyler is implemented by style components that have a default
// value when neither an explicit entry nor a fallback matches. The default
// must be scale-invariant (colors, zero lengths), since it may be produced
// on either side of the unit conversion.
type DefaultStyler interface {
	DefaultStyle() StyleComponent
}

// FallbackStyler is implemented by style components that resolve through
// another component type when unset (for example TextColor falling back to
// ForegroundColor). The method inspects the style map directly, so a
// fallback chain of any depth can be expressed by consulting further types.
type FallbackStyler interface {
	FallbackStyle(s *Style) (StyleComponent, bool)
}

// InheritedStyler is implemented by style components that cascade from a
// parent node's effective style to its children. Components without the
// method do not inherit.
type InheritedStyler interface {
	InheritedStyle() bool
}

// Style is an ordered-by-insertion map from style component type to value.
// A Style is either unscaled (resolution-independent units) or scaled
// (device pixels); the two spaces are never mixed within one map.
type Style struct {
	scaled bool
	keys   []reflect.Type
	vals   map[reflect.Type]StyleComponent
}

// NewStyle creates an unscaled style map holding the given components.
func NewStyle(comps ...StyleComponent) *Style {
	s := &Style{}
	for _, c := range comps {
		s.Set(c)
	}
	return s
}

// Set adds or replaces a component, keyed by its concrete type. Replacing
// keeps the original insertion position. Returns s for chaining.
func (s *Style) Set(c StyleComponent) *Style {
	if c == nil {
		panic("rowan: cannot set nil style component")
	}
	t := reflect.TypeOf(c)
	if s.vals == nil {
		s.vals = make(map[reflect.Type]StyleComponent)
	}
	if _, exists := s.vals[t]; !exists {
		s.keys = append(s.keys, t)
	}
	s.vals[t] = c
	return s
}

// Len returns the number of components in the map.
func (s *Style) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Scaled reports whether the map is in device-pixel space.
func (s *Style) Scaled() bool {
	return s != nil && s.scaled
}

// Each calls fn for every component in insertion order.
func (s *Style) Each(fn func(StyleComponent)) {
	if s == nil {
		return
	}
	for _, t := range s.keys {
		fn(s.vals[t])
	}
}

// Scale converts every component into device-pixel space exactly once and
// returns the converted map. Scaling an already-scaled map is a caller
// contract violation and panics.
func (s *Style) Scale(factor float64) *Style {
	if s.scaled {
		panic("rowan: style map scaled twice")
	}
	out := &Style{scaled: true}
	s.Each(func(c StyleComponent) {
		out.Set(c.Scale(factor))
	})
	return out
}

// clone returns a shallow copy preserving insertion order and unit space.
func (s *Style) clone() *Style {
	out := &Style{scaled: s.Scaled()}
	s.Each(func(c StyleComponent) {
		out.Set(c)
	})
	return out
}

func (s *Style) get(t reflect.Type) (StyleComponent, bool) {
	if s == nil || s.vals == nil {
		return nil, false
	}
	c, ok := s.vals[t]
	return c, ok
}

// mergeInherited returns own extended with the parent components that
// declare inheritance and are not overridden by own. The result keeps own's
// insertion order first, then the inherited extras in the parent's order.
func mergeInherited(own, parent *Style) *Style {
	if parent.Len() == 0 {
		if own == nil {
			return &Style{}
		}
		return own
	}
	var out *Style
	if own == nil {
		out = &Style{}
	} else {
		out = own.clone()
	}
	parent.Each(func(c StyleComponent) {
		inh, ok := c.(InheritedStyler)
		if !ok || !inh.InheritedStyle() {
			return
		}
		if _, present := out.get(reflect.TypeOf(c)); present {
			return
		}
		out.Set(c)
	})
	return out
}

// GetStyle returns the explicit entry for T, without consulting fallbacks
// or defaults. A nil map is an ordinary miss.
func GetStyle[T StyleComponent](s *Style) (T, bool) {
	var zero T
	if v, ok := s.get(reflect.TypeOf(zero)); ok {
		return v.(T), true
	}
	return zero, false
}

// ResolveStyle resolves T against the style map: explicit entry first, then
// T's fallback chain, then T's default. A style component type with none of
// the three is a programming error and panics.
func ResolveStyle[T StyleComponent](s *Style) T {
	var zero T
	if v, ok := s.get(reflect.TypeOf(zero)); ok {
		return v.(T)
	}
	if f, ok := any(zero).(FallbackStyler); ok {
		if v, matched := f.FallbackStyle(s); matched {
			return v.(T)
		}
	}
	if d, ok := any(zero).(DefaultStyler); ok {
		return d.DefaultStyle().(T)
	}
	panic(fmt.Sprintf("rowan: style component %T has no value, fallback, or default", zero))
}

// --- Built-in style components ---

// ForegroundColor is the general foreground used by drawing components.
// Inherited. Defaults to white.
type ForegroundColor struct {
	Color
}

func (c ForegroundColor) Scale(float64) StyleComponent { return c }
func (ForegroundColor) DefaultStyle() StyleComponent   { return ForegroundColor{ColorWhite} }
func (ForegroundColor) InheritedStyle() bool           { return true }

// TextColor is the color used for rendered text. When unset it falls back
// to the node's ForegroundColor; with neither set it defaults to white.
// Inherited.
type TextColor struct {
	Color
}

func (c TextColor) Scale(float64) StyleComponent { return c }

func (TextColor) FallbackStyle(s *Style) (StyleComponent, bool) {
	if fg, ok := GetStyle[ForegroundColor](s); ok {
		return TextColor{fg.Color}, true
	}
	return nil, false
}

func (TextColor) DefaultStyle() StyleComponent { return TextColor{ColorWhite} }
func (TextColor) InheritedStyle() bool         { return true }

// BackgroundColor fills a component's bounds before its content is drawn.
// Not inherited. Defaults to transparent (no fill).
type BackgroundColor struct {
	Color
}

func (c BackgroundColor) Scale(float64) StyleComponent { return c }
func (BackgroundColor) DefaultStyle() StyleComponent   { return BackgroundColor{ColorTransparent} }

// Padding is the inner spacing between a component's bounds and its
// content. Lengths scale with resolution. Not inherited. Defaults to zero.
type Padding struct {
	Top, Right, Bottom, Left Length
}

// UniformPadding returns a Padding with the same length on all four edges.
func UniformPadding(l Length) Padding {
	return Padding{Top: l, Right: l, Bottom: l, Left: l}
}

func (p Padding) Scale(factor float64) StyleComponent {
	return Padding{
		Top:    p.Top.Scale(factor),
		Right:  p.Right.Scale(factor),
		Bottom: p.Bottom.Scale(factor),
		Left:   p.Left.Scale(factor),
	}
}

func (Padding) DefaultStyle() StyleComponent { return Padding{} }

// Horizontal returns Left + Right.
func (p Padding) Horizontal() float64 { return float64(p.Left + p.Right) }

// Vertical returns Top + Bottom.
func (p Padding) Vertical() float64 { return float64(p.Top + p.Bottom) }

// Gap is the spacing between consecutive children of a layout container.
// Scales with resolution. Not inherited. Defaults to zero.
type Gap struct {
	Amount Length
}

func (g Gap) Scale(factor float64) StyleComponent {
	return Gap{Amount: g.Amount.Scale(factor)}
}

func (Gap) DefaultStyle() StyleComponent { return Gap{} }
