package rowan

import (
	"image/color"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when the color is handed to the renderer.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default foreground (no tint).
var ColorWhite = Color{1, 1, 1, 1}

// ColorTransparent is the default background (draws nothing).
var ColorTransparent = Color{0, 0, 0, 0}

// IsTransparent reports whether the color has zero alpha.
func (c Color) IsTransparent() bool {
	return c.A <= 0
}

// toRGBA converts to a premultiplied 8-bit color for ebiten fills.
func (c Color) toRGBA() color.RGBA {
	clamp := func(v float64) uint8 {
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 255
		}
		return uint8(math.Round(v * 255))
	}
	return color.RGBA{
		R: clamp(c.R * c.A),
		G: clamp(c.G * c.A),
		B: clamp(c.B * c.A),
		A: clamp(c.A),
	}
}

// Point is a 2D position. The coordinate system has its origin at the
// top-left, with Y increasing downward.
type Point struct {
	X, Y float64
}

// Add returns the component-wise sum of p and other.
func (p Point) Add(other Point) Point {
	return Point{p.X + other.X, p.Y + other.Y}
}

// Size is a 2D extent. Negative dimensions are never produced by the
// layout system; constructors and arithmetic clamp at zero.
type Size struct {
	Width, Height float64
}

// Min returns the component-wise minimum of s and other.
func (s Size) Min(other Size) Size {
	return Size{math.Min(s.Width, other.Width), math.Min(s.Height, other.Height)}
}

// Max returns the component-wise maximum of s and other.
func (s Size) Max(other Size) Size {
	return Size{math.Max(s.Width, other.Width), math.Max(s.Height, other.Height)}
}

// Inset shrinks the size by the given horizontal and vertical amounts,
// clamping at zero.
func (s Size) Inset(dx, dy float64) Size {
	return Size{math.Max(0, s.Width-dx), math.Max(0, s.Height-dy)}
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// RectFrom constructs a Rect from an origin and a size.
func RectFrom(origin Point, size Size) Rect {
	return Rect{origin.X, origin.Y, size.Width, size.Height}
}

// Origin returns the rectangle's top-left corner.
func (r Rect) Origin() Point {
	return Point{r.X, r.Y}
}

// Size returns the rectangle's extent.
func (r Rect) Size() Size {
	return Size{r.Width, r.Height}
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Inset shrinks the rectangle by the given edge amounts, clamping the size
// at zero.
func (r Rect) Inset(left, top, right, bottom float64) Rect {
	return Rect{
		X:      r.X + left,
		Y:      r.Y + top,
		Width:  math.Max(0, r.Width-left-right),
		Height: math.Max(0, r.Height-top-bottom),
	}
}

// Length is a one-dimensional extent used by style components. In an
// unscaled Style it is expressed in resolution-independent units; after
// Style.Scale it is expressed in device pixels. The two spaces are never
// mixed within one style map.
type Length float64

// Scale converts the length by the given resolution factor.
func (l Length) Scale(factor float64) Length {
	return Length(float64(l) * factor)
}

// Axis selects a layout direction for components such as Stack.
type Axis uint8

const (
	Vertical   Axis = iota // children flow top to bottom
	Horizontal             // children flow left to right
)
