package rowan

// Component is the capability set the pipeline dispatches through. Concrete
// component types are stored type-erased in the arena; the tree walk never
// knows them.
//
// Update runs once per frame before layout and may mutate the tree through
// the context. Measure reports the desired size within max and must be pure
// with respect to the tree (it may recurse into children via
// StyledContext.MeasureChild). Render draws into the context's target and
// must not mutate the tree; in debug mode the pipeline verifies this.
type Component interface {
	Update(ctx *SceneContext) error
	Measure(ctx *StyledContext, max Size) (Size, error)
	Render(ctx *StyledContext) error
}

// Placer is implemented by components that position their children
// themselves. Place is called top-down with the component's assigned
// bounds; the implementation assigns each child a rectangle via
// StyledContext.PlaceChild. Children of a component without Place receive
// the component's full content bounds.
type Placer interface {
	Place(ctx *StyledContext, bounds Rect) error
}
