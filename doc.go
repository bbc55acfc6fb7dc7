// Package rowan is a retained-mode UI/scene tree runtime for [Ebitengine].
//
// Rowan stores heterogeneous component instances in a generational-index
// arena, connects them in a parent/child hierarchy, and drives them through
// a three-phase frame pipeline: update, layout (measure bottom-up, place
// top-down), and render. A cascading style system with resolution-independent
// units sits on top.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	scene := rowan.NewScene()
//	// ... insert components ...
//	rowan.Run(scene, rowan.RunConfig{
//		Title: "My App", Width: 640, Height: 480,
//	})
//
// For full control, implement [ebiten.Game] yourself and call
// [Scene.Update] and [Scene.Draw] directly.
//
// # Nodes and handles
//
// Every element is a [Component] stored in a node of the scene's [Arena].
// Inserting a component yields a [NodeID], a (slot, generation) pair: after
// the node is removed, the slot can be reused but the old ID keeps failing
// lookups instead of aliasing the new occupant.
//
//	stack := scene.Insert(rowan.NodeID{}, rowan.NewStack(rowan.Vertical))
//	label := scene.Insert(stack, rowan.NewLabel("hello"))
//
// Components that accept messages embed a [Mailbox] and drain it in their
// update; [Mailbox.Bind] yields an [Entity] handle that any goroutine can
// send through. Sends to removed nodes return [ErrEntityGone].
//
// To configure a component fully before it becomes visible to traversal,
// wrap it in a [Pending] value and attach it later with [Pending.Insert].
//
// # Styles
//
// A [Style] is an ordered map of typed components ([TextColor], [Padding],
// [Gap], ...). Resolution walks explicit value, then fallback chain, then
// default; lengths are converted from resolution-independent units to
// device pixels exactly once per node per frame by the scene's scale
// factor.
//
//	scene.InsertStyled(stack, rowan.NewLabel("hi"), rowan.NewStyle(
//		rowan.TextColor{rowan.Color{R: 1, A: 1}},
//		rowan.UniformPadding(8),
//	))
//
// # Contexts
//
// Components see the tree through a layered context chain: [Context] (arena
// plus addressed node), [SceneContext] (adds the render target, logger,
// task runtime), and [StyledContext] (adds the resolved style snapshot and
// placement bounds). Each layer promotes everything beneath it and can be
// rebound to another node with ForNode.
//
// [Ebitengine]: https://ebitengine.org
package rowan
