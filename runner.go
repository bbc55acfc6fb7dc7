package rowan

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window created by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int

	// DisableHiDPI keeps the style scale factor at 1 instead of adopting
	// the monitor's device scale factor.
	DisableHiDPI bool
}

// game adapts a Scene to the ebiten.Game frame loop: Update drives the
// update phase, Draw drives layout and render.
type game struct {
	scene *Scene
}

func (g *game) Update() error {
	return g.scene.Update()
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// Run creates a window and drives the scene's frame pipeline until the
// window closes. Unless disabled, the monitor's device scale factor becomes
// the scene's style scale factor, so unscaled style lengths resolve to
// physical pixels consistently across displays.
//
// For full control, implement ebiten.Game yourself and call Scene.Update
// and Scene.Draw directly.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if !cfg.DisableHiDPI {
		if factor := ebiten.Monitor().DeviceScaleFactor(); factor > 0 {
			scene.SetScaleFactor(factor)
		}
	}
	return ebiten.RunGame(&game{scene: scene})
}
