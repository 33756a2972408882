package ebitengine

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/arbor"
)

// CommandType identifies the kind of render command.
type CommandType uint8

const (
	CommandImage  CommandType = iota // DrawImage of the image texture
	CommandPoints                    // solid-color marker quads
)

// RenderCommand is a single draw instruction emitted during scene traversal.
// Commands appear in draw order: parents before children, siblings by Order.
type RenderCommand struct {
	Type      CommandType
	Transform [6]float64 // world (scene-space) transform
	Alpha     float64    // accumulated opacity along the ancestor chain
	Object    *WorldObject
}

// emitCommands walks the subtree depth-first and appends a command for every
// visible drawable object. Invisible objects prune their whole subtree.
func emitCommands(w *WorldObject, parentTf [6]float64, parentAlpha float64, cmds []RenderCommand) []RenderCommand {
	if !w.Visible {
		return cmds
	}
	world := mulAffine(parentTf, w.Local)
	alpha := parentAlpha * w.Opacity

	switch w.Kind {
	case arbor.KindImage:
		if w.ImageData.Width > 0 && w.ImageData.Height > 0 {
			cmds = append(cmds, RenderCommand{
				Type:      CommandImage,
				Transform: world,
				Alpha:     alpha,
				Object:    w,
			})
		}
	case arbor.KindPoints:
		if len(w.Coords) > 0 {
			cmds = append(cmds, RenderCommand{
				Type:      CommandPoints,
				Transform: world,
				Alpha:     alpha,
				Object:    w,
			})
		}
	}

	for _, child := range w.orderedChildren() {
		cmds = emitCommands(child, world, alpha, cmds)
	}
	return cmds
}

// submit executes the commands against dst, applying the camera view matrix
// and the view's blend mode.
func submit(dst *ebiten.Image, cmds []RenderCommand, view [6]float64, blend ebiten.Blend) {
	for _, cmd := range cmds {
		final := mulAffine(view, cmd.Transform)
		switch cmd.Type {
		case CommandImage:
			drawImageCommand(dst, cmd, final, blend)
		case CommandPoints:
			drawPointsCommand(dst, cmd, final, blend)
		}
	}
}

func drawImageCommand(dst *ebiten.Image, cmd RenderCommand, tf [6]float64, blend ebiten.Blend) {
	w := cmd.Object
	if w.textureDirty {
		rebuildTexture(w)
	}
	if w.texture == nil {
		return
	}
	opts := &ebiten.DrawImageOptions{
		GeoM:   geoM(tf),
		Blend:  blend,
		Filter: filterFor(w.Interpolation),
	}
	opts.ColorScale.ScaleAlpha(float32(cmd.Alpha))
	dst.DrawImage(w.texture, opts)
}

func drawPointsCommand(dst *ebiten.Image, cmd RenderCommand, tf [6]float64, blend ebiten.Blend) {
	w := cmd.Object
	size := w.PointSize
	if w.Scaling == arbor.ScalingScene {
		size *= affineScale(tf)
	}
	if size <= 0 {
		return
	}
	white := ensureWhitePixel()
	fc := w.FaceColor
	for _, c := range w.Coords {
		sx, sy := applyAffine(tf, c.X, c.Y)
		opts := &ebiten.DrawImageOptions{Blend: blend}
		opts.GeoM.Scale(size, size)
		opts.GeoM.Translate(sx-size/2, sy-size/2)
		opts.ColorScale.Scale(
			float32(fc.R), float32(fc.G), float32(fc.B),
			float32(fc.A*cmd.Alpha),
		)
		dst.DrawImage(white, opts)
	}
}

// affineScale returns the average axis scale of an affine matrix, used to
// size scene-scaled markers.
func affineScale(m [6]float64) float64 {
	sx := math.Hypot(m[0], m[3])
	sy := math.Hypot(m[1], m[4])
	return (sx + sy) / 2
}

// filterFor maps an interpolation mode onto an ebiten filter. Bicubic never
// reaches here; the image adaptor downgrades it to linear.
func filterFor(mode arbor.InterpolationMode) ebiten.Filter {
	if mode == arbor.InterpNearest {
		return ebiten.FilterNearest
	}
	return ebiten.FilterLinear
}

// blendFor maps a view blend mode onto an ebiten blend state.
func blendFor(mode arbor.BlendMode) ebiten.Blend {
	switch mode {
	case arbor.BlendOpaque:
		return ebiten.BlendCopy
	case arbor.BlendAdditive:
		return ebiten.BlendLighter
	default:
		return ebiten.BlendSourceOver
	}
}
