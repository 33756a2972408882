package ebitengine

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/arbor"
)

// viewAdaptor composites one scene, seen through one camera, into a region
// of its canvas.
type viewAdaptor struct {
	scene  *WorldObject
	camera *CameraAdaptor

	layout     arbor.Layout
	blend      ebiten.Blend
	visible    bool
	background arbor.Color

	// commands is a reused buffer for per-frame scene traversal output.
	commands []RenderCommand
}

func newViewAdaptor() *viewAdaptor {
	return &viewAdaptor{
		visible:    true,
		blend:      blendFor(arbor.BlendDefault),
		background: arbor.ColorBlack,
	}
}

// GetNative returns the adaptor itself; there is no separate native view
// object in this backend.
func (v *viewAdaptor) GetNative() any {
	return v
}

func (v *viewAdaptor) SetVisible(visible bool) error {
	v.visible = visible
	return nil
}

func (v *viewAdaptor) SetScene(scene arbor.NodeAdaptor) error {
	if scene == nil {
		v.scene = nil
		return nil
	}
	obj, ok := scene.GetNative().(*WorldObject)
	if !ok {
		return &foreignNativeError{got: scene.GetNative()}
	}
	v.scene = obj
	return nil
}

func (v *viewAdaptor) SetCamera(camera arbor.CameraAdaptor) error {
	if camera == nil {
		v.camera = nil
		return nil
	}
	ca, ok := camera.(*CameraAdaptor)
	if !ok {
		return &foreignNativeError{got: camera.GetNative()}
	}
	v.camera = ca
	return nil
}

func (v *viewAdaptor) SetLayout(layout arbor.Layout) error {
	v.layout = layout
	return nil
}

func (v *viewAdaptor) SetBlending(mode arbor.BlendMode) error {
	v.blend = blendFor(mode)
	return nil
}

func (v *viewAdaptor) SetBackground(c arbor.Color) error {
	v.background = c
	return nil
}

// viewport returns the canvas-space rectangle this view draws into. A zero
// layout fills the whole canvas.
func (v *viewAdaptor) viewport(canvasW, canvasH int) (x, y, w, h float64) {
	l := v.layout
	if l.Width <= 0 || l.Height <= 0 {
		return 0, 0, float64(canvasW), float64(canvasH)
	}
	m := l.Margin + l.Padding
	return l.X + m, l.Y + m, l.Width - 2*m, l.Height - 2*m
}

// draw composites the view's scene into dst.
func (v *viewAdaptor) draw(dst *ebiten.Image) {
	if !v.visible || v.scene == nil {
		return
	}
	x, y, w, h := v.viewport(dst.Bounds().Dx(), dst.Bounds().Dy())
	if w <= 0 || h <= 0 {
		return
	}
	region := dst.SubImage(intRect(x, y, w, h)).(*ebiten.Image)
	region.Fill(colorOf(v.background))

	view := identityAffine
	if v.camera != nil {
		view = v.camera.viewMatrix(w, h)
	}
	// Offset world->viewport into canvas space.
	view[2] += x
	view[5] += y

	v.commands = emitCommands(v.scene, identityAffine, 1, v.commands[:0])
	submit(region, v.commands, view, v.blend)
}
