package ebitengine

import (
	"fmt"
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/arbor"
)

// scrollAnim holds active scroll tweens for the camera center X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// CameraAdaptor drives a camera WorldObject. The camera object itself draws
// nothing; it supplies the view matrix that its view applies when
// compositing the scene.
type CameraAdaptor struct {
	nodeAdaptor

	zoom   float64
	center arbor.Vec3

	// fitW/fitH are the world-space extents a range refit asked the camera
	// to keep visible, margin included. Zero means no refit is active.
	fitW, fitH float64

	scrollTween *scrollAnim
}

func newCameraAdaptor() *CameraAdaptor {
	return &CameraAdaptor{
		nodeAdaptor: newNodeAdaptor(arbor.KindCamera),
		zoom:        1,
	}
}

// SetCameraType accepts pan/zoom only; this backend is strictly 2D.
func (a *CameraAdaptor) SetCameraType(t arbor.CameraType) error {
	if t != arbor.CameraPanZoom {
		return fmt.Errorf("ebitengine: perspective camera: %w", arbor.ErrUnsupported)
	}
	return nil
}

func (a *CameraAdaptor) SetZoom(zoom float64) error {
	a.apply(func() { a.zoom = zoom })
	return nil
}

// SetCenter snaps the camera to the given center, cancelling any scroll
// animation in flight.
func (a *CameraAdaptor) SetCenter(center arbor.Vec3) error {
	a.apply(func() {
		a.center = center
		a.scrollTween = nil
	})
	return nil
}

// SetRange refits the camera to the bounding box of its scene's content,
// leaving the given margin fraction around it. The scene is found through
// the native parent chain, so the camera must already be attached.
func (a *CameraAdaptor) SetRange(margin float64) error {
	a.apply(func() { a.refit(margin) })
	return nil
}

// ForceUpdate is a no-op: the view matrix is recomputed from current state
// on every draw, so there is no derived state to refresh.
func (a *CameraAdaptor) ForceUpdate() error {
	return nil
}

// refit recomputes center and fit extents from the scene content bounds.
func (a *CameraAdaptor) refit(margin float64) {
	root := a.obj
	for root.parent != nil {
		root = root.parent
	}
	b, ok := contentBounds(root, identityAffine)
	if !ok {
		return
	}
	a.center = arbor.Vec3{X: (b.minX + b.maxX) / 2, Y: (b.minY + b.maxY) / 2}
	pad := 1 + margin
	a.fitW = (b.maxX - b.minX) * pad
	a.fitH = (b.maxY - b.minY) * pad
	a.scrollTween = nil
}

// ScrollTo animates the camera center to the given world position over
// duration seconds. A zero duration snaps on the next update.
func (a *CameraAdaptor) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	a.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(a.center.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(a.center.Y), float32(y), duration, easeFn),
	}
}

// update advances the scroll animation. Called once per frame by the canvas.
func (a *CameraAdaptor) update(dt float32) {
	if a.scrollTween == nil {
		return
	}
	if !a.scrollTween.doneX {
		val, done := a.scrollTween.tweenX.Update(dt)
		a.center.X = float64(val)
		a.scrollTween.doneX = done
	}
	if !a.scrollTween.doneY {
		val, done := a.scrollTween.tweenY.Update(dt)
		a.center.Y = float64(val)
		a.scrollTween.doneY = done
	}
	if a.scrollTween.doneX && a.scrollTween.doneY {
		a.scrollTween = nil
	}
}

// viewMatrix builds the affine that maps world space onto a viewport of the
// given size: center the camera target, then apply zoom (times the range
// fit, when one is active).
//
//	view = Translate(vw/2, vh/2) * Scale(z) * Translate(-cx, -cy)
func (a *CameraAdaptor) viewMatrix(vw, vh float64) [6]float64 {
	z := a.zoom
	if a.fitW > 0 && a.fitH > 0 && vw > 0 && vh > 0 {
		z *= math.Min(vw/a.fitW, vh/a.fitH)
	}
	return [6]float64{
		z, 0, vw/2 - z*a.center.X,
		0, z, vh/2 - z*a.center.Y,
	}
}

// bounds2D is a world-space axis-aligned bounding box.
type bounds2D struct {
	minX, minY, maxX, maxY float64
}

func (b *bounds2D) add(x, y float64) {
	b.minX = math.Min(b.minX, x)
	b.minY = math.Min(b.minY, y)
	b.maxX = math.Max(b.maxX, x)
	b.maxY = math.Max(b.maxY, y)
}

// contentBounds computes the world-space AABB of all visible drawable
// content under w. Cameras and empty containers contribute nothing. Returns
// ok=false when the subtree has no drawable content.
func contentBounds(w *WorldObject, parentTf [6]float64) (bounds2D, bool) {
	b := bounds2D{
		minX: math.Inf(1), minY: math.Inf(1),
		maxX: math.Inf(-1), maxY: math.Inf(-1),
	}
	any := collectBounds(w, parentTf, &b)
	return b, any
}

func collectBounds(w *WorldObject, parentTf [6]float64, b *bounds2D) bool {
	if !w.Visible {
		return false
	}
	world := mulAffine(parentTf, w.Local)
	found := false
	switch w.Kind {
	case arbor.KindImage:
		if w.ImageData.Width > 0 && w.ImageData.Height > 0 {
			fw := float64(w.ImageData.Width)
			fh := float64(w.ImageData.Height)
			for _, p := range [4][2]float64{{0, 0}, {fw, 0}, {0, fh}, {fw, fh}} {
				b.add(applyAffine(world, p[0], p[1]))
			}
			found = true
		}
	case arbor.KindPoints:
		for _, c := range w.Coords {
			b.add(applyAffine(world, c.X, c.Y))
			found = true
		}
	}
	for _, c := range w.children {
		if collectBounds(c, world, b) {
			found = true
		}
	}
	return found
}
