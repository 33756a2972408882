package ebitengine

import (
	"errors"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/arbor"
)

// ErrClosed is returned when rendering a canvas after Close.
var ErrClosed = errors.New("ebitengine: canvas is closed")

// CanvasAdaptor composites its views into an offscreen image. It does not
// open a window; embedding the canvas in an ebiten.Game loop (or calling
// Render for a one-shot readback) is up to the host application.
type CanvasAdaptor struct {
	width      int
	height     int
	title      string
	background arbor.Color
	visible    bool
	closed     bool

	views []*viewAdaptor

	target *ebiten.Image // offscreen composite target, sized lazily
}

func newCanvasAdaptor() *CanvasAdaptor {
	return &CanvasAdaptor{
		width:      800,
		height:     600,
		background: arbor.ColorBlack,
	}
}

// GetNative returns the adaptor itself; the offscreen target is reachable
// through Target.
func (c *CanvasAdaptor) GetNative() any {
	return c
}

func (c *CanvasAdaptor) SetVisible(visible bool) error {
	c.visible = visible
	return nil
}

func (c *CanvasAdaptor) SetWidth(w int) error {
	c.width = w
	return nil
}

func (c *CanvasAdaptor) SetHeight(h int) error {
	c.height = h
	return nil
}

// SetTitle stores the title and forwards it to the window when one exists.
func (c *CanvasAdaptor) SetTitle(title string) error {
	c.title = title
	ebiten.SetWindowTitle(title)
	return nil
}

func (c *CanvasAdaptor) SetBackground(col arbor.Color) error {
	c.background = col
	return nil
}

// AddView registers a view for compositing. Re-adding a view is a no-op.
func (c *CanvasAdaptor) AddView(view arbor.ViewAdaptor) error {
	va, ok := view.(*viewAdaptor)
	if !ok {
		return &foreignNativeError{got: view.GetNative()}
	}
	for _, existing := range c.views {
		if existing == va {
			return nil
		}
	}
	c.views = append(c.views, va)
	return nil
}

// Close releases the composite target and detaches all views. Subsequent
// Render calls fail with ErrClosed.
func (c *CanvasAdaptor) Close() error {
	c.closed = true
	c.views = nil
	if c.target != nil {
		c.target.Deallocate()
		c.target = nil
	}
	return nil
}

// Draw composites all views into dst. Call it from an ebiten.Game Draw
// method to show the canvas in a window.
func (c *CanvasAdaptor) Draw(dst *ebiten.Image) {
	dst.Fill(colorOf(c.background))
	for _, v := range c.views {
		v.draw(dst)
	}
}

// Update advances per-frame backend state (camera scroll animations). Call
// it from an ebiten.Game Update method with the frame delta in seconds.
func (c *CanvasAdaptor) Update(dt float32) {
	for _, v := range c.views {
		if v.camera != nil {
			v.camera.update(dt)
		}
	}
}

// Render composites all views offscreen and returns the pixels.
func (c *CanvasAdaptor) Render() (image.Image, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if c.width <= 0 || c.height <= 0 {
		return nil, errors.New("ebitengine: canvas has no area")
	}
	if c.target == nil || c.target.Bounds().Dx() != c.width || c.target.Bounds().Dy() != c.height {
		if c.target != nil {
			c.target.Deallocate()
		}
		c.target = ebiten.NewImage(c.width, c.height)
	}
	c.Draw(c.target)

	out := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	c.target.ReadPixels(out.Pix)
	return out, nil
}

// Target returns the offscreen composite target from the last Render, or
// nil before the first one.
func (c *CanvasAdaptor) Target() *ebiten.Image {
	return c.target
}

// intRect converts a float rectangle to an image.Rectangle by truncation.
// Layouts are pixel-aligned in practice.
func intRect(x, y, w, h float64) image.Rectangle {
	return image.Rect(int(x), int(y), int(x+w), int(y+h))
}

// colorOf converts an arbor color to a premultiplied color.RGBA.
func colorOf(c arbor.Color) color.RGBA {
	return color.RGBA{
		R: byte(c.R*c.A*255 + 0.5),
		G: byte(c.G*c.A*255 + 0.5),
		B: byte(c.B*c.A*255 + 0.5),
		A: byte(c.A*255 + 0.5),
	}
}
