package ebitengine

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/arbor"
)

// imageAdaptor drives an image WorldObject. The scalar data is converted to
// an RGBA texture on the CPU (clims normalization, gamma, colormap); the
// texture is rebuilt lazily on the next draw after any of those change.
type imageAdaptor struct {
	nodeAdaptor
}

func newImageAdaptor() *imageAdaptor {
	a := &imageAdaptor{nodeAdaptor: newNodeAdaptor(arbor.KindImage)}
	a.obj.Colormap = "gray"
	return a
}

func (a *imageAdaptor) SetData(data arbor.ImageData) error {
	a.apply(func() {
		a.obj.ImageData = data
		a.obj.textureDirty = true
	})
	return nil
}

// SetColormap accepts the colormaps this backend can evaluate. Unknown names
// are reported as unsupported and leave the current colormap in place.
func (a *imageAdaptor) SetColormap(name string) error {
	if _, ok := colormaps[name]; !ok {
		return fmt.Errorf("ebitengine: colormap %q: %w", name, arbor.ErrUnsupported)
	}
	a.apply(func() {
		a.obj.Colormap = name
		a.obj.textureDirty = true
	})
	return nil
}

func (a *imageAdaptor) SetClims(clims *arbor.Clims) error {
	a.apply(func() {
		a.obj.Clims = clims
		a.obj.textureDirty = true
	})
	return nil
}

func (a *imageAdaptor) SetGamma(gamma float64) error {
	a.apply(func() {
		a.obj.Gamma = gamma
		a.obj.textureDirty = true
	})
	return nil
}

// SetInterpolation maps nearest and linear onto ebiten filters. Bicubic has
// no ebiten equivalent; the adaptor falls back to linear and reports the
// mode as unsupported.
func (a *imageAdaptor) SetInterpolation(mode arbor.InterpolationMode) error {
	if mode == arbor.InterpBicubic {
		a.apply(func() { a.obj.Interpolation = arbor.InterpLinear })
		return fmt.Errorf("ebitengine: bicubic interpolation: %w", arbor.ErrUnsupported)
	}
	a.apply(func() { a.obj.Interpolation = mode })
	return nil
}

// ForceUpdate rebuilds the texture immediately instead of waiting for the
// next draw.
func (a *imageAdaptor) ForceUpdate() error {
	if a.obj.textureDirty {
		rebuildTexture(a.obj)
	}
	return nil
}

// rebuildTexture converts the scalar data to RGBA and uploads it.
func rebuildTexture(w *WorldObject) {
	w.textureDirty = false
	d := w.ImageData
	if d.Width <= 0 || d.Height <= 0 || len(d.Values) != d.Width*d.Height {
		w.texture = nil
		return
	}

	lo, hi := dataRange(d)
	if w.Clims != nil {
		lo, hi = w.Clims.Min, w.Clims.Max
	}
	span := hi - lo
	if span <= 0 {
		span = 1
	}
	cmap := colormaps[w.Colormap]
	if cmap == nil {
		cmap = colormapGray
	}

	pix := make([]byte, 4*d.Width*d.Height)
	for i, v := range d.Values {
		t := (float64(v) - lo) / span
		t = math.Max(0, math.Min(1, t))
		if w.Gamma != 1 {
			t = math.Pow(t, w.Gamma)
		}
		r, g, b := cmap(t)
		pix[4*i+0] = byte(r*255 + 0.5)
		pix[4*i+1] = byte(g*255 + 0.5)
		pix[4*i+2] = byte(b*255 + 0.5)
		pix[4*i+3] = 255
	}

	if w.texture == nil || w.texture.Bounds().Dx() != d.Width || w.texture.Bounds().Dy() != d.Height {
		w.texture = ebiten.NewImage(d.Width, d.Height)
	}
	w.texture.WritePixels(pix)
}

// dataRange returns the min and max of the scalar values, used when no
// explicit clims are set.
func dataRange(d arbor.ImageData) (float64, float64) {
	lo := math.Inf(1)
	hi := math.Inf(-1)
	for _, v := range d.Values {
		lo = math.Min(lo, float64(v))
		hi = math.Max(hi, float64(v))
	}
	return lo, hi
}

// colormapFunc maps a normalized value in [0, 1] to RGB in [0, 1].
type colormapFunc func(t float64) (r, g, b float64)

func colormapGray(t float64) (float64, float64, float64) {
	return t, t, t
}

// colormapViridis is a coarse piecewise-linear fit of the viridis ramp,
// good enough for visual inspection.
func colormapViridis(t float64) (float64, float64, float64) {
	anchors := [5][3]float64{
		{0.267, 0.005, 0.329},
		{0.229, 0.322, 0.546},
		{0.128, 0.567, 0.551},
		{0.369, 0.789, 0.383},
		{0.993, 0.906, 0.144},
	}
	pos := t * float64(len(anchors)-1)
	i := int(pos)
	if i >= len(anchors)-1 {
		c := anchors[len(anchors)-1]
		return c[0], c[1], c[2]
	}
	f := pos - float64(i)
	a, b := anchors[i], anchors[i+1]
	return a[0] + (b[0]-a[0])*f, a[1] + (b[1]-a[1])*f, a[2] + (b[2]-a[2])*f
}

func colormapInvertedGray(t float64) (float64, float64, float64) {
	return 1 - t, 1 - t, 1 - t
}

// colormaps lists the colormaps this backend supports by name.
var colormaps = map[string]colormapFunc{
	"gray":    colormapGray,
	"gray_r":  colormapInvertedGray,
	"grays":   colormapGray,
	"viridis": colormapViridis,
}
