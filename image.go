package arbor

// Image renders a 2D data array through a colormap.
type Image struct {
	NodeBase

	data          ImageData
	colormap      string
	clims         *Clims
	gamma         float64
	interpolation InterpolationMode
}

// NewImage creates an image node for the given data array with a grayscale
// colormap, auto contrast limits, and nearest-neighbor interpolation.
func NewImage(data ImageData) *Image {
	img := &Image{data: data, colormap: "gray", gamma: 1}
	initNode(&img.NodeBase, img, KindImage)
	return img
}

func (img *Image) Data() ImageData { return img.data }

// SetData replaces the pixel data. The array length must match the declared
// dimensions.
func (img *Image) SetData(data ImageData) error {
	if len(data.Values) != data.Width*data.Height {
		return &ValidationError{Field: "data", Value: len(data.Values),
			Reason: "length must equal width*height"}
	}
	if img.data.Eq(data) {
		return nil
	}
	img.data = data
	img.emit("data", data)
	return nil
}

func (img *Image) Colormap() string { return img.colormap }

// SetColormap sets the colormap by name. Name resolution is a backend
// concern; unknown names surface as unsupported-capability logs, not errors.
func (img *Image) SetColormap(name string) {
	if img.colormap == name {
		return
	}
	img.colormap = name
	img.emit("cmap", name)
}

func (img *Image) Clims() *Clims { return img.clims }

// SetClims sets the contrast limits, or nil for auto-scaling.
func (img *Image) SetClims(clims *Clims) error {
	if clims != nil && clims.Min > clims.Max {
		return &ValidationError{Field: "clims", Value: *clims, Reason: "min must be <= max"}
	}
	if climsEq(img.clims, clims) {
		return nil
	}
	img.clims = clims
	img.emit("clims", clims)
	return nil
}

func climsEq(a, b *Clims) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (img *Image) Gamma() float64 { return img.gamma }

// SetGamma sets the gamma correction exponent.
func (img *Image) SetGamma(gamma float64) error {
	if gamma <= 0 {
		return &ValidationError{Field: "gamma", Value: gamma, Reason: "must be > 0"}
	}
	if img.gamma == gamma {
		return nil
	}
	img.gamma = gamma
	img.emit("gamma", gamma)
	return nil
}

func (img *Image) Interpolation() InterpolationMode { return img.interpolation }

// SetInterpolation sets the pixel sampling mode.
func (img *Image) SetInterpolation(mode InterpolationMode) {
	if img.interpolation == mode {
		return
	}
	img.interpolation = mode
	img.emit("interpolation", mode)
}

func (img *Image) currentFields() []Change {
	return append(img.nodeFields(),
		Change{Field: "data", Value: img.data},
		Change{Field: "cmap", Value: img.colormap},
		Change{Field: "clims", Value: img.clims},
		Change{Field: "gamma", Value: img.gamma},
		Change{Field: "interpolation", Value: img.interpolation},
	)
}
