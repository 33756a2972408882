package arbor

// Points renders a set of point markers.
type Points struct {
	NodeBase

	coords    []Vec3
	size      float64
	faceColor Color
	edgeColor Color
	edgeWidth float64
	symbol    Symbol
	scaling   ScalingMode
	antialias float64
}

// NewPoints creates a points node for the given coordinates with white
// disc markers of size 10.
func NewPoints(coords []Vec3) *Points {
	p := &Points{
		coords:    coords,
		size:      10,
		faceColor: ColorWhite,
		edgeColor: ColorBlack,
		edgeWidth: 1,
		antialias: 1,
	}
	initNode(&p.NodeBase, p, KindPoints)
	return p
}

func (p *Points) Coords() []Vec3 { return p.coords }

// SetCoords replaces the point coordinates.
func (p *Points) SetCoords(coords []Vec3) {
	if vec3sEq(p.coords, coords) {
		return
	}
	p.coords = coords
	p.emit("coords", coords)
}

func vec3sEq(a, b []Vec3) bool {
	if len(a) != len(b) {
		return false
	}
	for i, v := range a {
		if b[i] != v {
			return false
		}
	}
	return true
}

func (p *Points) Size() float64 { return p.size }

// SetSize sets the marker size.
func (p *Points) SetSize(size float64) error {
	if size < 0 {
		return &ValidationError{Field: "size", Value: size, Reason: "must be >= 0"}
	}
	if p.size == size {
		return nil
	}
	p.size = size
	p.emit("size", size)
	return nil
}

func (p *Points) FaceColor() Color { return p.faceColor }

// SetFaceColor sets the marker fill color.
func (p *Points) SetFaceColor(c Color) {
	if p.faceColor == c {
		return
	}
	p.faceColor = c
	p.emit("face_color", c)
}

func (p *Points) EdgeColor() Color { return p.edgeColor }

// SetEdgeColor sets the marker outline color.
func (p *Points) SetEdgeColor(c Color) {
	if p.edgeColor == c {
		return
	}
	p.edgeColor = c
	p.emit("edge_color", c)
}

func (p *Points) EdgeWidth() float64 { return p.edgeWidth }

// SetEdgeWidth sets the marker outline width.
func (p *Points) SetEdgeWidth(w float64) error {
	if w < 0 {
		return &ValidationError{Field: "edge_width", Value: w, Reason: "must be >= 0"}
	}
	if p.edgeWidth == w {
		return nil
	}
	p.edgeWidth = w
	p.emit("edge_width", w)
	return nil
}

func (p *Points) Symbol() Symbol { return p.symbol }

// SetSymbol sets the marker shape.
func (p *Points) SetSymbol(s Symbol) {
	if p.symbol == s {
		return
	}
	p.symbol = s
	p.emit("symbol", s)
}

func (p *Points) Scaling() ScalingMode { return p.scaling }

// SetScaling controls whether marker sizes follow the scene zoom.
func (p *Points) SetScaling(s ScalingMode) {
	if p.scaling == s {
		return
	}
	p.scaling = s
	p.emit("scaling", s)
}

func (p *Points) Antialias() float64 { return p.antialias }

// SetAntialias sets the antialiasing width in pixels.
func (p *Points) SetAntialias(w float64) error {
	if w < 0 {
		return &ValidationError{Field: "antialias", Value: w, Reason: "must be >= 0"}
	}
	if p.antialias == w {
		return nil
	}
	p.antialias = w
	p.emit("antialias", w)
	return nil
}

func (p *Points) currentFields() []Change {
	return append(p.nodeFields(),
		Change{Field: "coords", Value: p.coords},
		Change{Field: "size", Value: p.size},
		Change{Field: "face_color", Value: p.faceColor},
		Change{Field: "edge_color", Value: p.edgeColor},
		Change{Field: "edge_width", Value: p.edgeWidth},
		Change{Field: "symbol", Value: p.symbol},
		Change{Field: "scaling", Value: p.scaling},
		Change{Field: "antialias", Value: p.antialias},
	)
}
