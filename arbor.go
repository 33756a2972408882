package arbor

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication, if any, happens inside a backend.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// ColorBlack is an opaque black, the default canvas background.
var ColorBlack = Color{0, 0, 0, 1}

// Vec3 is a 3D vector used for positions, centers, and point coordinates.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// NodeKind discriminates the concrete node variants. It is the value stored
// in the "node_type" field of serialized nodes.
type NodeKind string

const (
	KindScene  NodeKind = "scene"  // root container of a renderable subtree
	KindCamera NodeKind = "camera" // defines the view transformation
	KindImage  NodeKind = "image"  // renders a 2D data array
	KindPoints NodeKind = "points" // renders a set of point markers
)

// CameraType selects the projection/controller style of a Camera.
type CameraType uint8

const (
	CameraPanZoom     CameraType = iota // orthographic 2D pan/zoom
	CameraPerspective                   // 3D perspective orbit
)

// InterpolationMode selects how an Image samples between pixels.
type InterpolationMode uint8

const (
	InterpNearest InterpolationMode = iota // nearest-neighbor sampling
	InterpLinear                           // bilinear sampling
	InterpBicubic                          // bicubic sampling (not all backends)
)

// ScalingMode controls whether point sizes are fixed in screen pixels or
// scale with the scene zoom.
type ScalingMode uint8

const (
	ScalingFixed ScalingMode = iota // size is in screen pixels
	ScalingScene                    // size scales with the scene transform
)

// Symbol selects the marker shape for a Points node.
type Symbol uint8

const (
	SymbolDisc   Symbol = iota // filled circle (default)
	SymbolRing                 // unfilled circle
	SymbolSquare               // filled square
	SymbolCross                // plus-shaped cross
)

// BlendMode selects the compositing operation a View uses when its rendered
// output is combined with the canvas. Backends map each mode to their native
// blend state.
type BlendMode uint8

const (
	BlendDefault  BlendMode = iota // backend default (usually source-over)
	BlendOpaque                    // opaque copy (skip blending)
	BlendAlpha                     // ordered alpha blending
	BlendAdditive                  // additive / lighter
)

// ImageData is a 2D scalar array in row-major order, len(Values) ==
// Width*Height. Color/colormap conversion is a backend concern; the model
// only carries the raw values.
type ImageData struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Values []float32 `json:"values"`
}

// Eq reports whether two data arrays have identical dimensions and values.
func (d ImageData) Eq(other ImageData) bool {
	if d.Width != other.Width || d.Height != other.Height {
		return false
	}
	if len(d.Values) != len(other.Values) {
		return false
	}
	for i, v := range d.Values {
		if other.Values[i] != v {
			return false
		}
	}
	return true
}

// Clims is a contrast-limit pair for an Image. A nil *Clims means
// auto-scaling from the data range.
type Clims struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Layout describes the rectangular placement of a View on its canvas.
// It is immutable after View construction.
type Layout struct {
	X, Y          float64
	Width, Height float64
	Padding       float64
	Margin        float64
	BorderWidth   float64
	BorderColor   Color
}
