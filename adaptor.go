package arbor

import "image"

// Adaptor is the minimal contract every backend adaptor satisfies. An
// adaptor converts model change notifications into calls against one
// backend-native object, and there is exactly one adaptor per live model
// object.
type Adaptor interface {
	// GetNative returns the backend-specific handle this adaptor drives.
	GetNative() any
}

// NodeAdaptor is the capability contract a backend must implement for every
// node kind it supports. One setter per mutable field, plus the structural
// and batching operations.
type NodeAdaptor interface {
	Adaptor

	SetName(name string) error
	SetVisible(visible bool) error
	SetInteractive(interactive bool) error
	SetOpacity(opacity float64) error
	SetOrder(order int) error
	SetTransform(t Transform) error

	// AddChild attaches child's native object under this adaptor's native
	// object, detaching it from any previous native parent first (move
	// semantics). Attaching an already-attached child is a no-op.
	AddChild(child NodeAdaptor) error
	// SetParent re-attaches this adaptor's native object under parent's
	// native object, or detaches it when parent is nil.
	SetParent(parent NodeAdaptor) error

	// BlockUpdates suspends the external effects of subsequent setters
	// until UnblockUpdates, which then applies all suspended state at once.
	BlockUpdates()
	UnblockUpdates()
	// ForceUpdate recomputes derived backend state (e.g. bounding-box
	// based camera framing).
	ForceUpdate() error
}

// CameraAdaptor extends NodeAdaptor with the camera field setters.
type CameraAdaptor interface {
	NodeAdaptor

	SetCameraType(t CameraType) error
	SetZoom(zoom float64) error
	SetCenter(center Vec3) error
	// SetRange refits the camera to the bounding box of its scene's
	// content, leaving the given margin fraction around it.
	SetRange(margin float64) error
}

// ImageAdaptor extends NodeAdaptor with the image field setters.
type ImageAdaptor interface {
	NodeAdaptor

	SetData(data ImageData) error
	SetColormap(name string) error
	SetClims(clims *Clims) error
	SetGamma(gamma float64) error
	SetInterpolation(mode InterpolationMode) error
}

// PointsAdaptor extends NodeAdaptor with the points field setters.
type PointsAdaptor interface {
	NodeAdaptor

	SetCoords(coords []Vec3) error
	SetSize(size float64) error
	SetFaceColor(c Color) error
	SetEdgeColor(c Color) error
	SetEdgeWidth(w float64) error
	SetSymbol(s Symbol) error
	SetScaling(s ScalingMode) error
	SetAntialias(w float64) error
}

// ViewAdaptor is the capability contract for a View.
type ViewAdaptor interface {
	Adaptor

	SetVisible(visible bool) error
	SetScene(scene NodeAdaptor) error
	SetCamera(camera CameraAdaptor) error
	SetLayout(layout Layout) error
	SetBlending(mode BlendMode) error
	SetBackground(c Color) error
}

// CanvasAdaptor is the capability contract for a Canvas. A backend that
// manages views exclusively through AddView may treat whole-list view
// replacement as a no-op.
type CanvasAdaptor interface {
	Adaptor

	SetVisible(visible bool) error
	SetWidth(w int) error
	SetHeight(h int) error
	SetTitle(title string) error
	SetBackground(c Color) error
	AddView(view ViewAdaptor) error
	Close() error
	// Render draws the canvas offscreen and returns the result.
	Render() (image.Image, error)
}

// AdaptorFactory constructs backend adaptors for model objects. A backend
// exposes one factory; the registry owns the cache and the event wiring.
type AdaptorFactory interface {
	// CreateAdaptor returns a fresh, unsynchronized adaptor for the model
	// object. The registry validates the returned adaptor against the
	// capability contract for the model's kind.
	CreateAdaptor(reg *Registry, m Model) (Adaptor, error)
}
