package arbor

// Camera defines the view transformation for a scene.
type Camera struct {
	NodeBase

	cameraType  CameraType
	zoom        float64
	center      Vec3
	rangeMargin float64
}

// NewCamera creates a pan/zoom camera with zoom 1 centered on the origin.
func NewCamera() *Camera {
	c := &Camera{zoom: 1, rangeMargin: 0.05}
	initNode(&c.NodeBase, c, KindCamera)
	return c
}

func (c *Camera) CameraType() CameraType { return c.cameraType }

// SetCameraType switches between pan/zoom and perspective projection.
func (c *Camera) SetCameraType(t CameraType) {
	if c.cameraType == t {
		return
	}
	c.cameraType = t
	c.emit("type", t)
}

func (c *Camera) Zoom() float64 { return c.zoom }

// SetZoom sets the zoom factor. Zoom must be positive.
func (c *Camera) SetZoom(zoom float64) error {
	if zoom <= 0 {
		return &ValidationError{Field: "zoom", Value: zoom, Reason: "must be > 0"}
	}
	if c.zoom == zoom {
		return nil
	}
	c.zoom = zoom
	c.emit("zoom", zoom)
	return nil
}

func (c *Camera) Center() Vec3 { return c.center }

// SetCenter sets the world-space point the camera centers on.
func (c *Camera) SetCenter(center Vec3) {
	if c.center == center {
		return
	}
	c.center = center
	c.emit("center", center)
}

func (c *Camera) RangeMargin() float64 { return c.rangeMargin }

// SetRangeMargin sets the margin fraction left around the scene content
// when a backend refits the camera to the scene's bounding box.
func (c *Camera) SetRangeMargin(margin float64) error {
	if margin < 0 || margin >= 1 {
		return &ValidationError{Field: "range", Value: margin, Reason: "must be in [0, 1)"}
	}
	if c.rangeMargin == margin {
		return nil
	}
	c.rangeMargin = margin
	c.emit("range", margin)
	return nil
}

func (c *Camera) currentFields() []Change {
	return append(c.nodeFields(),
		Change{Field: "type", Value: c.cameraType},
		Change{Field: "zoom", Value: c.zoom},
		Change{Field: "center", Value: c.center},
		Change{Field: "range", Value: c.rangeMargin},
	)
}
