package arbor

// View is a rectangular area on a canvas that displays a scene through a
// camera. A canvas can have one or more views; each view has exactly one
// scene and one camera, both auto-constructed on first access if unset.
type View struct {
	modelBase

	scene      *Scene
	camera     *Camera
	layout     Layout
	blending   BlendMode
	visible    bool
	background Color

	canvas *Canvas
}

// NewView creates a view with a zero layout. The scene, camera, and canvas
// are created lazily on first access.
func NewView() *View {
	v := &View{visible: true, background: ColorBlack}
	v.modelBase.init()
	return v
}

// NewViewWithLayout creates a view with the given layout. The layout is
// immutable after construction.
func NewViewWithLayout(layout Layout) *View {
	v := NewView()
	v.layout = layout
	return v
}

// Scene returns the view's scene, creating an empty one on first access.
func (v *View) Scene() *Scene {
	if v.scene == nil {
		v.scene = NewScene()
		v.emit("scene", v.scene)
	}
	return v.scene
}

// SetScene replaces the view's scene. An existing camera is moved under the
// new scene so camera-to-scene transforms stay well-defined.
func (v *View) SetScene(scene *Scene) error {
	if scene == nil {
		return &ValidationError{Field: "scene", Value: nil, Reason: "must not be nil"}
	}
	if v.scene != nil && v.scene.ModelID() == scene.ModelID() {
		return nil
	}
	v.scene = scene
	if v.camera != nil {
		if err := scene.AddChild(v.camera); err != nil {
			return err
		}
	}
	v.emit("scene", scene)
	return nil
}

// Camera returns the view's camera, creating one on first access. The
// camera's parent is always the view's scene, so camera.TransformTo(scene)
// is well-defined.
func (v *View) Camera() *Camera {
	if v.camera == nil {
		cam := NewCamera()
		// Attach before announcing: subscribers must never observe a
		// view camera outside the scene tree.
		_ = v.Scene().AddChild(cam)
		v.camera = cam
		v.emit("camera", cam)
	}
	return v.camera
}

// SetCamera replaces the view's camera and parents it under the scene.
func (v *View) SetCamera(cam *Camera) error {
	if cam == nil {
		return &ValidationError{Field: "camera", Value: nil, Reason: "must not be nil"}
	}
	if v.camera != nil && v.camera.ModelID() == cam.ModelID() {
		return nil
	}
	if err := v.Scene().AddChild(cam); err != nil {
		return err
	}
	v.camera = cam
	v.emit("camera", cam)
	return nil
}

// Layout returns the view's placement on its canvas.
func (v *View) Layout() Layout { return v.layout }

func (v *View) Blending() BlendMode { return v.blending }

// SetBlending sets the compositing mode used when the view's output is
// combined with the canvas.
func (v *View) SetBlending(mode BlendMode) {
	if v.blending == mode {
		return
	}
	v.blending = mode
	v.emit("blending", mode)
}

func (v *View) Visible() bool { return v.visible }

// SetVisible shows or hides the view.
func (v *View) SetVisible(visible bool) {
	if v.visible == visible {
		return
	}
	v.visible = visible
	v.emit("visible", visible)
}

func (v *View) Background() Color { return v.background }

// SetBackground sets the view's background color.
func (v *View) SetBackground(c Color) {
	if v.background == c {
		return
	}
	v.background = c
	v.emit("background_color", c)
}

// Canvas returns the canvas the view is on. If none has been assigned, a
// new canvas is created and the view is registered into it; subsequent
// accesses return the same canvas.
func (v *View) Canvas() *Canvas {
	if v.canvas == nil {
		c := NewCanvas()
		c.AddView(v)
	}
	return v.canvas
}

// Show makes the view's canvas visible (creating it if needed) and returns
// it. The actual windowing is a backend concern driven by the canvas
// visibility notification.
func (v *View) Show() *Canvas {
	c := v.Canvas()
	c.SetVisible(true)
	return c
}

// Batch runs fn inside a notification batching scope.
func (v *View) Batch(fn func()) { v.emitter.Batch(fn) }

func (v *View) currentFields() []Change {
	// Force lazy construction so a fresh adaptor always sees a scene and
	// camera, mirroring the structural recursion in the registry.
	scene := v.Scene()
	camera := v.Camera()
	return []Change{
		{Field: "scene", Value: scene},
		{Field: "camera", Value: camera},
		{Field: "layout", Value: v.layout},
		{Field: "blending", Value: v.blending},
		{Field: "visible", Value: v.visible},
		{Field: "background_color", Value: v.background},
	}
}
