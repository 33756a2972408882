package arbor

// Canvas is a drawing surface holding an ordered collection of views.
type Canvas struct {
	modelBase

	width      int
	height     int
	title      string
	background Color
	visible    bool
	views      []*View
}

// NewCanvas creates a hidden 800x600 canvas with no views.
func NewCanvas() *Canvas {
	c := &Canvas{width: 800, height: 600, background: ColorBlack}
	c.modelBase.init()
	return c
}

func (c *Canvas) Width() int { return c.width }

// SetWidth sets the canvas width in logical pixels.
func (c *Canvas) SetWidth(w int) error {
	if w <= 0 {
		return &ValidationError{Field: "width", Value: w, Reason: "must be > 0"}
	}
	if c.width == w {
		return nil
	}
	c.width = w
	c.emit("width", w)
	return nil
}

func (c *Canvas) Height() int { return c.height }

// SetHeight sets the canvas height in logical pixels.
func (c *Canvas) SetHeight(h int) error {
	if h <= 0 {
		return &ValidationError{Field: "height", Value: h, Reason: "must be > 0"}
	}
	if c.height == h {
		return nil
	}
	c.height = h
	c.emit("height", h)
	return nil
}

func (c *Canvas) Title() string { return c.title }

// SetTitle sets the window title.
func (c *Canvas) SetTitle(title string) {
	if c.title == title {
		return
	}
	c.title = title
	c.emit("title", title)
}

func (c *Canvas) Background() Color { return c.background }

// SetBackground sets the canvas background color.
func (c *Canvas) SetBackground(color Color) {
	if c.background == color {
		return
	}
	c.background = color
	c.emit("background_color", color)
}

func (c *Canvas) Visible() bool { return c.visible }

// SetVisible shows or hides the canvas.
func (c *Canvas) SetVisible(visible bool) {
	if c.visible == visible {
		return
	}
	c.visible = visible
	c.emit("visible", visible)
}

// Views returns the canvas's views in registration order. The returned
// slice MUST NOT be mutated by the caller; use AddView.
func (c *Canvas) Views() []*View { return c.views }

// AddView registers a view on this canvas and sets the view's canvas
// back-reference. Adding an already-present view is a no-op.
func (c *Canvas) AddView(v *View) {
	if v == nil {
		panic("arbor: cannot add nil view")
	}
	for _, existing := range c.views {
		if existing.ModelID() == v.ModelID() {
			return
		}
	}
	c.views = append(c.views, v)
	v.canvas = c
	c.emit("views", c.views)
}

// Batch runs fn inside a notification batching scope.
func (c *Canvas) Batch(fn func()) { c.emitter.Batch(fn) }

func (c *Canvas) currentFields() []Change {
	return []Change{
		{Field: "width", Value: c.width},
		{Field: "height", Value: c.height},
		{Field: "title", Value: c.title},
		{Field: "background_color", Value: c.background},
		{Field: "visible", Value: c.visible},
		{Field: "views", Value: c.views},
	}
}
