// Package ebitengine renders an arbor scene graph with Ebitengine.
//
// Each arbor model object is mirrored by one adaptor that writes into a
// backend-native WorldObject tree. Canvases composite their views into an
// offscreen image, so rendering works headless (no window required).
package ebitengine

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/arbor"
)

// WorldObject is the backend-native scene element. A single flat struct is
// used for all node kinds to avoid interface dispatch on the draw path.
type WorldObject struct {
	// Identity
	Kind arbor.NodeKind
	Name string

	// Hierarchy
	parent   *WorldObject
	children []*WorldObject

	// Transform (local, row-major 2D affine [a b tx c d ty])
	Local [6]float64

	// Visibility & interaction
	Visible      bool
	Interactable bool
	Opacity      float64

	// Ordering among siblings
	Order int

	// Image fields (arbor.KindImage)
	ImageData     arbor.ImageData
	Colormap      string
	Clims         *arbor.Clims
	Gamma         float64
	Interpolation arbor.InterpolationMode
	texture       *ebiten.Image // rebuilt lazily when textureDirty
	textureDirty  bool

	// Points fields (arbor.KindPoints)
	Coords    []arbor.Vec3
	PointSize float64
	FaceColor arbor.Color
	EdgeColor arbor.Color
	EdgeWidth float64
	Symbol    arbor.Symbol
	Scaling   arbor.ScalingMode
	Antialias float64

	// Internal
	childrenSorted bool
	sortedChildren []*WorldObject // reused buffer for Order-sorted traversal
}

// newWorldObject creates a WorldObject with the shared default field values.
func newWorldObject(kind arbor.NodeKind) *WorldObject {
	return &WorldObject{
		Kind:           kind,
		Local:          identityAffine,
		Visible:        true,
		Opacity:        1,
		Gamma:          1,
		childrenSorted: true,
	}
}

// Parent returns the object's parent, or nil at a root.
func (w *WorldObject) Parent() *WorldObject {
	return w.parent
}

// Children returns the object's children in insertion order.
// The returned slice MUST NOT be mutated.
func (w *WorldObject) Children() []*WorldObject {
	return w.children
}

// AddChild appends child to this object's children. If child already has a
// parent, it is removed from that parent first. Re-adding an existing child
// is a no-op. Panics if child is nil.
func (w *WorldObject) AddChild(child *WorldObject) {
	if child == nil {
		panic("ebitengine: cannot add nil child")
	}
	if child.parent == w {
		return
	}
	if child.parent != nil {
		child.parent.removeChildByPtr(child)
	}
	child.parent = w
	w.children = append(w.children, child)
	w.childrenSorted = false
}

// RemoveChild detaches child from this object. No-op if child is not a
// child of this object.
func (w *WorldObject) RemoveChild(child *WorldObject) {
	if child == nil || child.parent != w {
		return
	}
	w.removeChildByPtr(child)
	child.parent = nil
}

// removeChildByPtr removes child from w.children without clearing
// child.parent. Preserves the order of the remaining children.
func (w *WorldObject) removeChildByPtr(child *WorldObject) {
	for i, c := range w.children {
		if c == child {
			copy(w.children[i:], w.children[i+1:])
			w.children[len(w.children)-1] = nil
			w.children = w.children[:len(w.children)-1]
			w.childrenSorted = false
			return
		}
	}
}

// orderedChildren returns the children sorted by Order (stable: insertion
// order breaks ties). The returned slice is a reused internal buffer.
func (w *WorldObject) orderedChildren() []*WorldObject {
	if w.childrenSorted {
		if w.sortedChildren != nil {
			return w.sortedChildren
		}
		return w.children
	}
	nc := len(w.children)
	if cap(w.sortedChildren) < nc {
		w.sortedChildren = make([]*WorldObject, nc)
	}
	w.sortedChildren = w.sortedChildren[:nc]
	copy(w.sortedChildren, w.children)
	// Stable insertion sort: zero allocations, optimal for the typical
	// case of few, nearly-sorted children.
	for i := 1; i < nc; i++ {
		key := w.sortedChildren[i]
		j := i - 1
		for j >= 0 && w.sortedChildren[j].Order > key.Order {
			w.sortedChildren[j+1] = w.sortedChildren[j]
			j--
		}
		w.sortedChildren[j+1] = key
	}
	w.childrenSorted = true
	return w.sortedChildren
}

// Shape is a structural snapshot of a WorldObject subtree: the node kinds
// and their nesting, without any visual state. Useful for asserting what a
// backend tree looks like after a sequence of model mutations.
type Shape struct {
	Kind     arbor.NodeKind `json:"kind"`
	Children []Shape        `json:"children,omitempty"`
}

// Shape returns the structural snapshot of this object's subtree. Children
// appear in draw order.
func (w *WorldObject) Shape() Shape {
	s := Shape{Kind: w.Kind}
	for _, c := range w.orderedChildren() {
		s.Children = append(s.Children, c.Shape())
	}
	return s
}

// CountKind returns how many direct children of this object have the given
// kind.
func (w *WorldObject) CountKind(kind arbor.NodeKind) int {
	n := 0
	for _, c := range w.children {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// --- Affine helpers ---

// identityAffine is the identity 2D affine matrix [a b tx c d ty].
var identityAffine = [6]float64{1, 0, 0, 0, 1, 0}

// affineOf projects an arbor 4x4 transform onto the 2D affine plane,
// dropping the Z row and column.
//
//	| a  b  tx |
//	| c  d  ty |
//	| 0  0   1 |
func affineOf(t arbor.Transform) [6]float64 {
	m := t.Matrix()
	return [6]float64{m[0], m[1], m[3], m[4], m[5], m[7]}
}

// mulAffine multiplies two 2D affine matrices: result = parent * child.
func mulAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[1]*c[3],
		p[0]*c[1] + p[1]*c[4],
		p[0]*c[2] + p[1]*c[5] + p[2],
		p[3]*c[0] + p[4]*c[3],
		p[3]*c[1] + p[4]*c[4],
		p[3]*c[2] + p[4]*c[5] + p[5],
	}
}

// applyAffine transforms a point by a 2D affine matrix.
func applyAffine(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// geoM converts a 2D affine matrix to an ebiten.GeoM.
func geoM(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(0, 1, m[1])
	g.SetElement(0, 2, m[2])
	g.SetElement(1, 0, m[3])
	g.SetElement(1, 1, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// --- Shared images ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image, used
// to draw solid-color quads for points markers.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}
