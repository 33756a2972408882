package ebitengine

import (
	"github.com/phanxgames/arbor"
)

// pointsAdaptor drives a points WorldObject. Markers are drawn as
// solid-color quads from a shared white pixel; disc and ring symbols are
// approximated by squares.
type pointsAdaptor struct {
	nodeAdaptor
}

func newPointsAdaptor() *pointsAdaptor {
	a := &pointsAdaptor{nodeAdaptor: newNodeAdaptor(arbor.KindPoints)}
	a.obj.PointSize = 10
	a.obj.FaceColor = arbor.ColorWhite
	a.obj.EdgeColor = arbor.ColorBlack
	a.obj.EdgeWidth = 1
	a.obj.Antialias = 1
	return a
}

func (a *pointsAdaptor) SetCoords(coords []arbor.Vec3) error {
	a.apply(func() { a.obj.Coords = coords })
	return nil
}

func (a *pointsAdaptor) SetSize(size float64) error {
	a.apply(func() { a.obj.PointSize = size })
	return nil
}

func (a *pointsAdaptor) SetFaceColor(c arbor.Color) error {
	a.apply(func() { a.obj.FaceColor = c })
	return nil
}

func (a *pointsAdaptor) SetEdgeColor(c arbor.Color) error {
	a.apply(func() { a.obj.EdgeColor = c })
	return nil
}

func (a *pointsAdaptor) SetEdgeWidth(w float64) error {
	a.apply(func() { a.obj.EdgeWidth = w })
	return nil
}

func (a *pointsAdaptor) SetSymbol(s arbor.Symbol) error {
	a.apply(func() { a.obj.Symbol = s })
	return nil
}

func (a *pointsAdaptor) SetScaling(s arbor.ScalingMode) error {
	a.apply(func() { a.obj.Scaling = s })
	return nil
}

func (a *pointsAdaptor) SetAntialias(w float64) error {
	a.apply(func() { a.obj.Antialias = w })
	return nil
}
