package ebitengine

import (
	"fmt"
	"log/slog"

	"github.com/phanxgames/arbor"
)

// Factory creates Ebitengine adaptors for arbor model objects. It is
// stateless; all per-object state lives in the adaptors.
type Factory struct{}

// CreateAdaptor returns a fresh adaptor for the given model object.
func (Factory) CreateAdaptor(reg *arbor.Registry, m arbor.Model) (arbor.Adaptor, error) {
	switch m := m.(type) {
	case *arbor.Scene:
		return newSceneAdaptor(), nil
	case *arbor.Camera:
		return newCameraAdaptor(), nil
	case *arbor.Image:
		return newImageAdaptor(), nil
	case *arbor.Points:
		return newPointsAdaptor(), nil
	case *arbor.View:
		return newViewAdaptor(), nil
	case *arbor.Canvas:
		return newCanvasAdaptor(), nil
	default:
		return nil, fmt.Errorf("ebitengine: no adaptor for %T", m)
	}
}

// New returns a registry that mirrors model objects into this backend.
// log may be nil to disable sync logging.
func New(log *slog.Logger) *arbor.Registry {
	return arbor.NewRegistry(Factory{}, log)
}
