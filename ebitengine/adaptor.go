package ebitengine

import (
	"github.com/phanxgames/arbor"
)

// nodeAdaptor drives one WorldObject and implements the shared part of the
// arbor.NodeAdaptor contract. Kind-specific adaptors embed it.
type nodeAdaptor struct {
	obj *WorldObject

	// While blocked, setter effects are queued instead of applied.
	// UnblockUpdates flushes the queue in call order.
	blocked bool
	pending []func()
}

func newNodeAdaptor(kind arbor.NodeKind) nodeAdaptor {
	return nodeAdaptor{obj: newWorldObject(kind)}
}

// GetNative returns the *WorldObject this adaptor drives.
func (a *nodeAdaptor) GetNative() any {
	return a.obj
}

// apply runs fn now, or queues it when updates are blocked.
func (a *nodeAdaptor) apply(fn func()) {
	if a.blocked {
		a.pending = append(a.pending, fn)
		return
	}
	fn()
}

func (a *nodeAdaptor) SetName(name string) error {
	a.apply(func() { a.obj.Name = name })
	return nil
}

func (a *nodeAdaptor) SetVisible(visible bool) error {
	a.apply(func() { a.obj.Visible = visible })
	return nil
}

func (a *nodeAdaptor) SetInteractive(interactive bool) error {
	a.apply(func() { a.obj.Interactable = interactive })
	return nil
}

func (a *nodeAdaptor) SetOpacity(opacity float64) error {
	a.apply(func() { a.obj.Opacity = opacity })
	return nil
}

func (a *nodeAdaptor) SetOrder(order int) error {
	a.apply(func() {
		a.obj.Order = order
		if a.obj.parent != nil {
			a.obj.parent.childrenSorted = false
		}
	})
	return nil
}

func (a *nodeAdaptor) SetTransform(t arbor.Transform) error {
	m := affineOf(t)
	a.apply(func() { a.obj.Local = m })
	return nil
}

// AddChild attaches child's WorldObject under this one, moving it from any
// previous native parent.
func (a *nodeAdaptor) AddChild(child arbor.NodeAdaptor) error {
	co, ok := child.GetNative().(*WorldObject)
	if !ok {
		return &foreignNativeError{got: child.GetNative()}
	}
	a.apply(func() { a.obj.AddChild(co) })
	return nil
}

// SetParent re-attaches this adaptor's WorldObject under parent, or detaches
// it when parent is nil.
func (a *nodeAdaptor) SetParent(parent arbor.NodeAdaptor) error {
	if parent == nil {
		a.apply(func() {
			if a.obj.parent != nil {
				a.obj.parent.RemoveChild(a.obj)
			}
		})
		return nil
	}
	po, ok := parent.GetNative().(*WorldObject)
	if !ok {
		return &foreignNativeError{got: parent.GetNative()}
	}
	a.apply(func() { po.AddChild(a.obj) })
	return nil
}

// BlockUpdates queues subsequent setter effects until UnblockUpdates.
func (a *nodeAdaptor) BlockUpdates() {
	a.blocked = true
}

// UnblockUpdates applies all queued setter effects in call order.
func (a *nodeAdaptor) UnblockUpdates() {
	a.blocked = false
	pending := a.pending
	a.pending = nil
	for _, fn := range pending {
		fn()
	}
}

// ForceUpdate is a no-op for plain nodes; kind-specific adaptors override it
// to recompute derived state.
func (a *nodeAdaptor) ForceUpdate() error {
	return nil
}

// foreignNativeError reports an adaptor from a different backend being mixed
// into this one's tree.
type foreignNativeError struct {
	got any
}

func (e *foreignNativeError) Error() string {
	return "ebitengine: adaptor native is not a *WorldObject"
}

// sceneAdaptor drives a scene root. Scenes carry no visual state of their
// own, so the shared node behavior is all there is.
type sceneAdaptor struct {
	nodeAdaptor
}

func newSceneAdaptor() *sceneAdaptor {
	return &sceneAdaptor{nodeAdaptor: newNodeAdaptor(arbor.KindScene)}
}
