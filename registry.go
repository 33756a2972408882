package arbor

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// SyncStatus classifies the outcome of routing one field change to a
// backend setter.
type SyncStatus uint8

const (
	SyncApplied     SyncStatus = iota // setter ran and succeeded
	SyncUnsupported                   // backend has no setter for the field
	SyncFailed                        // setter ran and returned an error
)

// SyncResult is the per-field outcome of a synchronization pass. Failures
// are logged and isolated; they never abort the model mutation that
// triggered them.
type SyncResult struct {
	Field  string
	Status SyncStatus
	Err    error
}

// setterFunc applies an untyped change value to a strongly-typed adaptor
// setter.
type setterFunc func(value any) error

// entry ties a model object to its single adaptor and the static setter
// table built for it at registration time.
type entry struct {
	model   Model
	adaptor Adaptor
	setters map[string]setterFunc
	sub     Subscription
}

// Registry owns the one-to-one mapping from model objects to backend
// adaptors and drives model-to-backend synchronization. It is an explicit
// object rather than an ambient global, and it assumes a single logical
// writer: all model mutation and dispatch happen synchronously on the
// caller's goroutine.
//
// The registry holds strong references to adaptors and never evicts them on
// its own; call Release or ReleaseTree when model objects leave all
// reachable roots.
type Registry struct {
	factory AdaptorFactory
	log     *slog.Logger
	entries map[uint32]*entry
}

// NewRegistry creates a registry for the given backend factory. A nil
// logger discards all synchronization logging.
func NewRegistry(factory AdaptorFactory, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Registry{
		factory: factory,
		log:     log,
		entries: make(map[uint32]*entry),
	}
}

// All returns every live adaptor in the registry.
func (r *Registry) All() []Adaptor {
	out := make([]Adaptor, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.adaptor)
	}
	return out
}

// GetAdaptor returns the adaptor for the given model object. The lookup is
// idempotent: two calls for the same object return the same adaptor. When
// no adaptor exists and create is false, it fails with an
// AdaptorNotFoundError and creates nothing. Otherwise a new adaptor is
// constructed, fully synchronized with the model's current state, and
// subscribed to future changes; structural dependents (a canvas's views, a
// view's scene, a node's children) are materialized before GetAdaptor
// returns, so the caller may assume the whole backend subtree exists.
func (r *Registry) GetAdaptor(m Model, create bool) (Adaptor, error) {
	if e, ok := r.entries[m.ModelID()]; ok {
		return e.adaptor, nil
	}
	if !create {
		return nil, &AdaptorNotFoundError{ModelID: m.ModelID()}
	}

	adaptor, err := r.factory.CreateAdaptor(r, m)
	if err != nil {
		return nil, fmt.Errorf("create adaptor: %w", err)
	}
	if err := validateCapabilities(m, adaptor); err != nil {
		return nil, err
	}

	e := &entry{model: m, adaptor: adaptor}
	e.setters = r.setterTable(adaptor)
	// Store before initializing: structural setters re-enter GetAdaptor
	// for related objects, which may refer back to this one.
	r.entries[m.ModelID()] = e

	r.syncAdaptor(e)
	e.sub = m.OnChange(func(c Change) { r.handleEvent(e, c) })
	r.initDependents(m)

	return adaptor, nil
}

// Release evicts the adaptor for a model object and detaches its event
// subscription. The native object itself is the backend's to clean up.
// No-op if the object has no adaptor.
func (r *Registry) Release(m Model) {
	e, ok := r.entries[m.ModelID()]
	if !ok {
		return
	}
	m.Unsubscribe(e.sub)
	delete(r.entries, m.ModelID())
}

// ReleaseTree releases a node and all its descendants.
func (r *Registry) ReleaseTree(n Node) {
	r.Release(n)
	for _, child := range n.Children() {
		r.ReleaseTree(child)
	}
}

// syncAdaptor pushes every current model field into a fresh adaptor inside
// a scoped update block. Per-field failures are logged and skipped; partial
// success is acceptable at this stage.
func (r *Registry) syncAdaptor(e *entry) {
	na, isNode := e.adaptor.(NodeAdaptor)
	if isNode {
		na.BlockUpdates()
	}
	for _, f := range e.model.currentFields() {
		res := r.applyChange(e, f)
		if res.Status != SyncApplied {
			r.logResult(e, res, "sync")
		}
	}
	if isNode {
		na.UnblockUpdates()
		if err := na.ForceUpdate(); err != nil {
			r.log.Warn("force update failed", "model", e.model.ModelID(), "err", err)
		}
	}
}

// initDependents ensures adaptors exist for the structurally-required
// dependents of a freshly registered model, in a fixed order: a canvas's
// views, then a view's scene, then a node's children. This guarantees a
// scene or camera is backed before anything that reads its native handle.
func (r *Registry) initDependents(m Model) {
	switch m := m.(type) {
	case *Canvas:
		for _, v := range m.Views() {
			r.ensure(v)
		}
	case *View:
		r.ensure(m.Scene())
	case Node:
		for _, child := range m.Children() {
			r.ensure(child)
		}
	}
}

func (r *Registry) ensure(m Model) {
	if _, err := r.GetAdaptor(m, true); err != nil {
		r.log.Error("materialize dependent failed", "model", m.ModelID(), "err", err)
	}
}

// handleEvent routes one change notification to the adaptor's setter. A
// missing setter (unsupported field) and a failing setter are both logged
// and dropped: one broken backend capability must never corrupt the model
// or crash the caller that mutated it.
func (r *Registry) handleEvent(e *entry, c Change) {
	if c.Field == FieldRefresh {
		if na, ok := e.adaptor.(NodeAdaptor); ok {
			if err := na.ForceUpdate(); err != nil {
				r.log.Warn("force update failed", "model", e.model.ModelID(), "err", err)
			}
		}
		return
	}
	res := r.applyChange(e, c)
	if res.Status != SyncApplied {
		r.logResult(e, res, "dispatch")
	}
}

func (r *Registry) applyChange(e *entry, c Change) SyncResult {
	setter, ok := e.setters[c.Field]
	if !ok {
		return SyncResult{Field: c.Field, Status: SyncUnsupported}
	}
	err := safeApply(setter, c.Value)
	switch {
	case err == nil:
		return SyncResult{Field: c.Field, Status: SyncApplied}
	case errors.Is(err, ErrUnsupported):
		return SyncResult{Field: c.Field, Status: SyncUnsupported, Err: err}
	default:
		return SyncResult{Field: c.Field, Status: SyncFailed, Err: err}
	}
}

// safeApply invokes a setter inside a caught-panic boundary so a broken
// backend cannot unwind through the model mutation that triggered it.
func safeApply(setter setterFunc, value any) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("backend setter panicked: %v", p)
		}
	}()
	return setter(value)
}

func (r *Registry) logResult(e *entry, res SyncResult, stage string) {
	switch res.Status {
	case SyncUnsupported:
		r.log.Debug("field not supported by backend",
			"stage", stage, "model", e.model.ModelID(), "field", res.Field, "err", res.Err)
	case SyncFailed:
		r.log.Warn("backend setter failed",
			"stage", stage, "model", e.model.ModelID(), "field", res.Field, "err", res.Err)
	}
}

// typed adapts a strongly-typed setter to the untyped dispatch signature.
func typed[T any](fn func(T) error) setterFunc {
	return func(v any) error {
		tv, ok := v.(T)
		if !ok {
			return fmt.Errorf("unexpected value type %T", v)
		}
		return fn(tv)
	}
}

// setterTable builds the static field-to-setter mapping for an adaptor,
// once, at registration time. The table is derived from which capability
// interfaces the adaptor implements; a field with no entry is reported as
// unsupported at dispatch time rather than failing the pipeline.
func (r *Registry) setterTable(a Adaptor) map[string]setterFunc {
	t := make(map[string]setterFunc)

	if na, ok := a.(NodeAdaptor); ok {
		t["name"] = typed(na.SetName)
		t["visible"] = typed(na.SetVisible)
		t["interactive"] = typed(na.SetInteractive)
		t["opacity"] = typed(na.SetOpacity)
		t["order"] = typed(na.SetOrder)
		t["transform"] = typed(na.SetTransform)
		t["parent"] = func(v any) error {
			if v == nil {
				return na.SetParent(nil)
			}
			parent, ok := v.(Node)
			if !ok {
				return fmt.Errorf("unexpected value type %T", v)
			}
			pa, err := r.GetAdaptor(parent, true)
			if err != nil {
				return err
			}
			return na.SetParent(pa.(NodeAdaptor))
		}
		t["children"] = func(v any) error {
			children, ok := v.([]Node)
			if !ok {
				return fmt.Errorf("unexpected value type %T", v)
			}
			var errs []error
			for _, child := range children {
				ca, err := r.GetAdaptor(child, true)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				if err := na.AddChild(ca.(NodeAdaptor)); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		}
	}

	if ca, ok := a.(CameraAdaptor); ok {
		t["type"] = typed(ca.SetCameraType)
		t["zoom"] = typed(ca.SetZoom)
		t["center"] = typed(ca.SetCenter)
		t["range"] = typed(ca.SetRange)
	}

	if ia, ok := a.(ImageAdaptor); ok {
		t["data"] = typed(ia.SetData)
		t["cmap"] = typed(ia.SetColormap)
		t["clims"] = typed(ia.SetClims)
		t["gamma"] = typed(ia.SetGamma)
		t["interpolation"] = typed(ia.SetInterpolation)
	}

	if pa, ok := a.(PointsAdaptor); ok {
		t["coords"] = typed(pa.SetCoords)
		t["size"] = typed(pa.SetSize)
		t["face_color"] = typed(pa.SetFaceColor)
		t["edge_color"] = typed(pa.SetEdgeColor)
		t["edge_width"] = typed(pa.SetEdgeWidth)
		t["symbol"] = typed(pa.SetSymbol)
		t["scaling"] = typed(pa.SetScaling)
		t["antialias"] = typed(pa.SetAntialias)
	}

	if va, ok := a.(ViewAdaptor); ok {
		t["visible"] = typed(va.SetVisible)
		t["layout"] = typed(va.SetLayout)
		t["blending"] = typed(va.SetBlending)
		t["background_color"] = typed(va.SetBackground)
		t["scene"] = func(v any) error {
			scene, ok := v.(*Scene)
			if !ok {
				return fmt.Errorf("unexpected value type %T", v)
			}
			sa, err := r.GetAdaptor(scene, true)
			if err != nil {
				return err
			}
			return va.SetScene(sa.(NodeAdaptor))
		}
		t["camera"] = func(v any) error {
			cam, ok := v.(*Camera)
			if !ok {
				return fmt.Errorf("unexpected value type %T", v)
			}
			ca, err := r.GetAdaptor(cam, true)
			if err != nil {
				return err
			}
			return va.SetCamera(ca.(CameraAdaptor))
		}
	}

	if cva, ok := a.(CanvasAdaptor); ok {
		t["width"] = typed(cva.SetWidth)
		t["height"] = typed(cva.SetHeight)
		t["title"] = typed(cva.SetTitle)
		t["background_color"] = typed(cva.SetBackground)
		t["visible"] = typed(cva.SetVisible)
		t["views"] = func(v any) error {
			views, ok := v.([]*View)
			if !ok {
				return fmt.Errorf("unexpected value type %T", v)
			}
			var errs []error
			for _, view := range views {
				va, err := r.GetAdaptor(view, true)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				if err := cva.AddView(va.(ViewAdaptor)); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		}
	}

	return t
}

// validateCapabilities fails adaptor construction with a clear missing
// capability error when a backend does not implement the contract required
// for the model's kind, rather than surfacing unsupported operations later
// during event dispatch.
func validateCapabilities(m Model, a Adaptor) error {
	var capability string
	ok := true
	switch m.(type) {
	case *Camera:
		_, ok = a.(CameraAdaptor)
		capability = "CameraAdaptor"
	case *Image:
		_, ok = a.(ImageAdaptor)
		capability = "ImageAdaptor"
	case *Points:
		_, ok = a.(PointsAdaptor)
		capability = "PointsAdaptor"
	case Node:
		_, ok = a.(NodeAdaptor)
		capability = "NodeAdaptor"
	case *View:
		_, ok = a.(ViewAdaptor)
		capability = "ViewAdaptor"
	case *Canvas:
		_, ok = a.(CanvasAdaptor)
		capability = "CanvasAdaptor"
	}
	if !ok {
		return &MissingCapabilityError{Model: fmt.Sprintf("%T", m), Capability: capability}
	}
	return nil
}
