// Package arbor keeps a declarative, observable scene-graph model
// continuously synchronized with imperative rendering backends.
//
// The model side is a tree of typed nodes ([Scene], [Camera], [Image],
// [Points]) composed into renderable units by [View] and [Canvas]. Every
// field mutation on a model object publishes a change notification; a
// [Registry] routes each notification to the backend adaptor caching that
// object's native counterpart, so the backend tree always mirrors the
// model. The model is the single source of truth: backend failures are
// logged and isolated per field, never surfaced to the caller that mutated
// the model.
//
// # Quick start
//
//	view := arbor.NewView()
//	scene := view.Scene()
//
//	img := arbor.NewImage(data)
//	scene.AddChild(img)
//
//	reg := ebitengine.New(nil)
//	reg.GetAdaptor(view.Show(), true)
//
//	img.SetOpacity(0.5) // propagates to the backend automatically
//
// # Scene graph
//
// Nodes form a tree: at most one parent, an ordered list of children, and
// a local-to-parent affine [Transform]. [Node.TransformTo] composes
// transforms between any two nodes sharing a common ancestor.
// [Node.AddChild] is the canonical structural mutation; reparenting moves
// a node, it never destroys it.
//
// # Backends
//
// A backend implements the capability contracts ([NodeAdaptor],
// [CameraAdaptor], [ImageAdaptor], [PointsAdaptor], [ViewAdaptor],
// [CanvasAdaptor]) and exposes an [AdaptorFactory]. The ebitengine
// subpackage is the reference backend, built on [Ebitengine].
//
// Synchronization is strictly model → backend and single-threaded:
// mutation and dispatch run synchronously on the caller's goroutine.
// Backend-originated changes (e.g. a user dragging a camera) are written
// back into the model, re-entering the same pipeline; idempotent-set
// elision prevents echo loops.
//
// [Ebitengine]: https://ebitengine.org
package arbor
