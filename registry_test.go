package arbor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"testing"
)

// --- Recording fake backend ---

// fakeNative is the backend-native object the fake adaptors write into.
type fakeNative struct {
	kind     NodeKind
	parent   *fakeNative
	children []*fakeNative
	fields   map[string]any
}

func newFakeNative(kind NodeKind) *fakeNative {
	return &fakeNative{kind: kind, fields: make(map[string]any)}
}

func (n *fakeNative) countKind(kind NodeKind) int {
	c := 0
	for _, child := range n.children {
		if child.kind == kind {
			c++
		}
	}
	return c
}

func (n *fakeNative) detach() {
	if n.parent == nil {
		return
	}
	siblings := n.parent.children
	for i, c := range siblings {
		if c == n {
			n.parent.children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// fakeAdaptor records every applied field. It implements all node capability
// contracts so a single type can back any node kind.
type fakeAdaptor struct {
	native *fakeNative

	applied      []string
	blockCalls   int
	unblockCalls int
	forceUpdates int

	// failures maps field names to errors the setter returns; panicFields
	// makes the setter panic instead.
	failures    map[string]error
	panicFields map[string]bool
}

func (a *fakeAdaptor) set(field string, v any) error {
	if a.panicFields[field] {
		panic("fake backend exploded")
	}
	if err := a.failures[field]; err != nil {
		return err
	}
	a.applied = append(a.applied, field)
	a.native.fields[field] = v
	return nil
}

func (a *fakeAdaptor) GetNative() any { return a.native }

func (a *fakeAdaptor) SetName(v string) error         { return a.set("name", v) }
func (a *fakeAdaptor) SetVisible(v bool) error        { return a.set("visible", v) }
func (a *fakeAdaptor) SetInteractive(v bool) error    { return a.set("interactive", v) }
func (a *fakeAdaptor) SetOpacity(v float64) error     { return a.set("opacity", v) }
func (a *fakeAdaptor) SetOrder(v int) error           { return a.set("order", v) }
func (a *fakeAdaptor) SetTransform(v Transform) error { return a.set("transform", v) }

func (a *fakeAdaptor) AddChild(child NodeAdaptor) error {
	co := child.GetNative().(*fakeNative)
	if co.parent == a.native {
		return nil
	}
	co.detach()
	co.parent = a.native
	a.native.children = append(a.native.children, co)
	return nil
}

func (a *fakeAdaptor) SetParent(parent NodeAdaptor) error {
	if parent == nil {
		a.native.detach()
		return nil
	}
	po := parent.GetNative().(*fakeNative)
	if a.native.parent == po {
		return nil
	}
	a.native.detach()
	a.native.parent = po
	po.children = append(po.children, a.native)
	return nil
}

func (a *fakeAdaptor) BlockUpdates()   { a.blockCalls++ }
func (a *fakeAdaptor) UnblockUpdates() { a.unblockCalls++ }
func (a *fakeAdaptor) ForceUpdate() error {
	a.forceUpdates++
	return nil
}

func (a *fakeAdaptor) SetCameraType(v CameraType) error { return a.set("type", v) }
func (a *fakeAdaptor) SetZoom(v float64) error          { return a.set("zoom", v) }
func (a *fakeAdaptor) SetCenter(v Vec3) error           { return a.set("center", v) }
func (a *fakeAdaptor) SetRange(v float64) error         { return a.set("range", v) }

func (a *fakeAdaptor) SetData(v ImageData) error                  { return a.set("data", v) }
func (a *fakeAdaptor) SetColormap(v string) error                 { return a.set("cmap", v) }
func (a *fakeAdaptor) SetClims(v *Clims) error                    { return a.set("clims", v) }
func (a *fakeAdaptor) SetGamma(v float64) error                   { return a.set("gamma", v) }
func (a *fakeAdaptor) SetInterpolation(v InterpolationMode) error { return a.set("interpolation", v) }

func (a *fakeAdaptor) SetCoords(v []Vec3) error       { return a.set("coords", v) }
func (a *fakeAdaptor) SetSize(v float64) error        { return a.set("size", v) }
func (a *fakeAdaptor) SetFaceColor(v Color) error     { return a.set("face_color", v) }
func (a *fakeAdaptor) SetEdgeColor(v Color) error     { return a.set("edge_color", v) }
func (a *fakeAdaptor) SetEdgeWidth(v float64) error   { return a.set("edge_width", v) }
func (a *fakeAdaptor) SetSymbol(v Symbol) error       { return a.set("symbol", v) }
func (a *fakeAdaptor) SetScaling(v ScalingMode) error { return a.set("scaling", v) }
func (a *fakeAdaptor) SetAntialias(v float64) error   { return a.set("antialias", v) }

// fakeViewAdaptor records the view fields and the resolved scene/camera
// adaptors.
type fakeViewAdaptor struct {
	fields map[string]any
	scene  NodeAdaptor
	camera CameraAdaptor
}

func (a *fakeViewAdaptor) GetNative() any { return a }

func (a *fakeViewAdaptor) SetVisible(v bool) error       { a.fields["visible"] = v; return nil }
func (a *fakeViewAdaptor) SetLayout(v Layout) error      { a.fields["layout"] = v; return nil }
func (a *fakeViewAdaptor) SetBlending(v BlendMode) error { a.fields["blending"] = v; return nil }
func (a *fakeViewAdaptor) SetBackground(v Color) error   { a.fields["background"] = v; return nil }

func (a *fakeViewAdaptor) SetScene(scene NodeAdaptor) error {
	a.scene = scene
	return nil
}

func (a *fakeViewAdaptor) SetCamera(camera CameraAdaptor) error {
	a.camera = camera
	return nil
}

// fakeCanvasAdaptor records the canvas fields and registered views.
type fakeCanvasAdaptor struct {
	fields  map[string]any
	views   []ViewAdaptor
	closed  bool
	renders int
}

func (a *fakeCanvasAdaptor) GetNative() any { return a }

func (a *fakeCanvasAdaptor) SetVisible(v bool) error     { a.fields["visible"] = v; return nil }
func (a *fakeCanvasAdaptor) SetWidth(v int) error        { a.fields["width"] = v; return nil }
func (a *fakeCanvasAdaptor) SetHeight(v int) error       { a.fields["height"] = v; return nil }
func (a *fakeCanvasAdaptor) SetTitle(v string) error     { a.fields["title"] = v; return nil }
func (a *fakeCanvasAdaptor) SetBackground(v Color) error { a.fields["background"] = v; return nil }

func (a *fakeCanvasAdaptor) AddView(view ViewAdaptor) error {
	for _, existing := range a.views {
		if existing == view {
			return nil
		}
	}
	a.views = append(a.views, view)
	return nil
}

func (a *fakeCanvasAdaptor) Close() error {
	a.closed = true
	return nil
}

func (a *fakeCanvasAdaptor) Render() (image.Image, error) {
	a.renders++
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

// fakeFactory builds fake adaptors. failures/panicFields are copied into
// every node adaptor it creates.
type fakeFactory struct {
	failures    map[string]error
	panicFields map[string]bool
	bare        bool // return an adaptor with no capabilities
}

type bareAdaptor struct{}

func (bareAdaptor) GetNative() any { return nil }

func (f *fakeFactory) CreateAdaptor(reg *Registry, m Model) (Adaptor, error) {
	if f.bare {
		return bareAdaptor{}, nil
	}
	switch m := m.(type) {
	case *View:
		return &fakeViewAdaptor{fields: make(map[string]any)}, nil
	case *Canvas:
		return &fakeCanvasAdaptor{fields: make(map[string]any)}, nil
	case Node:
		return &fakeAdaptor{
			native:      newFakeNative(m.Kind()),
			failures:    f.failures,
			panicFields: f.panicFields,
		}, nil
	default:
		return nil, fmt.Errorf("no adaptor for %T", m)
	}
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(&fakeFactory{}, nil)
}

func mustAdaptor(t *testing.T, r *Registry, m Model) *fakeAdaptor {
	t.Helper()
	a, err := r.GetAdaptor(m, true)
	if err != nil {
		t.Fatalf("GetAdaptor error: %v", err)
	}
	return a.(*fakeAdaptor)
}

// --- Lookup semantics ---

func TestGetAdaptorIdempotent(t *testing.T) {
	r := newTestRegistry(t)
	s := NewScene()
	first := mustAdaptor(t, r, s)
	second := mustAdaptor(t, r, s)
	if first != second {
		t.Error("repeated lookups should return the same adaptor")
	}
	if len(r.All()) != 1 {
		t.Errorf("registry holds %d adaptors, want 1", len(r.All()))
	}
}

func TestGetAdaptorNoCreate(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.GetAdaptor(NewScene(), false)
	var notFound *AdaptorNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want AdaptorNotFoundError", err)
	}
	if len(r.All()) != 0 {
		t.Error("create=false must not register anything")
	}
}

func TestMissingCapabilityRejected(t *testing.T) {
	r := NewRegistry(&fakeFactory{bare: true}, nil)
	_, err := r.GetAdaptor(NewScene(), true)
	var missing *MissingCapabilityError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want MissingCapabilityError", err)
	}
}

// --- Initial synchronization ---

func TestInitialSyncPushesCurrentState(t *testing.T) {
	r := newTestRegistry(t)
	img := NewImage(ImageData{Width: 2, Height: 1, Values: []float32{0, 1}})
	img.SetName("heat")
	img.SetColormap("viridis")

	a := mustAdaptor(t, r, img)
	if a.native.fields["name"] != "heat" {
		t.Errorf("name = %v, want heat", a.native.fields["name"])
	}
	if a.native.fields["cmap"] != "viridis" {
		t.Errorf("cmap = %v, want viridis", a.native.fields["cmap"])
	}
	if a.blockCalls != 1 || a.unblockCalls != 1 {
		t.Errorf("block/unblock = %d/%d, want 1/1", a.blockCalls, a.unblockCalls)
	}
	if a.forceUpdates != 1 {
		t.Errorf("forceUpdates = %d, want 1 after initial sync", a.forceUpdates)
	}
}

func TestChildrenMaterializedRecursively(t *testing.T) {
	r := newTestRegistry(t)
	root := NewScene()
	mid := NewScene()
	leaf := NewPoints(nil)
	root.AddChild(mid)
	mid.AddChild(leaf)

	rootA := mustAdaptor(t, r, root)
	if len(r.All()) != 3 {
		t.Fatalf("registry holds %d adaptors, want 3", len(r.All()))
	}
	if _, err := r.GetAdaptor(leaf, false); err != nil {
		t.Errorf("leaf should have been materialized: %v", err)
	}
	if len(rootA.native.children) != 1 {
		t.Fatalf("root native has %d children, want 1", len(rootA.native.children))
	}
	if rootA.native.children[0].countKind(KindPoints) != 1 {
		t.Error("leaf native should sit under mid native")
	}
}

// --- Event dispatch ---

func TestMutationDispatchesToBackend(t *testing.T) {
	r := newTestRegistry(t)
	p := NewPoints(nil)
	a := mustAdaptor(t, r, p)

	p.SetFaceColor(Color{R: 1, A: 1})
	if a.native.fields["face_color"] != (Color{R: 1, A: 1}) {
		t.Errorf("face_color = %v, want red", a.native.fields["face_color"])
	}
}

func TestReparentMovesNativeChild(t *testing.T) {
	r := newTestRegistry(t)
	s1 := NewScene()
	s2 := NewScene()
	img := NewImage(ImageData{})
	s1.AddChild(img)

	a1 := mustAdaptor(t, r, s1)
	a2 := mustAdaptor(t, r, s2)
	if a1.native.countKind(KindImage) != 1 {
		t.Fatalf("s1 native image count = %d, want 1", a1.native.countKind(KindImage))
	}

	if err := s2.AddChild(img); err != nil {
		t.Fatalf("reparent error: %v", err)
	}
	if got := a1.native.countKind(KindImage); got != 0 {
		t.Errorf("s1 native image count = %d, want 0 after reparent", got)
	}
	if got := a2.native.countKind(KindImage); got != 1 {
		t.Errorf("s2 native image count = %d, want 1 after reparent", got)
	}
}

func TestBatchTriggersSingleForceUpdate(t *testing.T) {
	r := newTestRegistry(t)
	cam := NewCamera()
	a := mustAdaptor(t, r, cam)
	before := a.forceUpdates

	cam.Batch(func() {
		cam.SetZoom(2)
		cam.SetCenter(Vec3{X: 5})
	})
	if got := a.forceUpdates - before; got != 1 {
		t.Errorf("forceUpdates during batch = %d, want 1", got)
	}
	if a.native.fields["zoom"] != 2.0 {
		t.Error("zoom should still dispatch inside the batch")
	}
}

// --- Failure isolation ---

func logCapture(level slog.Level) (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: level})), buf
}

func TestFailingSetterDoesNotAbortMutation(t *testing.T) {
	log, buf := logCapture(slog.LevelWarn)
	r := NewRegistry(&fakeFactory{
		failures: map[string]error{"name": errors.New("backend broke")},
	}, log)
	s := NewScene()
	if _, err := r.GetAdaptor(s, true); err != nil {
		t.Fatalf("GetAdaptor error: %v", err)
	}

	s.SetName("still works") // must not panic or error
	if s.Name() != "still works" {
		t.Error("model mutation must survive a backend failure")
	}
	if !strings.Contains(buf.String(), "backend setter failed") {
		t.Errorf("expected failure log, got: %s", buf.String())
	}
}

func TestPanickingSetterIsContained(t *testing.T) {
	log, buf := logCapture(slog.LevelWarn)
	r := NewRegistry(&fakeFactory{
		panicFields: map[string]bool{"opacity": true},
	}, log)
	s := NewScene()
	if _, err := r.GetAdaptor(s, true); err != nil {
		t.Fatalf("GetAdaptor error: %v", err)
	}

	if err := s.SetOpacity(0.5); err != nil {
		t.Fatalf("SetOpacity error: %v", err)
	}
	if s.Opacity() != 0.5 {
		t.Error("model mutation must survive a backend panic")
	}
	if !strings.Contains(buf.String(), "panicked") {
		t.Errorf("expected panic log, got: %s", buf.String())
	}
}

func TestUnsupportedCapabilityLoggedAtDebug(t *testing.T) {
	log, buf := logCapture(slog.LevelDebug)
	r := NewRegistry(&fakeFactory{
		failures: map[string]error{"cmap": fmt.Errorf("no such colormap: %w", ErrUnsupported)},
	}, log)
	img := NewImage(ImageData{})
	if _, err := r.GetAdaptor(img, true); err != nil {
		t.Fatalf("GetAdaptor error: %v", err)
	}
	buf.Reset()

	img.SetColormap("plasma")
	if img.Colormap() != "plasma" {
		t.Error("model keeps the value even when the backend cannot show it")
	}
	out := buf.String()
	if !strings.Contains(out, "field not supported") {
		t.Errorf("expected unsupported log, got: %s", out)
	}
	if strings.Contains(out, "level=WARN") {
		t.Errorf("unsupported fields should not log at warn: %s", out)
	}
}

// --- View and canvas recursion ---

func TestViewMaterializesSceneAndCamera(t *testing.T) {
	r := newTestRegistry(t)
	v := NewView()
	a, err := r.GetAdaptor(v, true)
	if err != nil {
		t.Fatalf("GetAdaptor error: %v", err)
	}
	va := a.(*fakeViewAdaptor)
	if va.scene == nil || va.camera == nil {
		t.Fatal("view adaptor should receive scene and camera adaptors")
	}

	// The camera model is parented under the scene, and the natives agree.
	if v.Camera().Parent() != Node(v.Scene()) {
		t.Error("view camera should be a child of the view scene")
	}
	sceneNative := va.scene.GetNative().(*fakeNative)
	if sceneNative.countKind(KindCamera) != 1 {
		t.Error("camera native should sit under the scene native")
	}
}

func TestCanvasMaterializesViews(t *testing.T) {
	r := newTestRegistry(t)
	v := NewView()
	c := v.Show()

	a, err := r.GetAdaptor(c, true)
	if err != nil {
		t.Fatalf("GetAdaptor error: %v", err)
	}
	ca := a.(*fakeCanvasAdaptor)
	if len(ca.views) != 1 {
		t.Fatalf("canvas adaptor has %d views, want 1", len(ca.views))
	}
	if ca.fields["visible"] != true {
		t.Error("Show should have synced visibility into the backend")
	}
	// The view's scene and camera exist too: canvas -> view -> scene/camera.
	if len(r.All()) != 4 {
		t.Errorf("registry holds %d adaptors, want 4", len(r.All()))
	}
}

// --- Release ---

func TestReleaseStopsDispatch(t *testing.T) {
	r := newTestRegistry(t)
	s := NewScene()
	a := mustAdaptor(t, r, s)

	r.Release(s)
	if _, err := r.GetAdaptor(s, false); err == nil {
		t.Error("released model should have no adaptor")
	}

	// The initial sync already pushed name="", so assert on the value:
	// the mutation after Release must not reach the backend.
	s.SetName("after")
	if got := a.native.fields["name"]; got == "after" {
		t.Error("released adaptor must not receive events")
	}
}

func TestReleaseTree(t *testing.T) {
	r := newTestRegistry(t)
	root := NewScene()
	child := NewPoints(nil)
	root.AddChild(child)
	mustAdaptor(t, r, root)
	if len(r.All()) != 2 {
		t.Fatalf("registry holds %d adaptors, want 2", len(r.All()))
	}

	r.ReleaseTree(root)
	if len(r.All()) != 0 {
		t.Errorf("registry holds %d adaptors after ReleaseTree, want 0", len(r.All()))
	}
}
