package arbor

import (
	"errors"
	"testing"
)

// --- Construction defaults ---

func TestNodeDefaults(t *testing.T) {
	for _, n := range []Node{NewScene(), NewCamera(), NewImage(ImageData{}), NewPoints(nil)} {
		if n.ModelID() == 0 {
			t.Errorf("%s: ModelID should be non-zero", n.Kind())
		}
		if !n.Visible() {
			t.Errorf("%s: Visible should default to true", n.Kind())
		}
		if n.Opacity() != 1 {
			t.Errorf("%s: Opacity = %v, want 1", n.Kind(), n.Opacity())
		}
		if !n.Transform().Eq(Identity()) {
			t.Errorf("%s: Transform should default to identity", n.Kind())
		}
		if n.Parent() != nil {
			t.Errorf("%s: fresh node should be a root", n.Kind())
		}
	}
}

func TestNodeKinds(t *testing.T) {
	if NewScene().Kind() != KindScene {
		t.Error("scene kind mismatch")
	}
	if NewCamera().Kind() != KindCamera {
		t.Error("camera kind mismatch")
	}
	if NewImage(ImageData{}).Kind() != KindImage {
		t.Error("image kind mismatch")
	}
	if NewPoints(nil).Kind() != KindPoints {
		t.Error("points kind mismatch")
	}
}

// --- Tree manipulation ---

func TestAddChildSetsParent(t *testing.T) {
	root := NewScene()
	child := NewPoints(nil)
	if err := root.AddChild(child); err != nil {
		t.Fatalf("AddChild error: %v", err)
	}
	if child.Parent() != Node(root) {
		t.Error("child.Parent should be root")
	}
	if len(root.Children()) != 1 {
		t.Fatalf("len(Children) = %d, want 1", len(root.Children()))
	}
}

func TestAddChildTwiceIsNoOp(t *testing.T) {
	root := NewScene()
	child := NewPoints(nil)
	root.AddChild(child)

	count := 0
	child.OnChange(func(Change) { count++ })
	if err := root.AddChild(child); err != nil {
		t.Fatalf("re-AddChild error: %v", err)
	}
	if count != 0 {
		t.Errorf("re-adding emitted %d events, want 0", count)
	}
	if len(root.Children()) != 1 {
		t.Errorf("len(Children) = %d, want 1", len(root.Children()))
	}
}

func TestAddChildNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("AddChild(nil) should panic")
		}
	}()
	NewScene().AddChild(nil)
}

func TestAddChildCycleRejected(t *testing.T) {
	a := NewScene()
	b := NewScene()
	c := NewScene()
	a.AddChild(b)
	b.AddChild(c)

	err := c.AddChild(a)
	var structural *StructuralError
	if !errors.As(err, &structural) {
		t.Fatalf("cycle AddChild error = %v, want StructuralError", err)
	}
	// The tree is unchanged.
	if a.Parent() != nil || len(c.Children()) != 0 {
		t.Error("failed AddChild must not mutate the tree")
	}
}

func TestAddChildSelfRejected(t *testing.T) {
	a := NewScene()
	var structural *StructuralError
	if err := a.AddChild(a); !errors.As(err, &structural) {
		t.Fatalf("self AddChild error = %v, want StructuralError", err)
	}
}

func TestReparentMovesChild(t *testing.T) {
	s1 := NewScene()
	s2 := NewScene()
	img := NewImage(ImageData{})
	s1.AddChild(img)

	if err := s2.AddChild(img); err != nil {
		t.Fatalf("reparent error: %v", err)
	}
	if img.Parent() != Node(s2) {
		t.Error("parent should be the new scene")
	}
	if len(s1.Children()) != 0 {
		t.Errorf("old parent still has %d children", len(s1.Children()))
	}
	if len(s2.Children()) != 1 {
		t.Errorf("new parent has %d children, want 1", len(s2.Children()))
	}
}

func TestReparentEvents(t *testing.T) {
	s1 := NewScene()
	s2 := NewScene()
	img := NewImage(ImageData{})
	s1.AddChild(img)

	var childFields, oldFields, newFields []string
	img.OnChange(func(c Change) { childFields = append(childFields, c.Field) })
	s1.OnChange(func(c Change) { oldFields = append(oldFields, c.Field) })
	s2.OnChange(func(c Change) { newFields = append(newFields, c.Field) })

	s2.AddChild(img)

	if len(childFields) != 1 || childFields[0] != "parent" {
		t.Errorf("child events = %v, want [parent]", childFields)
	}
	if len(oldFields) != 1 || oldFields[0] != "children" {
		t.Errorf("old parent events = %v, want [children]", oldFields)
	}
	if len(newFields) != 1 || newFields[0] != "children" {
		t.Errorf("new parent events = %v, want [children]", newFields)
	}
}

func TestRemoveChildDetaches(t *testing.T) {
	root := NewScene()
	child := NewPoints(nil)
	root.AddChild(child)

	var got []Change
	child.OnChange(func(c Change) { got = append(got, c) })
	root.RemoveChild(child)

	if child.Parent() != nil {
		t.Error("removed child should be a root")
	}
	if len(root.Children()) != 0 {
		t.Error("root should have no children")
	}
	if len(got) != 1 || got[0].Field != "parent" || got[0].Value != Node(nil) {
		t.Errorf("child events = %v, want one nil-parent event", got)
	}
}

func TestRemoveChildNotAChildIsNoOp(t *testing.T) {
	root := NewScene()
	stranger := NewPoints(nil)
	root.RemoveChild(stranger) // must not panic
	root.RemoveChild(nil)
}

func TestSetParentNilDetaches(t *testing.T) {
	root := NewScene()
	child := NewPoints(nil)
	root.AddChild(child)
	if err := child.SetParent(nil); err != nil {
		t.Fatalf("SetParent(nil) error: %v", err)
	}
	if child.Parent() != nil {
		t.Error("child should be detached")
	}
}

func TestSetParentAttaches(t *testing.T) {
	root := NewScene()
	child := NewPoints(nil)
	if err := child.SetParent(root); err != nil {
		t.Fatalf("SetParent error: %v", err)
	}
	if child.Parent() != Node(root) || len(root.Children()) != 1 {
		t.Error("SetParent should attach via the parent's child list")
	}
}

func TestChildOrderPreservedOnRemoval(t *testing.T) {
	root := NewScene()
	a, b, c := NewPoints(nil), NewPoints(nil), NewPoints(nil)
	root.AddChild(a)
	root.AddChild(b)
	root.AddChild(c)
	root.RemoveChild(b)

	kids := root.Children()
	if len(kids) != 2 || kids[0] != Node(a) || kids[1] != Node(c) {
		t.Errorf("children after removal out of order")
	}
}

// --- Path finding ---

func TestPathToSelf(t *testing.T) {
	n := NewScene()
	up, down, err := n.PathTo(n)
	if err != nil {
		t.Fatalf("PathTo error: %v", err)
	}
	if len(up) != 1 || up[0] != Node(n) || len(down) != 0 {
		t.Errorf("PathTo(self) = up %d, down %d; want up [self], down []", len(up), len(down))
	}
}

func TestPathToSibling(t *testing.T) {
	root := NewScene()
	a := NewImage(ImageData{})
	b := NewPoints(nil)
	root.AddChild(a)
	root.AddChild(b)

	up, down, err := a.PathTo(b)
	if err != nil {
		t.Fatalf("PathTo error: %v", err)
	}
	if len(up) != 2 || up[0] != Node(a) || up[1] != Node(root) {
		t.Errorf("up path wrong: %d entries", len(up))
	}
	if len(down) != 1 || down[0] != Node(b) {
		t.Errorf("down path wrong: %d entries", len(down))
	}
}

func TestPathToAncestor(t *testing.T) {
	root := NewScene()
	mid := NewScene()
	leaf := NewPoints(nil)
	root.AddChild(mid)
	mid.AddChild(leaf)

	up, down, err := leaf.PathTo(root)
	if err != nil {
		t.Fatalf("PathTo error: %v", err)
	}
	if len(up) != 3 || len(down) != 0 {
		t.Errorf("PathTo(ancestor) = up %d, down %d; want 3, 0", len(up), len(down))
	}
}

func TestPathToDisjointTrees(t *testing.T) {
	a := NewScene()
	b := NewScene()
	_, _, err := a.PathTo(b)
	var structural *StructuralError
	if !errors.As(err, &structural) {
		t.Fatalf("PathTo across trees error = %v, want StructuralError", err)
	}
}

// --- Transform composition across the tree ---

func TestTransformToSelfIsIdentity(t *testing.T) {
	n := NewScene()
	n.SetTransform(Translation(5, 5, 0))
	m, err := n.TransformTo(n)
	if err != nil {
		t.Fatalf("TransformTo error: %v", err)
	}
	assertTransform(t, "self transform", m, Identity())
}

func TestTransformToParentIsLocal(t *testing.T) {
	root := NewScene()
	child := NewPoints(nil)
	root.AddChild(child)
	child.SetTransform(Translation(3, 4, 0))

	m, err := child.TransformTo(root)
	if err != nil {
		t.Fatalf("TransformTo error: %v", err)
	}
	assertTransform(t, "child to parent", m, Translation(3, 4, 0))
}

func TestTransformToAcrossSiblings(t *testing.T) {
	root := NewScene()
	a := NewImage(ImageData{})
	b := NewImage(ImageData{})
	root.AddChild(a)
	root.AddChild(b)
	a.SetTransform(Translation(10, 0, 0))
	b.SetTransform(Translation(0, 5, 0))

	m, err := a.TransformTo(b)
	if err != nil {
		t.Fatalf("TransformTo error: %v", err)
	}
	// A point at a's origin sits at (10, 0) in root space, which is
	// (10, -5) in b's frame.
	got := m.Apply(Vec3{})
	assertVec3(t, "origin in b's frame", got, Vec3{X: 10, Y: -5})
}

func TestTransformToRoundTrip(t *testing.T) {
	root := NewScene()
	mid := NewScene()
	a := NewPoints(nil)
	b := NewImage(ImageData{})
	root.AddChild(mid)
	mid.AddChild(a)
	root.AddChild(b)
	mid.SetTransform(Chain(Scaling(2, 2, 1), Translation(1, -3, 0)))
	a.SetTransform(RotationZ(0.3))
	b.SetTransform(Translation(-4, 2, 0))

	ab, err := a.TransformTo(b)
	if err != nil {
		t.Fatalf("a.TransformTo(b) error: %v", err)
	}
	ba, err := b.TransformTo(a)
	if err != nil {
		t.Fatalf("b.TransformTo(a) error: %v", err)
	}
	if !ab.Mul(ba).EqTol(Identity(), 1e-9) {
		t.Error("a->b composed with b->a should be the identity")
	}
}

func TestTransformToSingularAncestor(t *testing.T) {
	root := NewScene()
	a := NewPoints(nil)
	b := NewPoints(nil)
	root.AddChild(a)
	root.AddChild(b)
	b.SetTransform(Scaling(0, 1, 1)) // not invertible, and b is on the descent leg

	_, err := a.TransformTo(b)
	var sing *SingularTransformError
	if !errors.As(err, &sing) {
		t.Fatalf("TransformTo error = %v, want SingularTransformError", err)
	}
}
