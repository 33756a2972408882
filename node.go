package arbor

// Node is the interface shared by every scene-graph node variant (Scene,
// Camera, Image, Points). The set of implementations is closed: the
// unexported base method prevents types outside this package from
// satisfying the interface, so there is no instantiable abstract node.
type Node interface {
	Model

	// Kind returns the concrete variant discriminator.
	Kind() NodeKind

	Name() string
	Visible() bool
	Interactive() bool
	Opacity() float64
	Order() int
	Transform() Transform

	// Parent returns the parent node, or nil for a root.
	Parent() Node
	// Children returns the child list in insertion order. The returned
	// slice MUST NOT be mutated by the caller; use AddChild/RemoveChild.
	Children() []Node

	// AddChild appends child to this node's children, detaching it from any
	// previous parent first. Adding an already-present child is a no-op.
	AddChild(child Node) error
	// RemoveChild detaches child from this node, making it a root.
	// No-op if child is not a child of this node.
	RemoveChild(child Node)
	// SetParent reparents this node under parent, or detaches it when
	// parent is nil.
	SetParent(parent Node) error

	// PathTo returns the ascent from this node to the lowest common
	// ancestor (inclusive) and the descent from that ancestor (exclusive)
	// to other.
	PathTo(other Node) (up, down []Node, err error)
	// TransformTo returns the transform mapping coordinates in this node's
	// frame to other's frame.
	TransformTo(other Node) (Transform, error)

	// Batch runs fn inside a notification batching scope.
	Batch(fn func())

	base() *NodeBase
}

// NodeBase implements the fields and tree behavior common to all node
// variants. It is embedded by the concrete types and never used on its own.
type NodeBase struct {
	modelBase

	self Node // the concrete node embedding this base
	kind NodeKind

	name        string
	visible     bool
	interactive bool
	opacity     float64
	order       int
	transform   Transform

	parent   Node
	children []Node
}

// initNode sets the common default field values shared by all constructors.
func initNode(b *NodeBase, self Node, kind NodeKind) {
	b.modelBase.init()
	b.self = self
	b.kind = kind
	b.visible = true
	b.opacity = 1
	b.transform = Identity()
}

func (b *NodeBase) base() *NodeBase { return b }

// Kind returns the concrete variant discriminator.
func (b *NodeBase) Kind() NodeKind { return b.kind }

// --- Field accessors and validated setters ---

func (b *NodeBase) Name() string { return b.name }

// SetName sets the optional display name.
func (b *NodeBase) SetName(name string) {
	if b.name == name {
		return
	}
	b.name = name
	b.emit("name", name)
}

func (b *NodeBase) Visible() bool { return b.visible }

// SetVisible shows or hides the node.
func (b *NodeBase) SetVisible(v bool) {
	if b.visible == v {
		return
	}
	b.visible = v
	b.emit("visible", v)
}

func (b *NodeBase) Interactive() bool { return b.interactive }

// SetInteractive controls whether the node accepts pointer events.
func (b *NodeBase) SetInteractive(v bool) {
	if b.interactive == v {
		return
	}
	b.interactive = v
	b.emit("interactive", v)
}

func (b *NodeBase) Opacity() float64 { return b.opacity }

// SetOpacity sets the node's opacity. Values outside [0, 1] are rejected
// with a ValidationError and the model is left unchanged.
func (b *NodeBase) SetOpacity(v float64) error {
	if v < 0 || v > 1 {
		return &ValidationError{Field: "opacity", Value: v, Reason: "must be in [0, 1]"}
	}
	if b.opacity == v {
		return nil
	}
	b.opacity = v
	b.emit("opacity", v)
	return nil
}

func (b *NodeBase) Order() int { return b.order }

// SetOrder sets the draw priority. Greater values draw later; children
// always draw after their parent. Negative values are rejected.
func (b *NodeBase) SetOrder(v int) error {
	if v < 0 {
		return &ValidationError{Field: "order", Value: v, Reason: "must be >= 0"}
	}
	if b.order == v {
		return nil
	}
	b.order = v
	b.emit("order", v)
	return nil
}

func (b *NodeBase) Transform() Transform { return b.transform }

// SetTransform sets the local-to-parent transform.
func (b *NodeBase) SetTransform(t Transform) {
	if b.transform.Eq(t) {
		return
	}
	b.transform = t
	b.emit("transform", t)
}

// --- Tree manipulation ---

func (b *NodeBase) Parent() Node { return b.parent }

// Children returns the child list in insertion order. The returned slice
// MUST NOT be mutated by the caller.
func (b *NodeBase) Children() []Node { return b.children }

// AddChild appends child to this node's children. If child already has a
// parent, it is removed from that parent first. Adding an already-present
// child is a no-op. Returns a StructuralError if the operation would create
// a cycle. Panics if child is nil.
func (b *NodeBase) AddChild(child Node) error {
	if child == nil {
		panic("arbor: cannot add nil child")
	}
	cb := child.base()
	if cb.parent != nil && cb.parent.ModelID() == b.id {
		return nil
	}
	if isAncestor(child, b.self) {
		return &StructuralError{Op: "AddChild", Reason: "adding child would create a cycle"}
	}

	var old Node
	if cb.parent != nil {
		old = cb.parent
		old.base().removeFromChildren(child)
	}
	cb.parent = b.self
	b.children = append(b.children, child)

	// The child's parent event is the canonical structural notification;
	// the children events let container backends resync their child lists.
	cb.emit("parent", b.self)
	if old != nil {
		old.base().emit("children", old.base().children)
	}
	b.emit("children", b.children)
	return nil
}

// RemoveChild detaches child from this node; the child becomes a root.
// No-op if child is not currently a child of this node.
func (b *NodeBase) RemoveChild(child Node) {
	if child == nil {
		return
	}
	cb := child.base()
	if cb.parent == nil || cb.parent.ModelID() != b.id {
		return
	}
	b.removeFromChildren(child)
	cb.parent = nil
	cb.emit("parent", Node(nil))
	b.emit("children", b.children)
}

// SetParent reparents this node under parent, or detaches it when parent is
// nil. Thin wrapper over AddChild/RemoveChild, which are the canonical
// mutation entry points.
func (b *NodeBase) SetParent(parent Node) error {
	if parent == nil {
		if b.parent != nil {
			b.parent.RemoveChild(b.self)
		}
		return nil
	}
	return parent.AddChild(b.self)
}

// removeFromChildren removes child from b.children without touching the
// child's parent pointer or emitting events. Uses copy+nil to avoid
// retaining a dangling reference in the backing array.
func (b *NodeBase) removeFromChildren(child Node) {
	id := child.ModelID()
	for i, c := range b.children {
		if c.ModelID() == id {
			copy(b.children[i:], b.children[i+1:])
			b.children[len(b.children)-1] = nil
			b.children = b.children[:len(b.children)-1]
			return
		}
	}
}

// isAncestor reports whether candidate is node or an ancestor of node.
func isAncestor(candidate, node Node) bool {
	id := candidate.ModelID()
	for p := node; p != nil; p = p.Parent() {
		if p.ModelID() == id {
			return true
		}
	}
	return false
}

// --- Path finding and transform composition ---

// parentChain returns the chain [node, parent, grandparent, ..., root].
func parentChain(n Node) []Node {
	var chain []Node
	for p := n; p != nil; p = p.Parent() {
		chain = append(chain, p)
	}
	return chain
}

// PathTo returns two ordered paths: the ascent from this node to the lowest
// common ancestor of the two nodes (inclusive), and the descent from that
// ancestor (exclusive) to other. Fails with a StructuralError when the
// nodes belong to disjoint trees.
func (b *NodeBase) PathTo(other Node) (up, down []Node, err error) {
	mine := parentChain(b.self)
	theirs := parentChain(other)

	theirIndex := make(map[uint32]int, len(theirs))
	for i, n := range theirs {
		theirIndex[n.ModelID()] = i
	}

	common := -1
	commonTheirs := -1
	for i, n := range mine {
		if j, ok := theirIndex[n.ModelID()]; ok {
			common = i
			commonTheirs = j
			break
		}
	}
	if common < 0 {
		return nil, nil, &StructuralError{Op: "PathTo", Reason: "no common ancestor between nodes"}
	}

	up = mine[:common+1]
	down = make([]Node, 0, commonTheirs)
	for i := commonTheirs - 1; i >= 0; i-- {
		down = append(down, theirs[i])
	}
	return up, down, nil
}

// TransformTo returns the transform mapping coordinates in this node's frame
// to other's frame: the local transforms along the ascent composed with the
// inverted local transforms along the descent. For nodes a and b in the same
// tree, a.TransformTo(b) is the exact inverse of b.TransformTo(a), and
// a.TransformTo(a) is the identity.
func (b *NodeBase) TransformTo(other Node) (Transform, error) {
	up, down, err := b.PathTo(other)
	if err != nil {
		return Transform{}, err
	}

	m := Identity()
	for _, n := range up[:len(up)-1] {
		m = n.Transform().Mul(m)
	}
	for _, n := range down {
		inv, err := n.Transform().Inverse()
		if err != nil {
			return Transform{}, err
		}
		m = inv.Mul(m)
	}
	return m, nil
}

// nodeFields returns the base fields synchronized into a fresh adaptor, in
// sync order. Concrete variants append their own fields.
func (b *NodeBase) nodeFields() []Change {
	return []Change{
		{Field: "name", Value: b.name},
		{Field: "parent", Value: b.parent},
		{Field: "children", Value: b.children},
		{Field: "visible", Value: b.visible},
		{Field: "interactive", Value: b.interactive},
		{Field: "opacity", Value: b.opacity},
		{Field: "order", Value: b.order},
		{Field: "transform", Value: b.transform},
	}
}
