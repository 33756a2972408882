package arbor

// Scene is the root container of a renderable subtree. It has no fields
// beyond the common node fields.
type Scene struct {
	NodeBase
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	s := &Scene{}
	initNode(&s.NodeBase, s, KindScene)
	return s
}

func (s *Scene) currentFields() []Change {
	return s.nodeFields()
}
