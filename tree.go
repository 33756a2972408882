package arbor

import "strings"

// nodeLabel returns the node's display label: its name when set, otherwise
// the capitalized kind.
func nodeLabel(n Node) string {
	if n.Name() != "" {
		return n.Name()
	}
	switch n.Kind() {
	case KindScene:
		return "Scene"
	case KindCamera:
		return "Camera"
	case KindImage:
		return "Image"
	case KindPoints:
		return "Points"
	}
	return string(n.Kind())
}

// TreeString renders a node subtree as an indented diagram, one node per
// line:
//
//	Scene
//	├── Image
//	├── Points
//	└── Camera
//
// Intended for debugging and test assertions.
func TreeString(root Node) string {
	var sb strings.Builder
	sb.WriteString(nodeLabel(root))
	writeSubtree(&sb, root, "")
	return sb.String()
}

func writeSubtree(sb *strings.Builder, n Node, prefix string) {
	children := n.Children()
	for i, child := range children {
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(children)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}
		sb.WriteString("\n" + prefix + connector + nodeLabel(child))
		writeSubtree(sb, child, childPrefix)
	}
}
