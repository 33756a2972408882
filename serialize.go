package arbor

import (
	"encoding/json"
	"fmt"
)

// Every concrete node type serializes to a JSON object that always carries
// a "node_type" discriminator, even when default-value fields are omitted.
// The parent back-reference is never serialized (it would cycle); on load
// it is reconstructed purely from each parent's children list.

// baseWire is the common wire shape shared by all node kinds.
type baseWire struct {
	NodeType    NodeKind          `json:"node_type"`
	Name        string            `json:"name,omitempty"`
	Visible     bool              `json:"visible"`
	Interactive bool              `json:"interactive"`
	Opacity     float64           `json:"opacity"`
	Order       int               `json:"order"`
	Transform   [16]float64       `json:"transform"`
	Children    []json.RawMessage `json:"children,omitempty"`
}

func (b *NodeBase) baseWire() (baseWire, error) {
	w := baseWire{
		NodeType:    b.kind,
		Name:        b.name,
		Visible:     b.visible,
		Interactive: b.interactive,
		Opacity:     b.opacity,
		Order:       b.order,
		Transform:   b.transform.Matrix(),
	}
	for _, child := range b.children {
		raw, err := json.Marshal(child)
		if err != nil {
			return w, err
		}
		w.Children = append(w.Children, raw)
	}
	return w, nil
}

// applyBaseWire writes the common fields and rebuilds the child subtrees.
// Field writes are direct: deserialization happens before any adaptor is
// attached, so no notifications fire.
func applyBaseWire(b *NodeBase, w baseWire) error {
	b.name = w.Name
	b.visible = w.Visible
	b.interactive = w.Interactive
	b.opacity = w.Opacity
	b.order = w.Order
	b.transform = fromMatrix(w.Transform)
	for _, raw := range w.Children {
		child, err := UnmarshalNode(raw)
		if err != nil {
			return err
		}
		if err := b.AddChild(child); err != nil {
			return err
		}
	}
	return nil
}

type sceneWire struct {
	baseWire
}

type cameraWire struct {
	baseWire
	Type   CameraType `json:"type"`
	Zoom   float64    `json:"zoom"`
	Center Vec3       `json:"center"`
	Range  float64    `json:"range"`
}

type imageWire struct {
	baseWire
	Data          ImageData         `json:"data"`
	Colormap      string            `json:"cmap"`
	Clims         *Clims            `json:"clims,omitempty"`
	Gamma         float64           `json:"gamma"`
	Interpolation InterpolationMode `json:"interpolation"`
}

type pointsWire struct {
	baseWire
	Coords    []Vec3      `json:"coords"`
	Size      float64     `json:"size"`
	FaceColor Color       `json:"face_color"`
	EdgeColor Color       `json:"edge_color"`
	EdgeWidth float64     `json:"edge_width"`
	Symbol    Symbol      `json:"symbol"`
	Scaling   ScalingMode `json:"scaling"`
	Antialias float64     `json:"antialias"`
}

// MarshalJSON implements json.Marshaler.
func (s *Scene) MarshalJSON() ([]byte, error) {
	w, err := s.NodeBase.baseWire()
	if err != nil {
		return nil, err
	}
	return json.Marshal(sceneWire{baseWire: w})
}

// MarshalJSON implements json.Marshaler.
func (c *Camera) MarshalJSON() ([]byte, error) {
	w, err := c.NodeBase.baseWire()
	if err != nil {
		return nil, err
	}
	return json.Marshal(cameraWire{
		baseWire: w,
		Type:     c.cameraType,
		Zoom:     c.zoom,
		Center:   c.center,
		Range:    c.rangeMargin,
	})
}

// MarshalJSON implements json.Marshaler.
func (img *Image) MarshalJSON() ([]byte, error) {
	w, err := img.NodeBase.baseWire()
	if err != nil {
		return nil, err
	}
	return json.Marshal(imageWire{
		baseWire:      w,
		Data:          img.data,
		Colormap:      img.colormap,
		Clims:         img.clims,
		Gamma:         img.gamma,
		Interpolation: img.interpolation,
	})
}

// MarshalJSON implements json.Marshaler.
func (p *Points) MarshalJSON() ([]byte, error) {
	w, err := p.NodeBase.baseWire()
	if err != nil {
		return nil, err
	}
	return json.Marshal(pointsWire{
		baseWire:  w,
		Coords:    p.coords,
		Size:      p.size,
		FaceColor: p.faceColor,
		EdgeColor: p.edgeColor,
		EdgeWidth: p.edgeWidth,
		Symbol:    p.symbol,
		Scaling:   p.scaling,
		Antialias: p.antialias,
	})
}

// UnmarshalNode reconstructs a node subtree from JSON, dispatching on the
// "node_type" discriminator to the correct concrete type. Parent
// back-references are rebuilt from the children lists.
func UnmarshalNode(data []byte) (Node, error) {
	var probe struct {
		NodeType NodeKind `json:"node_type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode node: %w", err)
	}

	switch probe.NodeType {
	case KindScene:
		var w sceneWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("decode scene: %w", err)
		}
		s := NewScene()
		if err := applyBaseWire(&s.NodeBase, w.baseWire); err != nil {
			return nil, err
		}
		return s, nil

	case KindCamera:
		var w cameraWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("decode camera: %w", err)
		}
		c := NewCamera()
		if err := applyBaseWire(&c.NodeBase, w.baseWire); err != nil {
			return nil, err
		}
		c.cameraType = w.Type
		c.zoom = w.Zoom
		c.center = w.Center
		c.rangeMargin = w.Range
		return c, nil

	case KindImage:
		var w imageWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
		img := NewImage(w.Data)
		if err := applyBaseWire(&img.NodeBase, w.baseWire); err != nil {
			return nil, err
		}
		img.colormap = w.Colormap
		img.clims = w.Clims
		img.gamma = w.Gamma
		img.interpolation = w.Interpolation
		return img, nil

	case KindPoints:
		var w pointsWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("decode points: %w", err)
		}
		p := NewPoints(w.Coords)
		if err := applyBaseWire(&p.NodeBase, w.baseWire); err != nil {
			return nil, err
		}
		p.size = w.Size
		p.faceColor = w.FaceColor
		p.edgeColor = w.EdgeColor
		p.edgeWidth = w.EdgeWidth
		p.symbol = w.Symbol
		p.scaling = w.Scaling
		p.antialias = w.Antialias
		return p, nil

	default:
		return nil, fmt.Errorf("decode node: unknown node_type %q", probe.NodeType)
	}
}
