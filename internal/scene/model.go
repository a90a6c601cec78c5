package scene

import (
	"github.com/google/uuid"

	"github.com/Faultbox/animscene/internal/animation"
)

// Model is a loaded character: a node tree plus the clips embedded in it.
type Model struct {
	ID    uuid.UUID
	Name  string
	Root  *Node
	Clips []*animation.Clip
}

// NewModel wraps root with a fresh identity.
func NewModel(name string, root *Node, clips []*animation.Clip) *Model {
	return &Model{ID: uuid.New(), Name: name, Root: root, Clips: clips}
}

// Rig implements animation.Character.
func (m *Model) Rig() animation.Rig {
	if m.Root == nil {
		return nil
	}
	return m.Root
}

// Animations implements animation.Character.
func (m *Model) Animations() []*animation.Clip { return m.Clips }

// Meshes returns every mesh-bearing node under the root.
func (m *Model) Meshes() []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Mesh != nil {
			out = append(out, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	if m.Root != nil {
		walk(m.Root)
	}
	return out
}
