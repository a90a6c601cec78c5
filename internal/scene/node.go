// Package scene holds the node tree, camera, lights and environment of the
// rendered scene.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/animscene/internal/animation"
)

// Node is a transform in the scene tree. It may carry a mesh and a skin.
type Node struct {
	Name        string
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3

	Children []*Node
	Mesh     *Mesh
	Skin     *Skin

	parent *Node
}

// NewNode creates a node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// AddChild appends c to n's children.
func (n *Node) AddChild(c *Node) {
	c.parent = n
	n.Children = append(n.Children, c)
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// LocalMatrix returns T * R * S.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	t := mgl32.Translate3D(n.Translation.X(), n.Translation.Y(), n.Translation.Z())
	r := n.Rotation.Mat4()
	s := mgl32.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z())
	return t.Mul4(r).Mul4(s)
}

func (n *Node) SetTranslation(v mgl32.Vec3) { n.Translation = v }
func (n *Node) SetRotation(q mgl32.Quat)    { n.Rotation = q }
func (n *Node) SetScale(v mgl32.Vec3)       { n.Scale = v }

// Find returns the first node named name in pre-order, or nil.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// Joint implements animation.Rig.
func (n *Node) Joint(name string) animation.Joint {
	if found := n.Find(name); found != nil {
		return found
	}
	return nil
}

// Visit walks the tree rooted at root in pre-order, passing each node's
// world matrix. Returning false from fn skips the node's children.
func Visit(root *Node, parent mgl32.Mat4, fn func(n *Node, world mgl32.Mat4) bool) {
	if root == nil {
		return
	}
	world := parent.Mul4(root.LocalMatrix())
	if !fn(root, world) {
		return
	}
	for _, c := range root.Children {
		Visit(c, world, fn)
	}
}

// Skin links a mesh to joint nodes.
type Skin struct {
	Joints      []*Node
	InverseBind []mgl32.Mat4
}

// JointMatrices returns jointWorld * inverseBind for every joint. world maps a
// node to its world matrix; joints missing from it use their local matrix.
func (s *Skin) JointMatrices(world map[*Node]mgl32.Mat4) []mgl32.Mat4 {
	out := make([]mgl32.Mat4, len(s.Joints))
	for i, j := range s.Joints {
		m, ok := world[j]
		if !ok {
			m = j.LocalMatrix()
		}
		ibm := mgl32.Ident4()
		if i < len(s.InverseBind) {
			ibm = s.InverseBind[i]
		}
		out[i] = m.Mul4(ibm)
	}
	return out
}
