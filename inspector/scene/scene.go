// Package scene builds the node hierarchy of a glTF document and computes each
// node's world transform in a single top-down pass from the root nodes.
package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-loupe/common"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/gltfjson"
	"github.com/go-gl/mathgl/mgl32"
)

// Node is a resolved glTF node with its composed transforms.
type Node struct {
	// Index is the node's position in the document's nodes array.
	Index int

	// Name is the node name, empty when the document gives none.
	Name string

	// Parent is the index of the parent node, or -1 for a root.
	Parent int

	// Children are the indices of the child nodes in document order.
	Children []int

	// Depth is the number of ancestors.
	Depth int

	// Local is matrix * T * R * S of the node (column-major).
	Local mgl32.Mat4

	// World is the parent's World composed with Local.
	World mgl32.Mat4
}

// Hierarchy is the immutable node tree of a document.
type Hierarchy struct {
	nodes []Node
	roots []int
}

// Build resolves the "nodes" array of a glTF document into a Hierarchy.
// Roots are the nodes that are nobody's child, so nodes outside every scene
// still receive a world transform.
//
// Parameters:
//   - root: the document's JSON tree
//
// Returns:
//   - *Hierarchy: the resolved hierarchy
//   - error: error wrapping common.ErrIndexOutOfRange for a dangling child index,
//     or common.ErrDataIntegrity for malformed transforms, shared children and cycles
func Build(root gltfjson.Value) (*Hierarchy, error) {
	src, _ := root.Field("nodes")
	if !src.IsNull() && src.Kind() != gltfjson.Array {
		return nil, fmt.Errorf("%w: nodes is %s, not array", common.ErrDataIntegrity, src.Kind())
	}

	h := &Hierarchy{nodes: make([]Node, src.Len())}
	for i := range h.nodes {
		h.nodes[i].Parent = -1
	}

	for i, raw := range src.Elements() {
		n := &h.nodes[i]
		n.Index = i
		if name, ok := raw.Field("name"); ok {
			n.Name, _ = name.Str()
		}

		local, err := localTransform(raw)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		n.Local = local

		children, _ := raw.Field("children")
		for _, c := range children.Elements() {
			ci, ok := c.Int()
			if !ok {
				return nil, fmt.Errorf("%w: node %d: child %s is not an integer", common.ErrDataIntegrity, i, gltfjson.Pretty(c))
			}
			child := int(ci)
			if child < 0 || child >= len(h.nodes) {
				return nil, fmt.Errorf("%w: node %d: child %d (document has %d nodes)", common.ErrIndexOutOfRange, i, child, len(h.nodes))
			}
			if child == i {
				return nil, fmt.Errorf("%w: node %d is its own child", common.ErrDataIntegrity, i)
			}
			if p := h.nodes[child].Parent; p >= 0 {
				return nil, fmt.Errorf("%w: node %d has parents %d and %d", common.ErrDataIntegrity, child, p, i)
			}
			h.nodes[child].Parent = i
			n.Children = append(n.Children, child)
		}
	}

	for i := range h.nodes {
		if h.nodes[i].Parent < 0 {
			h.roots = append(h.roots, i)
		}
	}

	visited := 0
	queue := append([]int(nil), h.roots...)
	for _, r := range h.roots {
		h.nodes[r].World = h.nodes[r].Local
	}
	for len(queue) > 0 {
		cur := &h.nodes[queue[0]]
		queue = queue[1:]
		visited++
		for _, c := range cur.Children {
			child := &h.nodes[c]
			child.Depth = cur.Depth + 1
			child.World = cur.World.Mul4(child.Local)
			queue = append(queue, c)
		}
	}
	if visited != len(h.nodes) {
		return nil, fmt.Errorf("%w: %d nodes form a cycle unreachable from any root", common.ErrDataIntegrity, len(h.nodes)-visited)
	}

	return h, nil
}

// localTransform composes matrix * T * R * S from the node's optional fields.
func localTransform(raw gltfjson.Value) (mgl32.Mat4, error) {
	m := mgl32.Ident4()
	if v, ok := raw.Field("matrix"); ok {
		f, err := floats(v, 16, "matrix")
		if err != nil {
			return m, err
		}
		copy(m[:], f)
	}

	t := mgl32.Ident4()
	if v, ok := raw.Field("translation"); ok {
		f, err := floats(v, 3, "translation")
		if err != nil {
			return m, err
		}
		t = mgl32.Translate3D(f[0], f[1], f[2])
	}

	r := mgl32.Ident4()
	if v, ok := raw.Field("rotation"); ok {
		f, err := floats(v, 4, "rotation")
		if err != nil {
			return m, err
		}
		// glTF stores quaternions as (x, y, z, w).
		r = mgl32.Quat{W: f[3], V: mgl32.Vec3{f[0], f[1], f[2]}}.Mat4()
	}

	s := mgl32.Ident4()
	if v, ok := raw.Field("scale"); ok {
		f, err := floats(v, 3, "scale")
		if err != nil {
			return m, err
		}
		s = mgl32.Scale3D(f[0], f[1], f[2])
	}

	return m.Mul4(t).Mul4(r).Mul4(s), nil
}

func floats(v gltfjson.Value, n int, field string) ([]float32, error) {
	if v.Kind() != gltfjson.Array || v.Len() != n {
		return nil, fmt.Errorf("%w: %s must be an array of %d numbers", common.ErrDataIntegrity, field, n)
	}
	out := make([]float32, n)
	for i, e := range v.Elements() {
		f, ok := e.Float()
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] is %s", common.ErrDataIntegrity, field, i, e.Kind())
		}
		out[i] = float32(f)
	}
	return out, nil
}

// Len returns the number of nodes.
func (h *Hierarchy) Len() int { return len(h.nodes) }

// Roots returns the indices of the parentless nodes in document order.
func (h *Hierarchy) Roots() []int { return append([]int(nil), h.roots...) }

// Node returns node i.
func (h *Hierarchy) Node(i int) (*Node, error) {
	if i < 0 || i >= len(h.nodes) {
		return nil, fmt.Errorf("%w: node %d (document has %d)", common.ErrIndexOutOfRange, i, len(h.nodes))
	}
	return &h.nodes[i], nil
}

// WorldPosition returns the translation column of node i's world transform.
func (h *Hierarchy) WorldPosition(i int) (mgl32.Vec3, error) {
	n, err := h.Node(i)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	return n.World.Col(3).Vec3(), nil
}

// Walk visits every node depth first, roots in document order, children in
// declaration order. Returning false from fn skips the node's subtree.
func (h *Hierarchy) Walk(fn func(n *Node) bool) {
	var visit func(i int)
	visit = func(i int) {
		n := &h.nodes[i]
		if !fn(n) {
			return
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	for _, r := range h.roots {
		visit(r)
	}
}
