// Package selection routes a JSON path of a loaded document to the panel that
// explains it: a skin report, an accessor table, a node summary, or the
// pretty-printed JSON of the selected value.
package selection

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-loupe/common"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/accessor"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/gltfjson"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/loader"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/scene"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/skin"
)

// Kind is the panel a selection resolved to.
type Kind int

const (
	// KindJSON shows the selected value as pretty JSON.
	KindJSON Kind = iota
	// KindSkin shows a skin validation report.
	KindSkin
	// KindAccessor shows a decoded accessor table.
	KindAccessor
	// KindNode shows a node's transforms.
	KindNode
)

// String returns the lower-case panel name.
func (k Kind) String() string {
	switch k {
	case KindSkin:
		return "skin"
	case KindAccessor:
		return "accessor"
	case KindNode:
		return "node"
	default:
		return "json"
	}
}

// Result is a resolved selection. Exactly one of Skin, Accessor and Node is set
// for the matching Kind; Value always holds the selected JSON value.
type Result struct {
	Path     gltfjson.Path
	Kind     Kind
	Value    gltfjson.Value
	Skin     *skin.Report
	Accessor *accessor.View
	Node     *scene.Node
	Text     string
}

// Selector resolves paths against documents.
type Selector interface {
	// Select resolves path against doc.
	//
	// Parameters:
	//   - doc: the loaded document
	//   - path: a slash separated JSON path, e.g. "/skins/0"
	//
	// Returns:
	//   - Result: the resolved panel with its rendered text
	//   - error: error if the path does not exist or its target cannot be decoded
	Select(doc *loader.Document, path string) (Result, error)
}

type selector struct {
	validator skin.Validator
}

var _ Selector = &selector{}

// NewSelector creates a Selector with the given options applied.
func NewSelector(options ...SelectorBuilderOption) Selector {
	s := &selector{validator: skin.NewValidator()}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Select resolves path with a default Selector.
func Select(doc *loader.Document, path string) (Result, error) {
	return NewSelector().Select(doc, path)
}

func (s *selector) Select(doc *loader.Document, raw string) (Result, error) {
	if doc == nil {
		return Result{}, fmt.Errorf("%w: no document loaded", common.ErrDataIntegrity)
	}
	p := gltfjson.ParsePath(raw)
	v, err := gltfjson.Lookup(doc.Tree, p)
	if err != nil {
		return Result{}, err
	}
	res := Result{Path: p, Value: v}

	switch {
	case matches(p, "skins", "#", "inverseBindMatrices"):
		err = s.accessorAt(doc, &res, v)
	case len(p) >= 2 && matches(p[:2], "skins", "#"):
		i, _ := p.IndexAt(1)
		err = s.skinAt(doc, &res, i)
	case len(p) >= 2 && matches(p[:2], "accessors", "#"):
		i, _ := p.IndexAt(1)
		err = s.accessorIndex(doc, &res, i)
	case matches(p, "meshes", "#", "primitives", "#", "indices"),
		matches(p, "meshes", "#", "primitives", "#", "attributes", "*"),
		matches(p, "meshes", "#", "primitives", "#", "targets", "#", "*"):
		err = s.accessorAt(doc, &res, v)
	case matches(p, "nodes", "#"):
		i, _ := p.IndexAt(1)
		err = s.nodeAt(doc, &res, i)
	default:
		res.Kind = KindJSON
		res.Text = p.String() + "\n" + gltfjson.Pretty(v)
	}
	if err != nil {
		return Result{}, fmt.Errorf("select %s: %w", p, err)
	}
	return res, nil
}

// matches compares p segment-wise with pattern, where "#" matches an array
// index and "*" matches any key.
func matches(p gltfjson.Path, pattern ...string) bool {
	if len(p) != len(pattern) {
		return false
	}
	for i, want := range pattern {
		switch want {
		case "#":
			if _, ok := p.IndexAt(i); !ok {
				return false
			}
		case "*":
		default:
			if p[i] != want {
				return false
			}
		}
	}
	return true
}

func (s *selector) skinAt(doc *loader.Document, res *Result, i int) error {
	r, err := s.validator.Validate(doc.GLTF, doc.Buffers, doc.Hierarchy, i)
	if err != nil {
		return err
	}
	res.Kind = KindSkin
	res.Skin = r
	res.Text = r.String()
	return nil
}

// accessorAt resolves a path whose value is an accessor index.
func (s *selector) accessorAt(doc *loader.Document, res *Result, v gltfjson.Value) error {
	i, ok := v.Int()
	if !ok {
		return fmt.Errorf("%w: %s is not an accessor index", common.ErrDataIntegrity, gltfjson.Pretty(v))
	}
	return s.accessorIndex(doc, res, int(i))
}

func (s *selector) accessorIndex(doc *loader.Document, res *Result, i int) error {
	view, err := accessor.Resolve(doc.GLTF, doc.Buffers, i)
	if err != nil {
		return err
	}
	res.Kind = KindAccessor
	res.Accessor = view
	res.Text = accessor.Describe(view) + "\n" + accessor.Table(view)
	return nil
}

func (s *selector) nodeAt(doc *loader.Document, res *Result, i int) error {
	n, err := doc.Hierarchy.Node(i)
	if err != nil {
		return err
	}
	res.Kind = KindNode
	res.Node = n
	res.Text = NodeSummary(n)
	return nil
}

// NodeSummary renders a node's place in the hierarchy and its transforms.
func NodeSummary(n *scene.Node) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%d:%s] parent %d, depth %d, children %v\n", n.Index, n.Name, n.Parent, n.Depth, n.Children)
	l, w := n.Local.Col(3), n.World.Col(3)
	fmt.Fprintf(&sb, "local (%.3f, %.3f, %.3f)\n", l[0], l[1], l[2])
	fmt.Fprintf(&sb, "world (%.3f, %.3f, %.3f)\n", w[0], w[1], w[2])
	return sb.String()
}
