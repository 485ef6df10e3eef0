// Package skin cross-checks the inverse-bind matrices of a skin against the
// world transforms of its joint nodes.
package skin

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-loupe/common"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/accessor"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/scene"
	"github.com/chewxy/math32"
	"github.com/qmuntal/gltf"
)

// DefaultTolerance is the largest accepted |M.a + W.a| on any axis.
const DefaultTolerance float32 = 1e-5

// Validator checks skins of a document.
type Validator interface {
	// Validate pairs each joint of skin skinIndex with its inverse-bind matrix.
	//
	// Parameters:
	//   - doc: the typed glTF document
	//   - buffers: the loaded buffer blobs, indexed like doc.Buffers
	//   - h: the node hierarchy with world transforms
	//   - skinIndex: the skin to validate
	//
	// Returns:
	//   - *Report: one entry per joint in joint order
	//   - error: error if the skin cannot be resolved
	Validate(doc *gltf.Document, buffers [][]byte, h *scene.Hierarchy, skinIndex int) (*Report, error)

	// Tolerance returns the per-axis tolerance in use.
	Tolerance() float32
}

type validator struct {
	tolerance float32
}

var _ Validator = &validator{}

// NewValidator creates a Validator with the given options applied over the defaults.
func NewValidator(options ...ValidatorBuilderOption) Validator {
	v := &validator{tolerance: DefaultTolerance}
	for _, opt := range options {
		opt(v)
	}
	return v
}

// Validate runs a default Validator.
func Validate(doc *gltf.Document, buffers [][]byte, h *scene.Hierarchy, skinIndex int) (*Report, error) {
	return NewValidator().Validate(doc, buffers, h, skinIndex)
}

func (v *validator) Tolerance() float32 { return v.tolerance }

func (v *validator) Validate(doc *gltf.Document, buffers [][]byte, h *scene.Hierarchy, skinIndex int) (*Report, error) {
	if doc == nil || h == nil {
		return nil, fmt.Errorf("%w: no document", common.ErrDataIntegrity)
	}
	if skinIndex < 0 || skinIndex >= len(doc.Skins) {
		return nil, fmt.Errorf("%w: skin %d (document has %d)", common.ErrIndexOutOfRange, skinIndex, len(doc.Skins))
	}
	s := doc.Skins[skinIndex]
	if s.InverseBindMatrices == nil {
		return nil, fmt.Errorf("%w: skin %d has no inverseBindMatrices", common.ErrUnsupportedFormat, skinIndex)
	}

	matrices, err := accessor.Resolve(doc, buffers, int(*s.InverseBindMatrices))
	if err != nil {
		return nil, fmt.Errorf("skin %d: %w", skinIndex, err)
	}
	if matrices.Len() != len(s.Joints) {
		return nil, fmt.Errorf("%w: skin %d has %d joints but %d inverse-bind matrices",
			common.ErrDataIntegrity, skinIndex, len(s.Joints), matrices.Len())
	}

	report := &Report{Skin: skinIndex, Name: s.Name, Tolerance: v.tolerance}
	for i, j := range s.Joints {
		joint := int(j)
		node, err := h.Node(joint)
		if err != nil {
			return nil, fmt.Errorf("skin %d joint %d: %w", skinIndex, i, err)
		}
		m, err := matrices.Mat4At(i)
		if err != nil {
			return nil, fmt.Errorf("skin %d: %w", skinIndex, err)
		}

		e := Joint{
			Node:        joint,
			Name:        node.Name,
			Translation: [3]float32{m[12], m[13], m[14]},
			World:       [3]float32{node.World[12], node.World[13], node.World[14]},
		}
		for a := range 3 {
			e.Mismatch[a] = math32.Abs(e.Translation[a]+e.World[a]) > v.tolerance
		}
		report.Joints = append(report.Joints, e)
	}
	return report, nil
}

// Joint is the check result of one skin joint.
type Joint struct {
	// Node is the joint's node index.
	Node int

	// Name is the joint node's name.
	Name string

	// Translation is elements 12..14 of the inverse-bind matrix.
	Translation [3]float32

	// World is the world position of the joint node.
	World [3]float32

	// Mismatch flags the X, Y and Z axes that exceed the tolerance.
	Mismatch [3]bool
}

// Marker returns the mismatching axes as letters, e.g. "Y" or "XZ".
func (j Joint) Marker() string {
	var sb strings.Builder
	for a, axis := range "XYZ" {
		if j.Mismatch[a] {
			sb.WriteRune(axis)
		}
	}
	return sb.String()
}

// OK reports whether no axis mismatches.
func (j Joint) OK() bool { return j.Marker() == "" }

// Line formats the joint as "[node:name] (mx, my, mz), (wx, wy, wz)XYZ".
func (j Joint) Line() string {
	return fmt.Sprintf("[%d:%s] %s, %s%s", j.Node, j.Name, tuple3(j.Translation), tuple3(j.World), j.Marker())
}

func tuple3(v [3]float32) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v[0], v[1], v[2])
}

// Report is the result of validating one skin.
type Report struct {
	Skin      int
	Name      string
	Tolerance float32
	Joints    []Joint
}

// Mismatches returns the number of joints with at least one flagged axis.
func (r *Report) Mismatches() int {
	n := 0
	for _, j := range r.Joints {
		if !j.OK() {
			n++
		}
	}
	return n
}

// String renders one line per joint, each terminated by a newline.
func (r *Report) String() string {
	var sb strings.Builder
	for _, j := range r.Joints {
		sb.WriteString(j.Line())
		sb.WriteByte('\n')
	}
	return sb.String()
}
