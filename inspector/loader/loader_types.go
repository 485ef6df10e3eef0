package loader

import (
	"github.com/Carmen-Shannon/oxy-loupe/inspector/glb"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/gltfjson"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/scene"
	"github.com/qmuntal/gltf"
)

// Format identifies the container a document was loaded from.
type Format int

const (
	// FormatGLB is the binary container used by .glb, .vrm and .vci files.
	FormatGLB Format = iota
	// FormatGLTF is plain JSON with external or data: URI buffers.
	FormatGLTF
)

// String returns "glb" or "gltf".
func (f Format) String() string {
	if f == FormatGLB {
		return "glb"
	}
	return "gltf"
}

// Document is a fully loaded asset. A Document is never modified after Load
// returns it and may be shared between goroutines.
type Document struct {
	// Name is the path or name the document was loaded under.
	Name string

	// Format is the detected container format.
	Format Format

	// Container is the parsed GLB container, nil for FormatGLTF.
	Container *glb.Container

	// JSON is the raw JSON document.
	JSON []byte

	// Tree is the order-preserving JSON value of JSON.
	Tree gltfjson.Value

	// GLTF is the typed view of JSON.
	GLTF *gltf.Document

	// Buffers holds one blob per entry of GLTF.Buffers. Each blob is exactly
	// byteLength bytes long.
	Buffers [][]byte

	// Hierarchy is the node tree with world transforms.
	Hierarchy *scene.Hierarchy
}
