// Package loader turns .glb, .vrm, .vci and .gltf files into immutable Documents.
package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-loupe/common"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/glb"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/gltfjson"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/profiler"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/scene"
	"github.com/qmuntal/gltf"
)

// glbExtensions are the file extensions that always select the GLB container reader.
var glbExtensions = map[string]bool{
	".glb": true,
	".vrm": true,
	".vci": true,
}

// loader is the implementation of the Loader interface.
type loader struct {
	readerOptions []glb.ReaderBuilderOption
	reader        glb.Reader
	logger        *slog.Logger
	profiler      *profiler.Profiler
}

// Loader loads documents. Implementations hold no per-document state, so one
// Loader may serve concurrent loads.
type Loader interface {
	// Load reads and decodes the file at path.
	// Relative buffer URIs resolve against the file's directory.
	//
	// Parameters:
	//   - path: the file to load
	//
	// Returns:
	//   - *Document: the loaded document
	//   - error: error if reading or decoding fails; no Document is returned on error
	Load(path string) (*Document, error)

	// LoadBytes decodes an in-memory file. The name selects the format by its
	// extension and anchors relative buffer URIs at its directory.
	//
	// Parameters:
	//   - name: the file name the data came from
	//   - data: the file contents; GLB documents keep sub-slices of it
	//
	// Returns:
	//   - *Document: the loaded document
	//   - error: error if decoding fails
	LoadBytes(name string, data []byte) (*Document, error)

	// LoadReader reads r to the end and decodes it like LoadBytes.
	//
	// Parameters:
	//   - name: the file name the data came from
	//   - r: the source of the file contents
	//
	// Returns:
	//   - *Document: the loaded document
	//   - error: error if reading or decoding fails
	LoadReader(name string, r io.Reader) (*Document, error)
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the given options applied.
//
// Parameters:
//   - options: builder options
//
// Returns:
//   - Loader: the newly created loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		logger: slog.Default(),
	}
	for _, opt := range options {
		opt(l)
	}
	l.reader = glb.NewReader(l.readerOptions...)
	return l
}

// DetectFormat reports the container format of a file from its name and leading bytes.
//
// Parameters:
//   - name: the file name
//   - data: the file contents
//
// Returns:
//   - Format: FormatGLB for a GLB extension or magic, FormatGLTF otherwise
func DetectFormat(name string, data []byte) Format {
	if glbExtensions[strings.ToLower(filepath.Ext(name))] || glb.IsGLB(data) {
		return FormatGLB
	}
	return FormatGLTF
}

func (l *loader) Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	return l.LoadBytes(path, data)
}

func (l *loader) LoadReader(name string, r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", name, err)
	}
	return l.LoadBytes(name, data)
}

func (l *loader) LoadBytes(name string, data []byte) (*Document, error) {
	span := l.profiler.Start(name)

	doc := &Document{Name: name, Format: DetectFormat(name, data)}
	var bin []byte
	switch doc.Format {
	case FormatGLB:
		c, err := l.reader.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		doc.Container = c
		doc.JSON = c.JSON
		bin = c.BIN
	default:
		doc.JSON = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	}

	tree, err := gltfjson.Parse(doc.JSON)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if tree.Kind() != gltfjson.Object {
		return nil, fmt.Errorf("%w: %s: document is %s, not object", common.ErrFormat, name, tree.Kind())
	}
	doc.Tree = tree

	typed := new(gltf.Document)
	if err := json.Unmarshal(doc.JSON, typed); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrFormat, name, err)
	}
	doc.GLTF = typed

	doc.Buffers, err = loadBuffers(typed, filepath.Dir(name), bin, doc.Format == FormatGLB)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	doc.Hierarchy, err = scene.Build(tree)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	span.End("format", doc.Format.String(), "bytes", len(data))
	l.logger.Debug("document loaded",
		"path", name,
		"format", doc.Format.String(),
		"bytes", len(data),
		"nodes", doc.Hierarchy.Len(),
		"buffers", len(doc.Buffers),
	)
	return doc, nil
}
