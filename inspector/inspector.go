// Package inspector is the entry point for inspecting glTF assets. An Inspector
// holds the currently open document and answers selection, skin and accessor
// queries against it.
package inspector

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-loupe/inspector/accessor"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/loader"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/selection"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/skin"
)

// ErrNoDocument is returned by queries issued before a document was opened.
var ErrNoDocument = errors.New("no document loaded")

// inspector implements the Inspector interface.
// Open builds the complete document before it is swapped into current, so
// readers never observe a partially loaded document.
type inspector struct {
	current atomic.Pointer[loader.Document]

	loader    loader.Loader
	validator skin.Validator
	selector  selection.Selector
	logger    *slog.Logger

	onChange func(prev, next *loader.Document)
}

// Inspector opens documents and answers queries about the current one.
// It is safe for concurrent use; Open calls should come from a single goroutine.
type Inspector interface {
	// Open loads the file at path and makes it the current document.
	// On failure the previous document stays current.
	//
	// Parameters:
	//   - path: the file to open
	//
	// Returns:
	//   - *loader.Document: the newly opened document
	//   - error: error if loading fails
	Open(path string) (*loader.Document, error)

	// OpenBytes is Open for in-memory data.
	//
	// Parameters:
	//   - name: the file name the data came from
	//   - data: the file contents
	//
	// Returns:
	//   - *loader.Document: the newly opened document
	//   - error: error if loading fails
	OpenBytes(name string, data []byte) (*loader.Document, error)

	// Current returns the current document, or nil before the first successful open.
	//
	// Returns:
	//   - *loader.Document: the current document
	Current() *loader.Document

	// Select resolves a JSON path of the current document.
	//
	// Parameters:
	//   - path: a slash separated JSON path
	//
	// Returns:
	//   - selection.Result: the resolved panel
	//   - error: error if nothing is open or the path cannot be resolved
	Select(path string) (selection.Result, error)

	// SkinReport validates skin i of the current document.
	//
	// Parameters:
	//   - i: the skin index
	//
	// Returns:
	//   - *skin.Report: the validation report
	//   - error: error if nothing is open or the skin cannot be resolved
	SkinReport(i int) (*skin.Report, error)

	// AccessorTable renders accessor i of the current document.
	//
	// Parameters:
	//   - i: the accessor index
	//
	// Returns:
	//   - string: the summary line followed by the table
	//   - error: error if nothing is open or the accessor cannot be resolved
	AccessorTable(i int) (string, error)
}

var _ Inspector = &inspector{}

// NewInspector creates a new Inspector with the given options applied.
//
// Parameters:
//   - options: builder options
//
// Returns:
//   - Inspector: the newly created inspector with no document open
func NewInspector(options ...InspectorBuilderOption) Inspector {
	in := &inspector{
		logger:    slog.Default(),
		validator: skin.NewValidator(),
	}
	for _, opt := range options {
		opt(in)
	}
	if in.loader == nil {
		in.loader = loader.NewLoader(loader.WithLogger(in.logger))
	}
	if in.selector == nil {
		in.selector = selection.NewSelector(selection.WithValidator(in.validator))
	}
	return in
}

func (in *inspector) Open(path string) (*loader.Document, error) {
	return in.install(path, func() (*loader.Document, error) {
		return in.loader.Load(path)
	})
}

func (in *inspector) OpenBytes(name string, data []byte) (*loader.Document, error) {
	return in.install(name, func() (*loader.Document, error) {
		return in.loader.LoadBytes(name, data)
	})
}

// install stages a document with load and swaps it in on success.
func (in *inspector) install(name string, load func() (*loader.Document, error)) (*loader.Document, error) {
	next, err := load()
	if err != nil {
		attrs := []any{"path", name, "err", err}
		if prev := in.current.Load(); prev != nil {
			attrs = append(attrs, "kept", prev.Name)
		}
		in.logger.Error("open failed", attrs...)
		return nil, err
	}

	prev := in.current.Swap(next)
	in.logger.Info("document opened",
		"path", next.Name,
		"format", next.Format.String(),
		"json_bytes", len(next.JSON),
		"skins", len(next.GLTF.Skins),
		"accessors", len(next.GLTF.Accessors),
	)
	if in.onChange != nil {
		in.onChange(prev, next)
	}
	return next, nil
}

func (in *inspector) Current() *loader.Document {
	return in.current.Load()
}

func (in *inspector) Select(path string) (selection.Result, error) {
	doc := in.current.Load()
	if doc == nil {
		return selection.Result{}, ErrNoDocument
	}
	return in.selector.Select(doc, path)
}

func (in *inspector) SkinReport(i int) (*skin.Report, error) {
	doc := in.current.Load()
	if doc == nil {
		return nil, ErrNoDocument
	}
	return in.validator.Validate(doc.GLTF, doc.Buffers, doc.Hierarchy, i)
}

func (in *inspector) AccessorTable(i int) (string, error) {
	doc := in.current.Load()
	if doc == nil {
		return "", ErrNoDocument
	}
	v, err := accessor.Resolve(doc.GLTF, doc.Buffers, i)
	if err != nil {
		return "", fmt.Errorf("%s: %w", doc.Name, err)
	}
	return accessor.Describe(v) + "\n" + accessor.Table(v), nil
}
