package loader

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-loupe/common"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/accessor"
	"github.com/qmuntal/gltf"
)

var (
	errInvalidBufferURI = errors.New("invalid buffer URI")
	errMissingBuffer    = errors.New("buffer has no URI")
)

// loadBuffers loads every buffer of doc. For GLB documents, buffer 0 without a URI
// is the BIN chunk with its alignment padding removed.
func loadBuffers(doc *gltf.Document, baseDir string, bin []byte, isGLB bool) ([][]byte, error) {
	out := make([][]byte, len(doc.Buffers))
	for i := range doc.Buffers {
		buf := doc.Buffers[i]
		declared := int(buf.ByteLength)

		if buf.URI == "" {
			if i == 0 && isGLB && bin != nil {
				out[i] = accessor.TrimPadding(bin, declared)
				continue
			}
			return nil, fmt.Errorf("%w: buffer %d: %w", common.ErrDataIntegrity, i, errMissingBuffer)
		}

		data, err := loadBufferURI(baseDir, buf.URI)
		if err != nil {
			return nil, fmt.Errorf("buffer %d: %w", i, err)
		}
		out[i] = data
	}
	return out, nil
}

// loadBufferURI loads buffer data from a data: URI or a path relative to baseDir.
func loadBufferURI(baseDir, uri string) ([]byte, error) {
	if strings.HasPrefix(uri, "data:") {
		return loadDataURI(uri)
	}

	// URIs are percent-encoded; a failed unescape falls back to the raw text.
	path := uri
	if unescaped, err := url.PathUnescape(uri); err == nil {
		path = unescaped
	}

	data, err := os.ReadFile(filepath.Join(baseDir, filepath.FromSlash(path)))
	if err != nil {
		return nil, fmt.Errorf("failed to load buffer file %q: %w", uri, err)
	}
	return data, nil
}

// loadDataURI decodes a base64 data URI.
// Format: data:[<mediatype>][;base64],<data>
func loadDataURI(uri string) ([]byte, error) {
	commaIdx := strings.Index(uri, ",")
	if commaIdx < 0 {
		return nil, fmt.Errorf("%w: %w", common.ErrFormat, errInvalidBufferURI)
	}

	header := uri[5:commaIdx]
	if !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("%w: unsupported data URI encoding %q", common.ErrUnsupportedFormat, header)
	}

	data, err := base64.StdEncoding.DecodeString(uri[commaIdx+1:])
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode base64: %v", common.ErrFormat, err)
	}
	return data, nil
}
