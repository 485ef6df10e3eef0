package accessor

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-loupe/common"
	"github.com/qmuntal/gltf"
)

// Resolve follows accessors[index] -> bufferView -> buffer and returns a typed
// view over the matching blob in buffers.
// The blob must be exactly as long as the buffer's declared byteLength.
//
// Parameters:
//   - doc: the typed glTF document
//   - buffers: loaded buffer blobs, indexed like doc.Buffers
//   - index: the accessor index
//
// Returns:
//   - *View: the resolved view
//   - error: error wrapping common.ErrIndexOutOfRange, common.ErrDataIntegrity or
//     common.ErrUnsupportedFormat; no view is returned on error
func Resolve(doc *gltf.Document, buffers [][]byte, index int) (*View, error) {
	if doc == nil {
		return nil, errors.New("no document loaded")
	}
	if index < 0 || index >= len(doc.Accessors) {
		return nil, fmt.Errorf("%w: accessor %d (document has %d)", common.ErrIndexOutOfRange, index, len(doc.Accessors))
	}
	acc := doc.Accessors[index]

	if acc.Sparse != nil {
		return nil, fmt.Errorf("%w: accessor %d is sparse", common.ErrUnsupportedFormat, index)
	}
	if acc.BufferView == nil {
		return nil, fmt.Errorf("%w: accessor %d has no bufferView", common.ErrUnsupportedFormat, index)
	}

	component, err := componentOf(acc.ComponentType)
	if err != nil {
		return nil, fmt.Errorf("accessor %d: %w", index, err)
	}
	shape, err := shapeOf(acc.Type)
	if err != nil {
		return nil, fmt.Errorf("accessor %d: %w", index, err)
	}

	bvIndex := int(*acc.BufferView)
	if bvIndex < 0 || bvIndex >= len(doc.BufferViews) {
		return nil, fmt.Errorf("%w: accessor %d: bufferView %d (document has %d)", common.ErrIndexOutOfRange, index, bvIndex, len(doc.BufferViews))
	}
	bv := doc.BufferViews[bvIndex]

	bufIndex := int(bv.Buffer)
	if bufIndex < 0 || bufIndex >= len(doc.Buffers) {
		return nil, fmt.Errorf("%w: bufferView %d: buffer %d (document has %d)", common.ErrIndexOutOfRange, bvIndex, bufIndex, len(doc.Buffers))
	}
	if bufIndex >= len(buffers) {
		return nil, fmt.Errorf("%w: buffer %d is not loaded (%d loaded)", common.ErrIndexOutOfRange, bufIndex, len(buffers))
	}
	blob := buffers[bufIndex]
	if declared := int(doc.Buffers[bufIndex].ByteLength); declared != len(blob) {
		return nil, fmt.Errorf("%w: buffer %d declares byteLength %d, loaded %d bytes", common.ErrDataIntegrity, bufIndex, declared, len(blob))
	}

	offset, length := int(bv.ByteOffset), int(bv.ByteLength)
	if offset < 0 || length < 0 || offset+length > len(blob) {
		return nil, fmt.Errorf("%w: bufferView %d [%d, %d) exceeds buffer %d of %d bytes", common.ErrDataIntegrity, bvIndex, offset, offset+length, bufIndex, len(blob))
	}
	window := blob[offset : offset+length : offset+length]

	start := int(acc.ByteOffset)
	if start < 0 || start > len(window) {
		return nil, fmt.Errorf("%w: accessor %d: byteOffset %d exceeds bufferView %d of %d bytes", common.ErrDataIntegrity, index, start, bvIndex, len(window))
	}

	stride := int(bv.ByteStride)
	if stride == 0 {
		stride = component.Size() * shape.Arity()
	}

	return newView(index, window[start:], int(acc.Count), stride, component, shape)
}

// ResolveGLB resolves an accessor of a GLB document, where buffer 0 is the BIN chunk.
// Up to three bytes of chunk padding past buffer 0's byteLength are ignored.
func ResolveGLB(doc *gltf.Document, bin []byte, index int) (*View, error) {
	if doc != nil && len(doc.Buffers) > 0 {
		bin = TrimPadding(bin, int(doc.Buffers[0].ByteLength))
	}
	return Resolve(doc, [][]byte{bin}, index)
}

// TrimPadding cuts a BIN chunk down to the declared byteLength when the excess
// is alignment padding. Any other length is returned unchanged.
func TrimPadding(bin []byte, byteLength int) []byte {
	if byteLength >= 0 && len(bin) > byteLength && len(bin)-byteLength < 4 {
		return bin[:byteLength:byteLength]
	}
	return bin
}
