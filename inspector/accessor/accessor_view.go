package accessor

import (
	"encoding/binary"
	"fmt"

	"github.com/Carmen-Shannon/oxy-loupe/common"
)

// View is a read-only typed window over accessor data.
// Elements are decoded from the underlying bytes on every read; the bytes are
// never copied, so a View stays valid only as long as its buffer is not mutated.
type View struct {
	index     int
	data      []byte
	count     int
	stride    int
	component Component
	shape     Shape
}

// newView builds a View after checking that every element lies inside data.
func newView(index int, data []byte, count, stride int, component Component, shape Shape) (*View, error) {
	elemSize := component.Size() * shape.Arity()
	if count < 0 {
		return nil, fmt.Errorf("%w: accessor %d: negative count %d", common.ErrDataIntegrity, index, count)
	}
	if stride < elemSize {
		return nil, fmt.Errorf("%w: accessor %d: byteStride %d is smaller than element size %d", common.ErrDataIntegrity, index, stride, elemSize)
	}
	if count > 0 {
		need := (count-1)*stride + elemSize
		if need > len(data) {
			return nil, fmt.Errorf("%w: accessor %d: needs %d bytes, bufferView window has %d", common.ErrDataIntegrity, index, need, len(data))
		}
	}
	return &View{
		index:     index,
		data:      data,
		count:     count,
		stride:    stride,
		component: component,
		shape:     shape,
	}, nil
}

// Index returns the accessor index the view was resolved from.
func (v *View) Index() int { return v.index }

// Len returns the number of elements (the accessor count).
func (v *View) Len() int { return v.count }

// Arity returns the number of components per element.
func (v *View) Arity() int { return v.shape.Arity() }

// Stride returns the distance in bytes between consecutive elements.
func (v *View) Stride() int { return v.stride }

// Component returns the numeric primitive of the view.
func (v *View) Component() Component { return v.component }

// Shape returns the element layout of the view.
func (v *View) Shape() Shape { return v.shape }

// Bytes returns the window the view reads from, starting at element 0.
func (v *View) Bytes() []byte { return v.data }

// Value returns component c of element i.
//
// Parameters:
//   - i: element index in [0, Len())
//   - c: component index in [0, Arity())
//
// Returns:
//   - float64: the component widened to float64
//   - error: error wrapping common.ErrIndexOutOfRange if i or c is out of range
func (v *View) Value(i, c int) (float64, error) {
	if i < 0 || i >= v.count {
		return 0, fmt.Errorf("%w: element %d of accessor %d (len %d)", common.ErrIndexOutOfRange, i, v.index, v.count)
	}
	if c < 0 || c >= v.shape.Arity() {
		return 0, fmt.Errorf("%w: component %d of %s", common.ErrIndexOutOfRange, c, v.shape)
	}
	return v.read(i*v.stride + c*v.component.Size()), nil
}

// At returns all components of element i.
func (v *View) At(i int) ([]float64, error) {
	if i < 0 || i >= v.count {
		return nil, fmt.Errorf("%w: element %d of accessor %d (len %d)", common.ErrIndexOutOfRange, i, v.index, v.count)
	}
	out := make([]float64, v.shape.Arity())
	v.decode(i, out)
	return out, nil
}

// Mat4At returns element i of a FLOAT MAT4 view as stored (column-major).
func (v *View) Mat4At(i int) ([16]float32, error) {
	var m [16]float32
	if v.shape != ShapeMat4 || v.component != ComponentFloat32 {
		return m, fmt.Errorf("%w: accessor %d is %s %s, not FLOAT MAT4", common.ErrUnsupportedFormat, v.index, v.component, v.shape)
	}
	if i < 0 || i >= v.count {
		return m, fmt.Errorf("%w: element %d of accessor %d (len %d)", common.ErrIndexOutOfRange, i, v.index, v.count)
	}
	base := i * v.stride
	for c := range m {
		m[c] = common.Float32LE(v.data, base+c*4)
	}
	return m, nil
}

// Each calls fn for every element in order until fn returns false.
// The slice passed to fn is reused between calls.
func (v *View) Each(fn func(i int, elem []float64) bool) {
	buf := make([]float64, v.shape.Arity())
	for i := 0; i < v.count; i++ {
		v.decode(i, buf)
		if !fn(i, buf) {
			return
		}
	}
}

func (v *View) decode(i int, out []float64) {
	base := i * v.stride
	size := v.component.Size()
	for c := range out {
		out[c] = v.read(base + c*size)
	}
}

func (v *View) read(off int) float64 {
	switch v.component {
	case ComponentUint8:
		return float64(v.data[off])
	case ComponentUint16:
		return float64(binary.LittleEndian.Uint16(v.data[off:]))
	case ComponentUint32:
		return float64(binary.LittleEndian.Uint32(v.data[off:]))
	default:
		return float64(common.Float32LE(v.data, off))
	}
}
