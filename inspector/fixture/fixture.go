// Package fixture builds small but complete skinned glTF assets in memory for tests.
//
// The asset has four nodes:
//
//	0 root  translation (1, 2, 3)        children [1, 3]
//	1 hips  translation (0, 1, 0)        children [2]   world (1, 3, 3)
//	2 spine translation (0, 0.5, 0)                     world (1, 3.5, 3)
//	3 body  mesh 0, skin 0
//
// Skin 0 binds joints [1, 2] through accessor 0 (FLOAT MAT4 x2). Mesh 0 has one
// triangle: POSITION is accessor 1 (FLOAT VEC3 x3) and indices are accessor 2
// (UNSIGNED_SHORT SCALAR x3).
package fixture

import (
	"github.com/Carmen-Shannon/oxy-loupe/common"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/glb"
)

// BINLength is the size of the BIN chunk, which is also buffer 0's byteLength.
const BINLength = 172

// JSON is the document of the skinned asset.
const JSON = `{
  "asset": {"version": "2.0", "generator": "oxy-loupe fixture"},
  "scene": 0,
  "scenes": [{"nodes": [0]}],
  "nodes": [
    {"name": "root", "translation": [1, 2, 3], "children": [1, 3]},
    {"name": "hips", "translation": [0, 1, 0], "children": [2]},
    {"name": "spine", "translation": [0, 0.5, 0]},
    {"name": "body", "mesh": 0, "skin": 0}
  ],
  "meshes": [{"name": "tri", "primitives": [{"attributes": {"POSITION": 1}, "indices": 2}]}],
  "skins": [{"name": "rig", "joints": [1, 2], "inverseBindMatrices": 0}],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 2, "type": "MAT4"},
    {"bufferView": 1, "componentType": 5126, "count": 3, "type": "VEC3"},
    {"bufferView": 2, "componentType": 5123, "count": 3, "type": "SCALAR"}
  ],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 128},
    {"buffer": 0, "byteOffset": 128, "byteLength": 36},
    {"buffer": 0, "byteOffset": 164, "byteLength": 6}
  ],
  "buffers": [{"byteLength": 172}]
}`

// JointWorld holds the world positions of the two skin joints.
var JointWorld = [2][3]float32{{1, 3, 3}, {1, 3.5, 3}}

// Positions holds the triangle vertices stored in accessor 1.
var Positions = [3][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}

// Indices holds the triangle indices stored in accessor 2.
var Indices = [3]uint16{0, 1, 2}

// Option adjusts the generated BIN chunk.
type Option func(*options)

type options struct {
	offsets map[int][3]float32
}

// WithTranslationError adds delta to the inverse-bind translation of joint i.
func WithTranslationError(joint int, delta [3]float32) Option {
	return func(o *options) {
		o.offsets[joint] = delta
	}
}

// BIN returns the binary buffer. By default each inverse-bind matrix is a pure
// translation by the negated joint world position.
func BIN(opts ...Option) []byte {
	o := &options{offsets: map[int][3]float32{}}
	for _, opt := range opts {
		opt(o)
	}

	bin := make([]byte, BINLength)
	for j, w := range JointWorld {
		d := o.offsets[j]
		m := [16]float32{
			1, 0, 0, 0,
			0, 1, 0, 0,
			0, 0, 1, 0,
			-w[0] + d[0], -w[1] + d[1], -w[2] + d[2], 1,
		}
		copy(bin[j*64:], common.Float32sToBytes(m[:]))
	}
	for v, p := range Positions {
		copy(bin[128+v*12:], common.Float32sToBytes(p[:]))
	}
	for i, idx := range Indices {
		bin[164+i*2] = byte(idx)
		bin[164+i*2+1] = byte(idx >> 8)
	}
	return bin
}

// GLB returns the asset packed as a GLB container.
func GLB(opts ...Option) []byte {
	return glb.Encode([]byte(JSON), BIN(opts...))
}
