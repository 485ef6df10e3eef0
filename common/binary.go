package common

import (
	"encoding/binary"
	"math"
)

// Float32LE decodes the little-endian float32 stored at b[off:off+4].
// The caller is responsible for bounds checking.
//
// Parameters:
//   - b: source bytes
//   - off: byte offset of the value
//
// Returns:
//   - float32: the decoded value
func Float32LE(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off : off+4]))
}

// PutFloat32LE encodes v as a little-endian float32 into b[off:off+4].
//
// Parameters:
//   - b: destination bytes
//   - off: byte offset of the value
//   - v: the value to encode
func PutFloat32LE(b []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(b[off:off+4], math.Float32bits(v))
}

// Float32sToBytes packs values as consecutive little-endian float32s.
//
// Parameters:
//   - values: the values to pack
//
// Returns:
//   - []byte: a new slice of len(values)*4 bytes
func Float32sToBytes(values []float32) []byte {
	out := make([]byte, len(values)*4)
	for i, v := range values {
		PutFloat32LE(out, i*4, v)
	}
	return out
}

// Align4 rounds n up to the next multiple of four.
func Align4(n int) int {
	return (n + 3) &^ 3
}
