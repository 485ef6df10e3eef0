package glb

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/Carmen-Shannon/oxy-loupe/common"
)

// Encode builds a GLB container from a JSON payload and an optional BIN payload.
// A nil bin omits the BIN chunk. Payloads are padded to 4-byte alignment, JSON
// with spaces and BIN with zeros, so aligned payloads round-trip byte for byte
// through Parse.
//
// Parameters:
//   - jsonChunk: the JSON chunk payload
//   - bin: the BIN chunk payload, or nil
//
// Returns:
//   - []byte: the encoded container
func Encode(jsonChunk, bin []byte) []byte {
	chunks := []Chunk{{Type: ChunkJSON, Data: jsonChunk}}
	if bin != nil {
		chunks = append(chunks, Chunk{Type: ChunkBIN, Data: bin})
	}
	return EncodeChunks(chunks...)
}

// EncodeChunks builds a GLB container from an arbitrary chunk sequence, in order.
func EncodeChunks(chunks ...Chunk) []byte {
	var buf bytes.Buffer
	_, _ = WriteChunks(&buf, chunks...)
	return buf.Bytes()
}

// Write encodes a container with Encode's layout directly to w.
//
// Parameters:
//   - w: the destination
//   - jsonChunk: the JSON chunk payload
//   - bin: the BIN chunk payload, or nil
//
// Returns:
//   - int64: bytes written
//   - error: the first write error
func Write(w io.Writer, jsonChunk, bin []byte) (int64, error) {
	chunks := []Chunk{{Type: ChunkJSON, Data: jsonChunk}}
	if bin != nil {
		chunks = append(chunks, Chunk{Type: ChunkBIN, Data: bin})
	}
	return WriteChunks(w, chunks...)
}

// WriteChunks writes the header followed by each chunk, padded to 4 bytes.
func WriteChunks(w io.Writer, chunks ...Chunk) (int64, error) {
	total := HeaderSize
	for _, c := range chunks {
		total += ChunkHeaderSize + common.Align4(len(c.Data))
	}

	var written int64
	put := func(b []byte) error {
		n, err := w.Write(b)
		written += int64(n)
		return err
	}

	header := make([]byte, HeaderSize)
	copy(header[0:4], magic[:])
	binary.LittleEndian.PutUint32(header[4:8], Version)
	binary.LittleEndian.PutUint32(header[8:12], uint32(total))
	if err := put(header); err != nil {
		return written, err
	}

	for _, c := range chunks {
		padded := common.Align4(len(c.Data))
		var ch [ChunkHeaderSize]byte
		binary.LittleEndian.PutUint32(ch[0:4], uint32(padded))
		binary.LittleEndian.PutUint32(ch[4:8], uint32(c.Type))
		if err := put(ch[:]); err != nil {
			return written, err
		}
		if err := put(c.Data); err != nil {
			return written, err
		}
		if pad := padded - len(c.Data); pad > 0 {
			fill := byte(0)
			if c.Type == ChunkJSON {
				fill = ' '
			}
			if err := put(bytes.Repeat([]byte{fill}, pad)); err != nil {
				return written, err
			}
		}
	}

	return written, nil
}
