// glb_types.go contains the binary layout of the GLB container.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
package glb

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/Carmen-Shannon/oxy-loupe/common"
)

// GLB layout constants.
const (
	// HeaderSize is the size of the fixed header: magic, version, total length.
	HeaderSize = 12

	// ChunkHeaderSize is the size of a chunk header: payload length and type tag.
	ChunkHeaderSize = 8

	// Version is the only container version the reader accepts.
	Version = 2
)

// magic is the ASCII "glTF" tag at the start of every GLB file.
var magic = [4]byte{'g', 'l', 'T', 'F'}

// ChunkType is the 4-byte type tag of a chunk, read as a little-endian uint32.
type ChunkType uint32

const (
	// ChunkJSON tags the structured JSON chunk ("JSON").
	ChunkJSON ChunkType = 0x4E4F534A

	// ChunkBIN tags the binary buffer chunk ("BIN\0").
	ChunkBIN ChunkType = 0x004E4942
)

// String returns the ASCII form of the tag, quoted-escaped when not printable.
func (t ChunkType) String() string {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(t))
	return strconv.QuoteToASCII(string(b[:]))
}

// Chunk is a single typed payload of a GLB container.
type Chunk struct {
	// Type is the chunk's type tag.
	Type ChunkType

	// Data is the chunk payload, exactly Length bytes, including any padding.
	Data []byte
}

// Container is the decoded GLB envelope.
// JSON and BIN are byte-exact views into the source when produced by Parse.
type Container struct {
	// Version is the header version field (always 2 for a decoded container).
	Version uint32

	// Length is the header's declared total length.
	Length uint32

	// JSON is the payload of the JSON chunk.
	JSON []byte

	// BIN is the payload of the BIN chunk. Nil when the reader allows a missing
	// BIN chunk and none was present.
	BIN []byte

	// Skipped holds chunks with unknown type tags when UnknownChunkSkip is in effect.
	Skipped []Chunk
}

// UnknownChunkPolicy decides what happens to chunks that are neither JSON nor BIN.
type UnknownChunkPolicy int

const (
	// UnknownChunkReject fails the read with ErrUnknownChunk.
	UnknownChunkReject UnknownChunkPolicy = iota

	// UnknownChunkSkip keeps the chunk in Container.Skipped and continues.
	UnknownChunkSkip
)

// DuplicateChunkPolicy decides what happens when a JSON or BIN chunk appears twice.
type DuplicateChunkPolicy int

const (
	// DuplicateChunkReject fails the read with ErrDuplicateChunk.
	DuplicateChunkReject DuplicateChunkPolicy = iota

	// DuplicateChunkOverwrite replaces the earlier chunk with the later one.
	DuplicateChunkOverwrite
)

// Errors returned by the reader. Each wraps common.ErrFormat.
var (
	ErrMagicNotFound      = fmt.Errorf("%w: magic not found", common.ErrFormat)
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported version", common.ErrFormat)
	ErrTruncated          = fmt.Errorf("%w: truncated chunk", common.ErrFormat)
	ErrUnknownChunk       = fmt.Errorf("%w: unknown chunk type", common.ErrFormat)
	ErrDuplicateChunk     = fmt.Errorf("%w: duplicate chunk", common.ErrFormat)
	ErrNoJSON             = fmt.Errorf("%w: no json", common.ErrFormat)
	ErrNoBIN              = fmt.Errorf("%w: no bin", common.ErrFormat)
)
