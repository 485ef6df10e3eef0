package glb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// reader is the implementation of the Reader interface.
type reader struct {
	unknownChunks   UnknownChunkPolicy
	duplicateChunks DuplicateChunkPolicy
	requireBIN      bool
}

// Reader decodes GLB containers into their JSON and BIN chunks.
// The scan is linear: header, then chunks until the declared length is consumed.
type Reader interface {
	// Parse decodes a GLB container held in memory.
	// The returned chunk payloads are sub-slices of data; nothing is copied.
	//
	// Parameters:
	//   - data: the complete GLB file contents
	//
	// Returns:
	//   - *Container: the decoded container
	//   - error: an error wrapping common.ErrFormat if the envelope is malformed
	Parse(data []byte) (*Container, error)

	// Read decodes a GLB container from a stream.
	// The magic is checked after reading exactly 4 bytes and the version after 8,
	// so a foreign file is rejected without consuming the rest of the stream.
	//
	// Parameters:
	//   - r: the stream positioned at the start of the container
	//
	// Returns:
	//   - *Container: the decoded container
	//   - error: an error wrapping common.ErrFormat if the envelope is malformed
	Read(r io.Reader) (*Container, error)
}

var _ Reader = &reader{}

// NewReader creates a Reader with the given options applied.
// By default unknown and duplicate chunks are rejected and a BIN chunk is required.
//
// Parameters:
//   - options: functional options for reader configuration
//
// Returns:
//   - Reader: the configured reader
func NewReader(options ...ReaderBuilderOption) Reader {
	r := &reader{
		unknownChunks:   UnknownChunkReject,
		duplicateChunks: DuplicateChunkReject,
		requireBIN:      true,
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Parse decodes data with a default Reader.
func Parse(data []byte) (*Container, error) {
	return NewReader().Parse(data)
}

// Read decodes a stream with a default Reader.
func Read(r io.Reader) (*Container, error) {
	return NewReader().Read(r)
}

// IsGLB reports whether data starts with the GLB magic.
func IsGLB(data []byte) bool {
	return len(data) >= len(magic) && bytes.Equal(data[:len(magic)], magic[:])
}

func (r *reader) Parse(data []byte) (*Container, error) {
	if !IsGLB(data) {
		return nil, fmt.Errorf("%w: %q", ErrMagicNotFound, data[:min(len(data), len(magic))])
	}
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: header is %d bytes", ErrTruncated, len(data))
	}

	version := binary.LittleEndian.Uint32(data[4:8])
	if version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	length := binary.LittleEndian.Uint32(data[8:12])

	a := r.newAssembler(version, length)
	remaining := int64(length) - HeaderSize
	pos := HeaderSize
	for remaining > 0 {
		if remaining < ChunkHeaderSize || len(data)-pos < ChunkHeaderSize {
			return nil, fmt.Errorf("%w: chunk header at offset %d", ErrTruncated, pos)
		}
		size := binary.LittleEndian.Uint32(data[pos : pos+4])
		typ := ChunkType(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		pos += ChunkHeaderSize
		remaining -= ChunkHeaderSize

		if int64(size) > remaining || int64(size) > int64(len(data)-pos) {
			return nil, fmt.Errorf("%w: %s chunk of %d bytes at offset %d", ErrTruncated, typ, size, pos)
		}
		end := pos + int(size)
		if err := a.add(typ, data[pos:end:end]); err != nil {
			return nil, err
		}
		pos = end
		remaining -= int64(size)
	}

	return a.finish()
}

func (r *reader) Read(src io.Reader) (*Container, error) {
	var word [4]byte

	if _, err := io.ReadFull(src, word[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMagicNotFound, err)
	}
	if word != magic {
		return nil, fmt.Errorf("%w: %q", ErrMagicNotFound, word[:])
	}

	if _, err := io.ReadFull(src, word[:]); err != nil {
		return nil, fmt.Errorf("%w: version: %v", ErrTruncated, err)
	}
	version := binary.LittleEndian.Uint32(word[:])
	if version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	if _, err := io.ReadFull(src, word[:]); err != nil {
		return nil, fmt.Errorf("%w: length: %v", ErrTruncated, err)
	}
	length := binary.LittleEndian.Uint32(word[:])

	a := r.newAssembler(version, length)
	remaining := int64(length) - HeaderSize
	var header [ChunkHeaderSize]byte
	for remaining > 0 {
		if remaining < ChunkHeaderSize {
			return nil, fmt.Errorf("%w: %d bytes left for a chunk header", ErrTruncated, remaining)
		}
		if _, err := io.ReadFull(src, header[:]); err != nil {
			return nil, fmt.Errorf("%w: chunk header: %v", ErrTruncated, err)
		}
		size := binary.LittleEndian.Uint32(header[0:4])
		typ := ChunkType(binary.LittleEndian.Uint32(header[4:8]))
		remaining -= ChunkHeaderSize

		if int64(size) > remaining {
			return nil, fmt.Errorf("%w: %s chunk of %d bytes exceeds declared length", ErrTruncated, typ, size)
		}
		// The buffer grows with the bytes received, not with the declared size.
		var payload bytes.Buffer
		if n, err := io.CopyN(&payload, src, int64(size)); err != nil {
			return nil, fmt.Errorf("%w: %s chunk: got %d of %d bytes: %v", ErrTruncated, typ, n, size, err)
		}
		data := payload.Bytes()
		if data == nil {
			data = []byte{}
		}
		if err := a.add(typ, data); err != nil {
			return nil, err
		}
		remaining -= int64(size)
	}

	return a.finish()
}

// assembler collects chunks into a Container according to the reader's policies.
type assembler struct {
	r       *reader
	c       *Container
	hasJSON bool
	hasBIN  bool
}

func (r *reader) newAssembler(version, length uint32) *assembler {
	return &assembler{r: r, c: &Container{Version: version, Length: length}}
}

func (a *assembler) add(typ ChunkType, payload []byte) error {
	switch typ {
	case ChunkJSON:
		if a.hasJSON && a.r.duplicateChunks == DuplicateChunkReject {
			return fmt.Errorf("%w: %s", ErrDuplicateChunk, typ)
		}
		a.c.JSON, a.hasJSON = payload, true
	case ChunkBIN:
		if a.hasBIN && a.r.duplicateChunks == DuplicateChunkReject {
			return fmt.Errorf("%w: %s", ErrDuplicateChunk, typ)
		}
		a.c.BIN, a.hasBIN = payload, true
	default:
		if a.r.unknownChunks == UnknownChunkReject {
			return fmt.Errorf("%w: %s", ErrUnknownChunk, typ)
		}
		a.c.Skipped = append(a.c.Skipped, Chunk{Type: typ, Data: payload})
	}
	return nil
}

func (a *assembler) finish() (*Container, error) {
	if !a.hasJSON {
		return nil, ErrNoJSON
	}
	if !a.hasBIN && a.r.requireBIN {
		return nil, ErrNoBIN
	}
	return a.c, nil
}
