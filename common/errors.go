package common

import "errors"

// Error taxonomy shared by every inspector package. Concrete errors wrap one of
// these sentinels so callers can classify a failure with errors.Is.
var (
	// ErrFormat reports a malformed GLB envelope: bad magic, unsupported version,
	// unrecognized or duplicate chunk, truncated data, or a missing JSON/BIN chunk.
	ErrFormat = errors.New("format error")

	// ErrDataIntegrity reports an internally inconsistent document, such as a buffer
	// whose declared byteLength differs from the loaded blob.
	ErrDataIntegrity = errors.New("data integrity error")

	// ErrUnsupportedFormat reports valid data the inspector does not decode.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrIndexOutOfRange reports a reference to an accessor, bufferView, buffer,
	// skin or node that is not present in the document.
	ErrIndexOutOfRange = errors.New("index out of range")
)
