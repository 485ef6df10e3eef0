package glb

// ReaderBuilderOption is a functional option for configuring a Reader via NewReader.
type ReaderBuilderOption func(*reader)

// WithUnknownChunkPolicy sets how chunks other than JSON and BIN are handled.
//
// Parameters:
//   - p: UnknownChunkReject (default) or UnknownChunkSkip
//
// Returns:
//   - ReaderBuilderOption: option function to apply
func WithUnknownChunkPolicy(p UnknownChunkPolicy) ReaderBuilderOption {
	return func(r *reader) {
		r.unknownChunks = p
	}
}

// WithDuplicateChunkPolicy sets how a repeated JSON or BIN chunk is handled.
//
// Parameters:
//   - p: DuplicateChunkReject (default) or DuplicateChunkOverwrite
//
// Returns:
//   - ReaderBuilderOption: option function to apply
func WithDuplicateChunkPolicy(p DuplicateChunkPolicy) ReaderBuilderOption {
	return func(r *reader) {
		r.duplicateChunks = p
	}
}

// WithRequireBIN sets whether a container without a BIN chunk is rejected with ErrNoBIN.
//
// Parameters:
//   - required: true (default) to require the BIN chunk
//
// Returns:
//   - ReaderBuilderOption: option function to apply
func WithRequireBIN(required bool) ReaderBuilderOption {
	return func(r *reader) {
		r.requireBIN = required
	}
}
