package transfer

import "errors"

var (
	// ErrNilBackend indicates a pipeline was constructed without a backend.
	ErrNilBackend = errors.New("transfer: backend is nil")

	// ErrNilHashKey indicates a pipeline was constructed without a hash key.
	ErrNilHashKey = errors.New("transfer: hash key is nil")

	// ErrInvalidChunkSize indicates a negative chunk size.
	ErrInvalidChunkSize = errors.New("transfer: chunk size must not be negative")
)
