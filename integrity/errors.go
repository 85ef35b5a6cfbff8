package integrity

import "errors"

var (
	// ErrFinalized indicates use of an accumulator after Finalize.
	ErrFinalized = errors.New("integrity: hash already finalized")

	// ErrNilKey indicates a keyed accumulator was requested without a key.
	ErrNilKey = errors.New("integrity: hash key is nil or destroyed")
)
