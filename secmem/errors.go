package secmem

import "errors"

var (
	// ErrInvalidSize indicates a requested buffer size of zero or less.
	ErrInvalidSize = errors.New("secmem: buffer size must be positive")

	// ErrAllocation indicates the guarded allocator could not provide memory.
	ErrAllocation = errors.New("secmem: secure allocation failed")
)
