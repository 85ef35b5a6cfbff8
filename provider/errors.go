package provider

import "errors"

var (
	// ErrConfig indicates the provider configuration blob is malformed or
	// incomplete. Surfaced immediately, never retried.
	ErrConfig = errors.New("provider: invalid configuration")

	// ErrSizeMismatch indicates a downloaded object's size does not match
	// the expected size. Fatal to the operation; the partial destination
	// file is removed before this is returned.
	ErrSizeMismatch = errors.New("provider: file size mismatch")

	// ErrHashMismatch indicates a downloaded file's content fingerprint
	// does not match the expected hash. Fatal to the operation; the
	// destination file is removed before this is returned.
	ErrHashMismatch = errors.New("provider: file hash mismatch")
)
