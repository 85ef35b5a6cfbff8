package manifest

import "errors"

var (
	// ErrNotFound indicates no record exists under the given name.
	ErrNotFound = errors.New("manifest: record not found")

	// ErrEmptyName indicates an empty record name.
	ErrEmptyName = errors.New("manifest: record name must not be empty")

	// ErrEmptyStorageID indicates a record without a storage id.
	ErrEmptyStorageID = errors.New("manifest: storage id must not be empty")
)
