// Package provider defines the capability contract any storage backend must
// satisfy to hold files for this client, plus the value types of the
// round-trip metadata contract.
//
// The triple (StorageID, FileSize, FileHash) returned by UploadFile is
// exactly what DownloadFile later needs to retrieve and verify the file; it
// is the only information a caller has to keep.
package provider

import "context"

// StorageID is the opaque handle identifying one stored object. It is
// generated client-side before upload begins.
type StorageID string

// FileSize is the verified byte count of a transferred file.
type FileSize uint64

// FileHash is the lower-case hex encoding of the keyed content fingerprint
// of a transferred file.
type FileHash string

// Config is an opaque serialized configuration blob. Only a concrete
// provider's construction step interprets it; everything else treats it as
// bytes. It may carry secrets and must never be logged.
type Config []byte

// CloudProvider is the capability interface for a storage backend.
// Construction is backend-specific (for S3, aws.LoadFromConfig); a
// constructed provider is safe for concurrent use by independent transfers.
type CloudProvider interface {
	// UploadFile transfers the local file at path to the backend and
	// returns the metadata needed to retrieve and verify it later.
	UploadFile(ctx context.Context, path string) (StorageID, FileSize, FileHash, error)

	// DownloadFile retrieves the object stored under id, writes it to
	// destPath, and verifies it against expectedHash and expectedSize.
	// On any failure no partial file remains at destPath.
	DownloadFile(ctx context.Context, id StorageID, expectedHash FileHash,
		expectedSize FileSize, destPath string) error
}
