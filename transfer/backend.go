// Package transfer implements the chunked upload/download pipeline: it
// drives a backend's multipart primitives while feeding every byte through
// a keyed content fingerprint, with strict cleanup on failure.
package transfer

import (
	"context"
	"io"

	"github.com/privatecloudorg/libprivatecloud-go/provider"
)

// PartTag pairs a part number with the tag the backend assigned to that
// uploaded part. Complete requires tags ordered by ascending part number.
type PartTag struct {
	Number int32
	Tag    string
}

// Backend is the multipart protocol a concrete storage backend exposes to
// the pipeline. All calls are fallible remote operations; the pipeline
// propagates their errors after performing its cleanup duties. Part numbers
// start at 1 and increase by one per part.
type Backend interface {
	// CreateSession opens a multipart upload session for the object id.
	CreateSession(ctx context.Context, id provider.StorageID) (sessionID string, err error)

	// UploadPart transfers one part and returns the backend-assigned tag.
	UploadPart(ctx context.Context, id provider.StorageID, sessionID string,
		partNumber int32, body []byte) (partTag string, err error)

	// Complete finalizes the session from the ordered part tags. After a
	// successful Complete the object is retrievable under id.
	Complete(ctx context.Context, id provider.StorageID, sessionID string, parts []PartTag) error

	// Abort discards the session so no partial object remains claimable.
	Abort(ctx context.Context, id provider.StorageID, sessionID string) error

	// GetObject returns the stored object's reported length and body
	// stream. The caller must close the body.
	GetObject(ctx context.Context, id provider.StorageID) (length int64, body io.ReadCloser, err error)
}
