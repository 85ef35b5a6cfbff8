package transfer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/privatecloudorg/libprivatecloud-go/integrity"
	"github.com/privatecloudorg/libprivatecloud-go/provider"
)

// downloadBufSize is the read buffer for streaming a response body. The
// body arrives in backend-delivered chunks; there is no need to collate
// them into upload-sized parts.
const downloadBufSize = 1 << 20

// Download retrieves the object stored under id, writes it to destPath, and
// verifies it against expectedHash and expectedSize.
//
// The backend-reported content length is checked against expectedSize
// before any body bytes are read. Every failure at any stage, including
// cancellation, removes the partially written destination file before the
// error is returned; the caller never observes a partial or corrupt file at
// destPath.
func (p *Pipeline) Download(ctx context.Context, id provider.StorageID,
	expectedHash provider.FileHash, expectedSize provider.FileSize, destPath string) (err error) {

	length, body, err := p.backend.GetObject(ctx, id)
	if err != nil {
		return fmt.Errorf("transfer: get object: %w", err)
	}
	defer body.Close()

	if length < 0 || uint64(length) != uint64(expectedSize) {
		return fmt.Errorf("%w: backend reports %d bytes, expected %d",
			provider.ErrSizeMismatch, length, uint64(expectedSize))
	}

	dest, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("transfer: create destination file: %w", err)
	}
	// From here on a failure leaves bytes on disk; remove them before
	// returning so no partial file is observable.
	defer func() {
		if err != nil {
			dest.Close()
			if rmErr := os.Remove(destPath); rmErr != nil && !os.IsNotExist(rmErr) {
				logger.WithField("path", destPath).WithError(rmErr).
					Warn("failed to remove partial download")
			}
		}
	}()

	hash, err := integrity.NewKeyed(p.hashKey)
	if err != nil {
		return err
	}

	var written uint64
	buf := make([]byte, downloadBufSize)
	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("transfer: download cancelled: %w", ctxErr)
		}

		n, readErr := body.Read(buf)
		if n > 0 {
			if err = hash.Update(buf[:n]); err != nil {
				return err
			}
			if _, writeErr := dest.Write(buf[:n]); writeErr != nil {
				return fmt.Errorf("transfer: write destination file: %w", writeErr)
			}
			written += uint64(n)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fmt.Errorf("transfer: read object body: %w", readErr)
		}
	}

	if written != uint64(expectedSize) {
		return fmt.Errorf("%w: received %d bytes, expected %d",
			provider.ErrSizeMismatch, written, uint64(expectedSize))
	}

	if syncErr := dest.Sync(); syncErr != nil {
		return fmt.Errorf("transfer: flush destination file: %w", syncErr)
	}
	if closeErr := dest.Close(); closeErr != nil {
		return fmt.Errorf("transfer: close destination file: %w", closeErr)
	}

	sum, err := hash.Finalize()
	if err != nil {
		return err
	}
	if integrity.HexDigest(sum) != string(expectedHash) {
		return fmt.Errorf("%w: object %s", provider.ErrHashMismatch, id)
	}

	logger.WithFields(logrus.Fields{
		"storageId": string(id),
		"path":      destPath,
		"size":      written,
	}).Info("download complete and verified")

	return nil
}
