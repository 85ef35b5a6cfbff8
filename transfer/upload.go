package transfer

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/privatecloudorg/libprivatecloud-go/integrity"
	"github.com/privatecloudorg/libprivatecloud-go/provider"
)

// Upload transfers the local file at path to the backend as a multipart
// upload and returns the round-trip metadata triple.
//
// Parts are numbered from 1 in the order read. Every byte is fed into the
// keyed fingerprint before it is sent. If any step after CreateSession
// fails, the session is aborted best-effort so no partial object remains
// claimable; an abort failure is logged but never masks the original error.
// Complete is only called after every part succeeded.
func (p *Pipeline) Upload(ctx context.Context, path string) (provider.StorageID, provider.FileSize, provider.FileHash, error) {
	id := provider.StorageID(uuid.NewString())

	f, err := os.Open(path)
	if err != nil {
		return "", 0, "", fmt.Errorf("transfer: open source file: %w", err)
	}
	defer f.Close()

	hash, err := integrity.NewKeyed(p.hashKey)
	if err != nil {
		return "", 0, "", err
	}

	sessionID, err := p.backend.CreateSession(ctx, id)
	if err != nil {
		return "", 0, "", fmt.Errorf("transfer: create upload session: %w", err)
	}

	log := logger.WithFields(logrus.Fields{
		"storageId": string(id),
		"path":      path,
	})

	var (
		size  uint64
		parts []PartTag
		buf   = make([]byte, p.chunkSize)
	)

	for partNum := int32(1); ; partNum++ {
		n, err := fillChunk(f, buf)
		if err != nil {
			p.abortSession(ctx, id, sessionID)
			return "", 0, "", fmt.Errorf("transfer: read source file: %w", err)
		}
		if n == 0 {
			break
		}

		chunk := buf[:n]
		size += uint64(n)

		if err := hash.Update(chunk); err != nil {
			p.abortSession(ctx, id, sessionID)
			return "", 0, "", err
		}

		tag, err := p.backend.UploadPart(ctx, id, sessionID, partNum, chunk)
		if err != nil {
			p.abortSession(ctx, id, sessionID)
			return "", 0, "", fmt.Errorf("transfer: upload part %d: %w", partNum, err)
		}
		parts = append(parts, PartTag{Number: partNum, Tag: tag})

		log.WithFields(logrus.Fields{
			"part":  partNum,
			"bytes": n,
		}).Debug("part uploaded")
	}

	sum, err := hash.Finalize()
	if err != nil {
		p.abortSession(ctx, id, sessionID)
		return "", 0, "", err
	}

	if err := p.backend.Complete(ctx, id, sessionID, parts); err != nil {
		p.abortSession(ctx, id, sessionID)
		return "", 0, "", fmt.Errorf("transfer: complete upload: %w", err)
	}

	log.WithFields(logrus.Fields{
		"parts": len(parts),
		"size":  size,
	}).Info("upload complete")

	return id, provider.FileSize(size), provider.FileHash(integrity.HexDigest(sum)), nil
}

// abortSession aborts a multipart session best-effort. It runs even when
// ctx is already cancelled: leaving a claimable partial object behind is
// worse than one extra remote call.
func (p *Pipeline) abortSession(ctx context.Context, id provider.StorageID, sessionID string) {
	if err := p.backend.Abort(context.WithoutCancel(ctx), id, sessionID); err != nil {
		logger.WithFields(logrus.Fields{
			"storageId": string(id),
			"session":   sessionID,
		}).WithError(err).Warn("failed to abort upload session")
	}
}
