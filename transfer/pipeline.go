package transfer

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/privatecloudorg/libprivatecloud-go/keys"
)

// DefaultChunkSize is the part size used when none is configured (100 MiB).
const DefaultChunkSize = 100 * 1024 * 1024

var logger = logrus.WithField("module", "transfer")

// Pipeline performs verified uploads and downloads against one Backend.
//
// Each Upload or Download call is strictly sequential within itself: chunk
// read, hash update, and network transfer happen in order before the next
// chunk. Distinct calls may run concurrently; the pipeline holds no mutable
// state shared between calls, and the hash key is read-only.
type Pipeline struct {
	backend   Backend
	hashKey   *keys.HashKey
	chunkSize int
}

// NewPipeline creates a pipeline over backend, fingerprinting all content
// with hashKey. chunkSize is the part size in bytes; 0 selects
// DefaultChunkSize, negative values are rejected.
func NewPipeline(backend Backend, hashKey *keys.HashKey, chunkSize int) (*Pipeline, error) {
	if backend == nil {
		return nil, ErrNilBackend
	}
	if hashKey == nil {
		return nil, ErrNilHashKey
	}
	if chunkSize < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChunkSize, chunkSize)
	}
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}

	return &Pipeline{
		backend:   backend,
		hashKey:   hashKey,
		chunkSize: chunkSize,
	}, nil
}

// fillChunk reads from r until buf is full or the stream ends, collating
// the short reads a file stream delivers. It returns the number of bytes
// placed in buf; n < len(buf) only at end of stream.
func fillChunk(r io.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
