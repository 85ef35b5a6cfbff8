// Package integrity implements the streaming content fingerprint used to
// verify file transfers end-to-end.
//
// The fingerprint is BLAKE2b-256, optionally keyed with a HashKey derived
// from the master key. The digest depends only on the total byte sequence:
// feeding the same bytes in any chunking yields the same result.
package integrity

import (
	"encoding/hex"
	"fmt"
	"hash"

	"golang.org/x/crypto/blake2b"

	"github.com/privatecloudorg/libprivatecloud-go/keys"
)

// DigestSize is the fingerprint length in bytes.
const DigestSize = 32

// ChunkedHash accumulates a content fingerprint over data delivered in
// arbitrary-sized pieces. It is single-use: Finalize consumes the state.
// A ChunkedHash is not safe for concurrent use; create one per transfer.
type ChunkedHash struct {
	h    hash.Hash
	done bool
}

// New creates an unkeyed accumulator.
func New() (*ChunkedHash, error) {
	return newHash(nil)
}

// NewKeyed creates an accumulator keyed with k. Keyed and unkeyed digests
// of the same bytes are unrelated.
func NewKeyed(k *keys.HashKey) (*ChunkedHash, error) {
	if k == nil || len(k.Bytes()) == 0 {
		return nil, ErrNilKey
	}
	return newHash(k.Bytes())
}

func newHash(key []byte) (*ChunkedHash, error) {
	if err := keys.Init(); err != nil {
		return nil, err
	}
	h, err := blake2b.New256(key)
	if err != nil {
		return nil, fmt.Errorf("integrity: init hash: %w", err)
	}
	return &ChunkedHash{h: h}, nil
}

// Update feeds p into the accumulator. Any number of calls with any chunk
// sizes are equivalent to a single call with the concatenation.
func (c *ChunkedHash) Update(p []byte) error {
	if c.done {
		return ErrFinalized
	}
	c.h.Write(p) // never returns an error per hash.Hash contract
	return nil
}

// Finalize consumes the accumulator and returns the DigestSize-byte digest.
// The state is invalid afterwards; further Update or Finalize calls fail.
func (c *ChunkedHash) Finalize() ([]byte, error) {
	if c.done {
		return nil, ErrFinalized
	}
	c.done = true
	sum := c.h.Sum(nil)
	c.h = nil
	return sum, nil
}

// HexDigest encodes a digest as lower-case hex, the wire form carried in
// FileHash values.
func HexDigest(sum []byte) string {
	return hex.EncodeToString(sum)
}
