// Package keys implements the key-management layer: a root master key held
// in guarded memory, and deterministic derivation of purpose-scoped subkeys
// from it.
//
// Key hierarchy: master key (32 bytes, random or imported from hex) →
// HKDF-SHA256 subkeys scoped by (numeric key id, short textual context).
package keys

import (
	"bytes"
	"sync"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/blake2b"
)

// blake2b256Empty is the BLAKE2b-256 digest of the empty input, used as a
// known-answer self-check during initialization.
const blake2b256Empty = "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8"

var (
	initOnce sync.Once
	initErr  error
)

// Init performs one-time process-wide cryptographic initialization: it runs
// a BLAKE2b known-answer check and arms memguard so guarded buffers are
// purged if the process is interrupted. It is idempotent and safe for
// concurrent use; every key and hash constructor calls it, but callers may
// also invoke it explicitly at startup to fail early.
func Init() error {
	initOnce.Do(func() {
		sum := blake2b.Sum256(nil)
		want := mustHexDecode(blake2b256Empty)
		if !bytes.Equal(sum[:], want) {
			initErr = ErrInitFailed
			return
		}
		memguard.CatchInterrupt()
	})
	return initErr
}
