package keys

import "errors"

var (
	// ErrInitFailed indicates the one-time cryptographic self-check failed.
	ErrInitFailed = errors.New("keys: crypto initialization self-check failed")

	// ErrInvalidKeySize indicates imported key material is not exactly
	// MasterKeySize bytes after decoding.
	ErrInvalidKeySize = errors.New("keys: invalid master key size")

	// ErrInvalidHex indicates the master key hex string could not be decoded.
	ErrInvalidHex = errors.New("keys: invalid master key hex")

	// ErrDerivation indicates the underlying KDF failed. This is treated as
	// fatal and unexpected; it is never retried.
	ErrDerivation = errors.New("keys: subkey derivation failed")

	// ErrEmptySubkey indicates a zero-length derivation output buffer.
	ErrEmptySubkey = errors.New("keys: subkey output buffer is empty")

	// ErrKeyDestroyed indicates use of a key after Destroy.
	ErrKeyDestroyed = errors.New("keys: key already destroyed")
)
