package keys

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/privatecloudorg/libprivatecloud-go/secmem"
)

const (
	// MasterKeySize is the size of the root key in bytes.
	MasterKeySize = 32

	// ContextSize is the fixed size of the derivation context field.
	// Longer contexts are truncated, shorter ones zero-padded, so callers
	// must keep contexts distinguishable within their first 8 bytes.
	ContextSize = 8
)

// MasterKey is the root secret from which all purpose-specific keys are
// derived. It owns one guarded buffer of exactly MasterKeySize bytes and is
// immutable after construction. All formatted representations redact the
// key material.
type MasterKey struct {
	mem *secmem.SecureMemory
}

// GenerateMasterKey creates a fresh master key from the system CSPRNG.
func GenerateMasterKey() (*MasterKey, error) {
	if err := Init(); err != nil {
		return nil, err
	}

	mem, err := secmem.New(MasterKeySize)
	if err != nil {
		return nil, fmt.Errorf("keys: allocate master key: %w", err)
	}
	if _, err := rand.Read(mem.Bytes()); err != nil {
		mem.Destroy()
		return nil, fmt.Errorf("keys: generate master key: %w", err)
	}

	return &MasterKey{mem: mem}, nil
}

// MasterKeyFromHex imports a master key from its hex encoding. The decoded
// material must be exactly MasterKeySize bytes.
func MasterKeyFromHex(s string) (*MasterKey, error) {
	if err := Init(); err != nil {
		return nil, err
	}

	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHex, err)
	}
	if len(raw) != MasterKeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeySize, len(raw), MasterKeySize)
	}

	mem, err := secmem.New(MasterKeySize)
	if err != nil {
		return nil, fmt.Errorf("keys: allocate master key: %w", err)
	}
	copy(mem.Bytes(), raw)
	wipe(raw)

	return &MasterKey{mem: mem}, nil
}

// DeriveSubkey fills out deterministically from (master key, keyID, context)
// using HKDF-SHA256. Identical inputs always yield identical output; any
// differing keyID or context yields an unrelated key. The context is
// truncated or zero-padded to ContextSize bytes before use.
func (k *MasterKey) DeriveSubkey(out []byte, keyID uint64, context string) error {
	if len(out) == 0 {
		return ErrEmptySubkey
	}
	if !k.mem.Alive() {
		return ErrKeyDestroyed
	}

	// info = context[0:8] (zero-padded) || keyID (little-endian)
	info := make([]byte, ContextSize+8)
	copy(info[:ContextSize], context)
	binary.LittleEndian.PutUint64(info[ContextSize:], keyID)

	r := hkdf.New(sha256.New, k.mem.Bytes(), nil, info)
	if _, err := io.ReadFull(r, out); err != nil {
		return fmt.Errorf("%w: %w", ErrDerivation, err)
	}
	return nil
}

// Hex returns the hex encoding of the key material. This is the only
// deliberate export path (used to print a freshly generated key once);
// ordinary formatting of a MasterKey redacts.
func (k *MasterKey) Hex() (string, error) {
	if !k.mem.Alive() {
		return "", ErrKeyDestroyed
	}
	return hex.EncodeToString(k.mem.Bytes()), nil
}

// Destroy wipes and releases the key material. Idempotent.
func (k *MasterKey) Destroy() {
	k.mem.Destroy()
}

// String implements fmt.Stringer with the key redacted.
func (k *MasterKey) String() string {
	return "MasterKey(" + secmem.Redacted + ")"
}

// GoString implements fmt.GoStringer so %#v also redacts.
func (k *MasterKey) GoString() string { return k.String() }

// Format implements fmt.Formatter, redacting under every verb.
func (k *MasterKey) Format(f fmt.State, verb rune) {
	fmt.Fprint(f, k.String())
}

// wipe zeroes a transient plaintext copy of key material.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// mustHexDecode decodes a compile-time hex constant.
func mustHexDecode(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
