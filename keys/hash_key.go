package keys

import (
	"fmt"

	"github.com/privatecloudorg/libprivatecloud-go/secmem"
)

// HashKeySize is the size of a derived content-hash key in bytes (the
// native key length of the keyed hash in package integrity).
const HashKeySize = 32

// HashKey is a purpose-scoped subkey for keyed content hashing, derived
// once from a master key and immutable afterwards. The material lives in
// guarded memory and is redacted in all formatted output.
type HashKey struct {
	mem *secmem.SecureMemory
}

// NewHashKey derives a HashKey from the master key, scoped by keyID and
// context (see MasterKey.DeriveSubkey for the context rules).
func NewHashKey(mk *MasterKey, keyID uint64, context string) (*HashKey, error) {
	if err := Init(); err != nil {
		return nil, err
	}

	mem, err := secmem.New(HashKeySize)
	if err != nil {
		return nil, fmt.Errorf("keys: allocate hash key: %w", err)
	}
	if err := mk.DeriveSubkey(mem.Bytes(), keyID, context); err != nil {
		mem.Destroy()
		return nil, err
	}

	return &HashKey{mem: mem}, nil
}

// Bytes returns a read-only view of the key material, valid until Destroy.
// Safe for concurrent readers; the key is never mutated after derivation.
func (k *HashKey) Bytes() []byte {
	return k.mem.Bytes()
}

// Destroy wipes and releases the key material. Idempotent.
func (k *HashKey) Destroy() {
	k.mem.Destroy()
}

// String implements fmt.Stringer with the key redacted.
func (k *HashKey) String() string {
	return "HashKey(" + secmem.Redacted + ")"
}

// GoString implements fmt.GoStringer so %#v also redacts.
func (k *HashKey) GoString() string { return k.String() }

// Format implements fmt.Formatter, redacting under every verb.
func (k *HashKey) Format(f fmt.State, verb rune) {
	fmt.Fprint(f, k.String())
}
