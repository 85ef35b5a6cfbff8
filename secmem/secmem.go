// Package secmem provides guarded memory for secret key material.
//
// Buffers are allocated outside the ordinary Go heap via memguard: the
// region is mlocked, surrounded by guard pages, and wiped when destroyed.
// A SecureMemory value is never implicitly duplicated; callers that need a
// copy must read Bytes() and take one explicitly.
package secmem

import (
	"fmt"

	"github.com/awnumar/memguard"
)

// Redacted is the placeholder printed in place of secret bytes.
const Redacted = "*****"

// SecureMemory owns a fixed-size guarded byte buffer. The buffer is wiped
// and released exactly once, when Destroy is called. All formatted
// representations redact the contents.
type SecureMemory struct {
	buf *memguard.LockedBuffer
}

// New allocates size bytes of guarded memory, zero-filled.
func New(size int) (*SecureMemory, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	buf, err := alloc(size)
	if err != nil {
		return nil, err
	}

	return &SecureMemory{buf: buf}, nil
}

// alloc wraps memguard.NewBuffer, which panics instead of returning an
// error when the guarded allocation fails. Surface that as ErrAllocation.
func alloc(size int) (buf *memguard.LockedBuffer, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf = nil
			err = fmt.Errorf("%w: %v", ErrAllocation, r)
		}
	}()
	return memguard.NewBuffer(size), nil
}

// Bytes returns a mutable view of the full buffer. The view is only valid
// until Destroy; after Destroy it is nil.
func (m *SecureMemory) Bytes() []byte {
	if m.buf == nil || !m.buf.IsAlive() {
		return nil
	}
	return m.buf.Bytes()
}

// Len returns the buffer size in bytes, or 0 after Destroy.
func (m *SecureMemory) Len() int {
	if m.buf == nil || !m.buf.IsAlive() {
		return 0
	}
	return m.buf.Size()
}

// Alive reports whether the buffer has not yet been destroyed.
func (m *SecureMemory) Alive() bool {
	return m.buf != nil && m.buf.IsAlive()
}

// Destroy wipes and releases the buffer. It is safe to call more than once;
// only the first call has an effect.
func (m *SecureMemory) Destroy() {
	if m.buf != nil {
		m.buf.Destroy()
	}
}

// String implements fmt.Stringer. Secret contents are never printed.
func (m *SecureMemory) String() string {
	return "SecureMemory(" + Redacted + ")"
}

// GoString implements fmt.GoStringer so %#v also redacts.
func (m *SecureMemory) GoString() string {
	return m.String()
}

// Format implements fmt.Formatter, covering every verb with the redacted
// representation. Redaction is a correctness requirement, not cosmetic.
func (m *SecureMemory) Format(f fmt.State, verb rune) {
	fmt.Fprint(f, m.String())
}
