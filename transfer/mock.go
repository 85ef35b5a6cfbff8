package transfer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/privatecloudorg/libprivatecloud-go/provider"
)

// MockBackend is an in-memory Backend for tests. It records every session,
// part, Complete and Abort call, and can inject failures at chosen part
// numbers or serve altered object bodies.
type MockBackend struct {
	mu sync.Mutex

	sessions map[string]*mockSession // sessionID -> session
	objects  map[provider.StorageID][]byte

	// FailPart makes UploadPart fail when called with this part number.
	// Zero disables injection.
	FailPart int32

	// FailCreate, FailComplete, FailAbort and FailGet make the matching
	// call fail unconditionally.
	FailCreate   bool
	FailComplete bool
	FailAbort    bool
	FailGet      bool

	// LengthOverride, when non-nil, replaces the reported content length
	// of GetObject responses.
	LengthOverride *int64

	// BodyOverride, when non-nil, replaces served object bodies.
	BodyOverride []byte

	// TruncateBody, when positive, cuts served bodies to this many bytes
	// without touching the reported length.
	TruncateBody int

	CompleteCalls int
	AbortCalls    int

	nextSession int
}

type mockSession struct {
	id       provider.StorageID
	parts    map[int32][]byte
	aborted  bool
	complete bool
}

// ErrMockInjected is the error returned by all injected mock failures.
var ErrMockInjected = errors.New("transfer: injected mock failure")

// NewMockBackend creates an empty mock backend.
func NewMockBackend() *MockBackend {
	return &MockBackend{
		sessions: make(map[string]*mockSession),
		objects:  make(map[provider.StorageID][]byte),
	}
}

// CreateSession implements Backend.
func (m *MockBackend) CreateSession(ctx context.Context, id provider.StorageID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailCreate {
		return "", ErrMockInjected
	}

	m.nextSession++
	sid := fmt.Sprintf("session-%d", m.nextSession)
	m.sessions[sid] = &mockSession{
		id:    id,
		parts: make(map[int32][]byte),
	}
	return sid, nil
}

// UploadPart implements Backend.
func (m *MockBackend) UploadPart(ctx context.Context, id provider.StorageID,
	sessionID string, partNumber int32, body []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailPart != 0 && partNumber == m.FailPart {
		return "", ErrMockInjected
	}

	sess, ok := m.sessions[sessionID]
	if !ok || sess.aborted {
		return "", fmt.Errorf("transfer: mock: unknown or aborted session %q", sessionID)
	}

	data := make([]byte, len(body))
	copy(data, body)
	sess.parts[partNumber] = data
	return fmt.Sprintf("etag-%s-%d", sessionID, partNumber), nil
}

// Complete implements Backend. The assembled object becomes retrievable
// under the session's storage id.
func (m *MockBackend) Complete(ctx context.Context, id provider.StorageID,
	sessionID string, parts []PartTag) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CompleteCalls++
	if m.FailComplete {
		return ErrMockInjected
	}

	sess, ok := m.sessions[sessionID]
	if !ok || sess.aborted {
		return fmt.Errorf("transfer: mock: unknown or aborted session %q", sessionID)
	}
	if len(parts) != len(sess.parts) {
		return fmt.Errorf("transfer: mock: completed with %d tags, have %d parts", len(parts), len(sess.parts))
	}
	if !sort.SliceIsSorted(parts, func(i, j int) bool { return parts[i].Number < parts[j].Number }) {
		return fmt.Errorf("transfer: mock: part tags not in ascending order")
	}

	var obj []byte
	for _, pt := range parts {
		data, ok := sess.parts[pt.Number]
		if !ok {
			return fmt.Errorf("transfer: mock: tag for unknown part %d", pt.Number)
		}
		obj = append(obj, data...)
	}
	sess.complete = true
	m.objects[sess.id] = obj
	return nil
}

// Abort implements Backend.
func (m *MockBackend) Abort(ctx context.Context, id provider.StorageID, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AbortCalls++
	if m.FailAbort {
		return ErrMockInjected
	}

	if sess, ok := m.sessions[sessionID]; ok {
		sess.aborted = true
		sess.parts = make(map[int32][]byte)
	}
	return nil
}

// GetObject implements Backend.
func (m *MockBackend) GetObject(ctx context.Context, id provider.StorageID) (int64, io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailGet {
		return 0, nil, ErrMockInjected
	}

	obj, ok := m.objects[id]
	if !ok {
		return 0, nil, fmt.Errorf("transfer: mock: no object %q", id)
	}

	body := obj
	if m.BodyOverride != nil {
		body = m.BodyOverride
	}
	length := int64(len(body))
	if m.TruncateBody > 0 && m.TruncateBody < len(body) {
		body = body[:m.TruncateBody]
	}
	if m.LengthOverride != nil {
		length = *m.LengthOverride
	}

	return length, io.NopCloser(bytes.NewReader(body)), nil
}

// PutObject seeds a stored object directly, bypassing the multipart flow.
func (m *MockBackend) PutObject(id provider.StorageID, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[id] = append([]byte(nil), data...)
}

// Object returns a stored object's bytes and whether it exists.
func (m *MockBackend) Object(id provider.StorageID) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[id]
	return obj, ok
}

// PartCount reports how many parts the (single) completed object was
// assembled from. It is -1 when no session completed.
func (m *MockBackend) PartCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sess := range m.sessions {
		if sess.complete {
			return len(sess.parts)
		}
	}
	return -1
}

// Compile-time interface check.
var _ Backend = (*MockBackend)(nil)
