package transfer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/privatecloudorg/libprivatecloud-go/provider"
)

func assertNoFile(t *testing.T, path string) {
	t.Helper()
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no partial file may remain at %s", path)
}

func TestDownload_RoundTrip(t *testing.T) {
	p, _, _ := newTestPipeline(t)
	path, data := writeTempFile(t, 2*testChunkSize+17)

	id, size, hash, err := p.Upload(context.Background(), path)
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "downloaded.bin")
	require.NoError(t, p.Download(context.Background(), id, hash, size, dest))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, data, got, "round trip must reproduce the file byte-for-byte")
	assert.Equal(t, provider.FileSize(len(got)), size)
}

func TestDownload_EmptyFileRoundTrip(t *testing.T) {
	p, _, _ := newTestPipeline(t)
	path, _ := writeTempFile(t, 0)

	id, size, hash, err := p.Upload(context.Background(), path)
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, p.Download(context.Background(), id, hash, size, dest))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDownload_SizeMismatchFailsFast(t *testing.T) {
	p, _, _ := newTestPipeline(t)
	path, _ := writeTempFile(t, 100)

	id, size, hash, err := p.Upload(context.Background(), path)
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "out.bin")
	err = p.Download(context.Background(), id, hash, size+1, dest)
	require.ErrorIs(t, err, provider.ErrSizeMismatch)
	assertNoFile(t, dest)
}

func TestDownload_HashMismatch(t *testing.T) {
	p, _, _ := newTestPipeline(t)
	path, _ := writeTempFile(t, 100)

	id, size, _, err := p.Upload(context.Background(), path)
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "out.bin")
	wrong := provider.FileHash("00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff")
	err = p.Download(context.Background(), id, wrong, size, dest)
	require.ErrorIs(t, err, provider.ErrHashMismatch)
	assertNoFile(t, dest)
}

func TestDownload_CorruptedBody(t *testing.T) {
	p, backend, _ := newTestPipeline(t)
	path, data := writeTempFile(t, 100)

	id, size, hash, err := p.Upload(context.Background(), path)
	require.NoError(t, err)

	corrupted := append([]byte(nil), data...)
	corrupted[13] ^= 0x01
	backend.BodyOverride = corrupted

	dest := filepath.Join(t.TempDir(), "out.bin")
	err = p.Download(context.Background(), id, hash, size, dest)
	require.ErrorIs(t, err, provider.ErrHashMismatch)
	assertNoFile(t, dest)
}

func TestDownload_TruncatedStream(t *testing.T) {
	p, backend, _ := newTestPipeline(t)
	path, _ := writeTempFile(t, 100)

	id, size, hash, err := p.Upload(context.Background(), path)
	require.NoError(t, err)

	// Reported length is right, delivered bytes are not.
	backend.TruncateBody = 60

	dest := filepath.Join(t.TempDir(), "out.bin")
	err = p.Download(context.Background(), id, hash, size, dest)
	require.ErrorIs(t, err, provider.ErrSizeMismatch)
	assertNoFile(t, dest)
}

func TestDownload_BackendFailure(t *testing.T) {
	p, backend, _ := newTestPipeline(t)
	backend.FailGet = true

	dest := filepath.Join(t.TempDir(), "out.bin")
	err := p.Download(context.Background(), "whatever", "aa", 1, dest)
	require.ErrorIs(t, err, ErrMockInjected)
	assertNoFile(t, dest)
}

func TestDownload_CancellationCleansUp(t *testing.T) {
	p, _, _ := newTestPipeline(t)
	path, _ := writeTempFile(t, 100)

	id, size, hash, err := p.Upload(context.Background(), path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dest := filepath.Join(t.TempDir(), "out.bin")
	err = p.Download(ctx, id, hash, size, dest)
	require.ErrorIs(t, err, context.Canceled)
	assertNoFile(t, dest)
}

func TestDownload_UnknownObject(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	dest := filepath.Join(t.TempDir(), "out.bin")
	err := p.Download(context.Background(), "missing", "aa", 0, dest)
	require.Error(t, err)
	assertNoFile(t, dest)
}
