package aws

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/privatecloudorg/libprivatecloud-go/keys"
	"github.com/privatecloudorg/libprivatecloud-go/provider"
)

// newFakeProvider builds a Provider over an in-memory S3 with a small chunk
// size so multi-part paths are exercised with small files.
func newFakeProvider(t *testing.T) (*Provider, *fakeS3) {
	t.Helper()

	cfg := validConfig()
	masterKey, err := keys.MasterKeyFromHex(cfg.MasterKeyHex)
	require.NoError(t, err)
	hashKey, err := keys.NewHashKey(masterKey, fileHashKeyID, fileHashContext)
	require.NoError(t, err)

	fake := newFakeS3()
	p, err := newProvider(cfg, fake, masterKey, hashKey, 32*1024)
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p, fake
}

func writeSource(t *testing.T, size int) (string, []byte) {
	t.Helper()
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i * 7)
	}
	path := filepath.Join(t.TempDir(), "src.bin")
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path, data
}

func TestProvider_UploadDownloadRoundTrip(t *testing.T) {
	p, _ := newFakeProvider(t)
	path, data := writeSource(t, 100*1024) // four parts at the test chunk size

	id, size, hash, err := p.UploadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, provider.FileSize(len(data)), size)
	assert.Len(t, string(hash), 64)

	dest := filepath.Join(t.TempDir(), "dst.bin")
	require.NoError(t, p.DownloadFile(context.Background(), id, hash, size, dest))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestProvider_UploadFailureAborts(t *testing.T) {
	p, fake := newFakeProvider(t)
	path, _ := writeSource(t, 100*1024)
	fake.failPart = 2

	_, _, _, err := p.UploadFile(context.Background(), path)
	require.ErrorIs(t, err, errFakeS3)
	assert.Equal(t, 1, fake.abortCalls)
	assert.Equal(t, 0, fake.completeCalls)
}

func TestProvider_DownloadWrongHash(t *testing.T) {
	p, _ := newFakeProvider(t)
	path, _ := writeSource(t, 1024)

	id, size, _, err := p.UploadFile(context.Background(), path)
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "dst.bin")
	wrong := provider.FileHash(strings.Repeat("ab", 32))
	err = p.DownloadFile(context.Background(), id, wrong, size, dest)
	require.ErrorIs(t, err, provider.ErrHashMismatch)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoadFromConfig_BadBlob(t *testing.T) {
	_, err := LoadFromConfig(context.Background(), provider.Config("{"))
	assert.ErrorIs(t, err, provider.ErrConfig)
}

func TestLoadFromConfig_BadMasterKey(t *testing.T) {
	cfg := validConfig()
	cfg.MasterKeyHex = "1234"
	blob, err := encodeConfig(cfg)
	require.NoError(t, err)

	_, err = LoadFromConfig(context.Background(), blob)
	assert.ErrorIs(t, err, keys.ErrInvalidKeySize)
}

func TestLoadFromConfig_Valid(t *testing.T) {
	blob, err := encodeConfig(validConfig())
	require.NoError(t, err)

	p, err := LoadFromConfig(context.Background(), blob)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, "privatecloud-test", p.Bucket())
	assert.NotContains(t, p.String(), validConfig().SecretAccessKey)
}
