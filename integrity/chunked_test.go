package integrity

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"

	"github.com/privatecloudorg/libprivatecloud-go/keys"
)

// blake2b256Empty is the well-known BLAKE2b-256 digest of empty input.
const blake2b256Empty = "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8"

// patternBytes produces n deterministic pseudo-random-looking bytes.
func patternBytes(n int) []byte {
	b := make([]byte, n)
	v := byte(41)
	for i := range b {
		v++
		b[i] = v
	}
	return b
}

func digestOf(t *testing.T, chunks ...[]byte) []byte {
	t.Helper()
	h, err := New()
	require.NoError(t, err)
	for _, c := range chunks {
		require.NoError(t, h.Update(c))
	}
	sum, err := h.Finalize()
	require.NoError(t, err)
	require.Len(t, sum, DigestSize)
	return sum
}

func TestChunkedHash_MatchesOneShot(t *testing.T) {
	data := patternBytes(987650)
	want := blake2b.Sum256(data)
	assert.Equal(t, want[:], digestOf(t, data))
}

func TestChunkedHash_BoundaryIndependence(t *testing.T) {
	data := patternBytes(123457)
	want := digestOf(t, data)

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		var chunks [][]byte
		rest := data
		for len(rest) > 0 {
			n := 1 + rng.Intn(len(rest))
			chunks = append(chunks, rest[:n])
			rest = rest[n:]
		}
		assert.Equal(t, want, digestOf(t, chunks...), "trial %d with %d chunks", trial, len(chunks))
	}

	// Degenerate chunkings.
	assert.Equal(t, want, digestOf(t, data[:1], data[1:]))
	assert.Equal(t, want, digestOf(t, nil, data, nil))
}

func TestChunkedHash_EmptyInput(t *testing.T) {
	sum := digestOf(t)
	assert.Equal(t, blake2b256Empty, HexDigest(sum))
}

func TestChunkedHash_KeyedDiffersFromUnkeyed(t *testing.T) {
	mk, err := keys.GenerateMasterKey()
	require.NoError(t, err)
	defer mk.Destroy()
	hk, err := keys.NewHashKey(mk, 1, "filehash")
	require.NoError(t, err)
	defer hk.Destroy()

	data := patternBytes(4096)

	keyed, err := NewKeyed(hk)
	require.NoError(t, err)
	require.NoError(t, keyed.Update(data))
	keyedSum, err := keyed.Finalize()
	require.NoError(t, err)

	assert.NotEqual(t, digestOf(t, data), keyedSum)
	assert.Len(t, keyedSum, DigestSize)
}

func TestChunkedHash_KeyedDeterministic(t *testing.T) {
	mk, err := keys.MasterKeyFromHex(
		"2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b")
	require.NoError(t, err)
	defer mk.Destroy()

	data := patternBytes(1000)
	sums := make([][]byte, 2)
	for i := range sums {
		hk, err := keys.NewHashKey(mk, 1, "filehash")
		require.NoError(t, err)
		h, err := NewKeyed(hk)
		require.NoError(t, err)
		require.NoError(t, h.Update(data))
		sums[i], err = h.Finalize()
		require.NoError(t, err)
		hk.Destroy()
	}
	assert.Equal(t, sums[0], sums[1])
}

func TestChunkedHash_SingleUse(t *testing.T) {
	h, err := New()
	require.NoError(t, err)
	require.NoError(t, h.Update([]byte("abc")))

	_, err = h.Finalize()
	require.NoError(t, err)

	assert.ErrorIs(t, h.Update([]byte("more")), ErrFinalized)
	_, err = h.Finalize()
	assert.ErrorIs(t, err, ErrFinalized)
}

func TestNewKeyed_NilKey(t *testing.T) {
	_, err := NewKeyed(nil)
	assert.ErrorIs(t, err, ErrNilKey)
}
