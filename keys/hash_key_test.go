package keys

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHashKey(t *testing.T) {
	mk, err := GenerateMasterKey()
	require.NoError(t, err)
	defer mk.Destroy()

	hk, err := NewHashKey(mk, 1, "filehash")
	require.NoError(t, err)
	defer hk.Destroy()

	require.Len(t, hk.Bytes(), HashKeySize)

	// Matches a direct derivation with the same scope.
	var direct [HashKeySize]byte
	require.NoError(t, mk.DeriveSubkey(direct[:], 1, "filehash"))
	assert.Equal(t, direct[:], hk.Bytes())

	other, err := NewHashKey(mk, 2, "filehash")
	require.NoError(t, err)
	defer other.Destroy()
	assert.NotEqual(t, hk.Bytes(), other.Bytes())
}

func TestNewHashKey_DestroyedMaster(t *testing.T) {
	mk, err := GenerateMasterKey()
	require.NoError(t, err)
	mk.Destroy()

	_, err = NewHashKey(mk, 1, "filehash")
	assert.ErrorIs(t, err, ErrKeyDestroyed)
}

func TestHashKey_FormattingRedacts(t *testing.T) {
	mk, err := GenerateMasterKey()
	require.NoError(t, err)
	defer mk.Destroy()

	hk, err := NewHashKey(mk, 1, "filehash")
	require.NoError(t, err)
	defer hk.Destroy()

	repr := fmt.Sprintf("%v %s %#v", hk, hk, hk)
	assert.Contains(t, repr, "*****")
	assert.NotContains(t, repr, fmt.Sprintf("%x", hk.Bytes()))
}
