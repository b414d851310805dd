package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_RoundTrip(t *testing.T) {
	c, err := New(t.TempDir(), 1, true)
	require.NoError(t, err)

	data := []byte(`{"total_commits":42}`)
	hash := HashBytes([]byte("head-abc123"))
	require.NoError(t, c.Set("repo:/src/app", hash, data))

	got, ok := c.Get("repo:/src/app", hash)
	require.True(t, ok, "Get() miss after Set()")
	assert.Equal(t, data, got)
}

func TestCache_HashMismatchMisses(t *testing.T) {
	c, err := New(t.TempDir(), 1, true)
	require.NoError(t, err)
	require.NoError(t, c.Set("key", HashBytes([]byte("v1")), []byte("data")))

	_, ok := c.Get("key", HashBytes([]byte("v2")))
	assert.False(t, ok, "stale entry served after inputs changed")
}

func TestCache_UnknownKeyMisses(t *testing.T) {
	c, err := New(t.TempDir(), 1, true)
	require.NoError(t, err)

	_, ok := c.Get("never-set", "hash")
	assert.False(t, ok)
}

func TestCache_Disabled(t *testing.T) {
	c, err := New("", 1, false)
	require.NoError(t, err)

	assert.NoError(t, c.Set("key", "hash", []byte("data")))
	_, ok := c.Get("key", "hash")
	assert.False(t, ok, "disabled cache returned a hit")
}

func TestHashBytes(t *testing.T) {
	assert.Equal(t, HashBytes([]byte("x")), HashBytes([]byte("x")))
	assert.NotEqual(t, HashBytes([]byte("x")), HashBytes([]byte("y")))
	assert.Len(t, HashBytes([]byte("x")), 64)
}
