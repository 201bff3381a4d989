package lsmblock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildBlock(t *testing.T, pairs [][2]string) *Block {
	t.Helper()
	b := NewBuilder(4096)
	for _, p := range pairs {
		require.True(t, b.Add([]byte(p[0]), []byte(p[1])))
	}
	return b.Build()
}

func TestEntryAtIteratesInInsertionOrder(t *testing.T) {
	block := buildBlock(t, [][2]string{
		{"key1", "value1"},
		{"key20", "value30"},
		{"key300", "value500"},
	})

	require.Equal(t, 3, block.Len())

	k, v, err := block.EntryAt(0)
	require.NoError(t, err)
	assert.Equal(t, "key1", string(k))
	assert.Equal(t, "value1", string(v))

	k, v, err = block.EntryAt(2)
	require.NoError(t, err)
	assert.Equal(t, "key300", string(k))
	assert.Equal(t, "value500", string(v))
}

func TestFindKeyIdxExactMatch(t *testing.T) {
	block := buildBlock(t, [][2]string{
		{"1", "value1"},
		{"3", "value3"},
		{"5", "value5"},
	})

	idx := block.findKeyIdx([]byte("3"))
	_, v, err := block.EntryAt(idx)
	require.NoError(t, err)
	assert.Equal(t, "value3", string(v))
}

// A lookup for a key between two stored keys lands on the next key >=
// it (lower-bound semantics), mirroring BlockIterator::seek_key.
func TestFindKeyIdxClosestKey(t *testing.T) {
	block := buildBlock(t, [][2]string{
		{"1", "value1"},
		{"3", "value3"},
		{"5", "value5"},
	})

	idx := block.findKeyIdx([]byte("2"))
	_, v, err := block.EntryAt(idx)
	require.NoError(t, err)
	assert.Equal(t, "value3", string(v))

	idx = block.findKeyIdx([]byte("4"))
	_, v, err = block.EntryAt(idx)
	require.NoError(t, err)
	assert.Equal(t, "value5", string(v))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	block := buildBlock(t, [][2]string{
		{"key1", "value1"},
		{"key20", "value30"},
	})

	decoded, err := Decode(block.Encode())
	require.NoError(t, err)
	assert.Equal(t, block.Len(), decoded.Len())

	k, v, err := decoded.EntryAt(1)
	require.NoError(t, err)
	assert.Equal(t, "key20", string(k))
	assert.Equal(t, "value30", string(v))
}
