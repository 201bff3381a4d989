package lsmblock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestBlock(t *testing.T, pairs [][2]string) *Block {
	t.Helper()
	b := NewBuilder(4096)
	for _, p := range pairs {
		require.True(t, b.Add([]byte(p[0]), []byte(p[1])))
	}
	return b.Build()
}

func TestIteratorWalksAllEntriesInOrder(t *testing.T) {
	block := buildTestBlock(t, [][2]string{
		{"key1", "value1"},
		{"key20", "value30"},
		{"key300", "value500"},
	})

	var keys []string
	for k := range block.All() {
		keys = append(keys, string(k))
	}
	assert.Equal(t, []string{"key1", "key20", "key300"}, keys)
}

func TestIteratorValue(t *testing.T) {
	block := buildTestBlock(t, [][2]string{
		{"key1", "value1"},
		{"key20", "value30"},
		{"key300", "value500"},
	})

	it := NewIterator(block)
	require.True(t, it.Next())
	assert.Equal(t, "value1", string(it.Value()))
	require.True(t, it.Next())
	assert.Equal(t, "value30", string(it.Value()))
	require.True(t, it.Next())
	assert.Equal(t, "value500", string(it.Value()))
	assert.False(t, it.Next())
}

func TestIteratorSeekKey(t *testing.T) {
	block := buildTestBlock(t, [][2]string{
		{"key1", "value1"},
		{"key20", "value30"},
		{"key300", "value300"},
		{"key4000", "value4000"},
		{"key5000", "value5000"},
		{"key600", "value600"},
	})

	it := NewIterator(block)
	require.True(t, it.SeekKey([]byte("key5000")))
	assert.Equal(t, "value5000", string(it.Value()))
}

func TestIteratorSeekClosestKey(t *testing.T) {
	block := buildTestBlock(t, [][2]string{
		{"1", "value1"},
		{"3", "value3"},
		{"5", "value5"},
	})

	it := NewIterator(block)

	require.True(t, it.SeekKey([]byte("3")))
	assert.Equal(t, "value3", string(it.Value()))

	require.True(t, it.SeekKey([]byte("2")))
	assert.Equal(t, "value3", string(it.Value()))

	require.True(t, it.SeekKey([]byte("4")))
	assert.Equal(t, "value5", string(it.Value()))

	require.True(t, it.SeekKey([]byte("1")))
	assert.Equal(t, "value1", string(it.Value()))

	require.True(t, it.SeekKey([]byte("5")))
	assert.Equal(t, "value5", string(it.Value()))
}

func TestIteratorSeekPastEndIsInvalid(t *testing.T) {
	block := buildTestBlock(t, [][2]string{{"1", "value1"}})

	it := NewIterator(block)
	assert.False(t, it.SeekKey([]byte("9")))
	assert.False(t, it.Valid())
}
