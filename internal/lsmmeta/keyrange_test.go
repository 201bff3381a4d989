package lsmmeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyRangeTracksMinMax(t *testing.T) {
	r := NewKeyRange()
	assert.Equal(t, 0, r.Len())

	for _, k := range []string{"zebra", "apple", "dog", "cat"} {
		r.Add([]byte(k))
	}
	assert.Equal(t, "apple", string(r.MinKey))
	assert.Equal(t, "zebra", string(r.MaxKey))
	assert.Equal(t, 14, r.Len()) // 5 + 5 + 4
}

func TestKeyRangeEncode(t *testing.T) {
	r := NewKeyRange()
	r.Add([]byte("max"))
	r.Add([]byte("min"))

	got := r.Encode(nil)
	expected := []byte{0, 3, 'm', 'a', 'x', 0, 3, 'm', 'i', 'n'}
	assert.Equal(t, expected, got)
}

func TestKeyRangeEncodeEmpty(t *testing.T) {
	r := NewKeyRange()
	assert.Empty(t, r.Encode(nil))
}

func TestKeyRangeMerge(t *testing.T) {
	a := BuildKeyRange([]byte("b"), []byte("d"))
	b := BuildKeyRange([]byte("a"), []byte("c"))

	merged := a.Merge(b)
	assert.Equal(t, "a", string(merged.MinKey))
	assert.Equal(t, "d", string(merged.MaxKey))
}

func TestKeyRangeContains(t *testing.T) {
	r := BuildKeyRange([]byte("b"), []byte("y"))
	assert.True(t, r.Contains([]byte("m")))
	assert.False(t, r.Contains([]byte("a")))
	assert.False(t, r.Contains([]byte("z")))
}
