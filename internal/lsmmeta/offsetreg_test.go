package lsmmeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffsetRegistryEncode(t *testing.T) {
	r := NewOffsetRegistry(nil)
	r.Add(256)
	r.Add(512)
	r.Add(1024)

	got := r.Encode(nil)
	expected := []byte{0, 3, 1, 0, 2, 0, 4, 0}
	assert.Equal(t, expected, got)
	assert.Equal(t, 8, r.Size())
}

func TestOffsetRegistryDecodeRoundTrip(t *testing.T) {
	r := NewOffsetRegistry([]uint16{10, 20, 30})
	encoded := r.Encode([]byte{0xFF}) // prefixed by unrelated bytes

	decoded, n, err := DecodeOffsetRegistry(encoded[1:])
	require.NoError(t, err)
	assert.Equal(t, len(encoded)-1, n)
	assert.Equal(t, []uint16{10, 20, 30}, decoded.Offsets())
}

func TestOffsetRegistryEmpty(t *testing.T) {
	r := NewOffsetRegistry(nil)
	assert.Equal(t, 2, r.Size())
	assert.Equal(t, []byte{0, 0}, r.Encode(nil))
}
