package lsmmeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummaryAggregatesBlockRanges(t *testing.T) {
	s := NewSummary()
	s.AddRange(BuildKeyRange([]byte("d"), []byte("f")))
	s.AddRange(BuildKeyRange([]byte("a"), []byte("c")))

	assert.Equal(t, "a", string(s.MinKey))
	assert.Equal(t, "f", string(s.MaxKey))
	assert.Equal(t, 2, s.Size())
}

func TestSummaryEncodeHasNoLengthPrefix(t *testing.T) {
	s := NewSummary()
	s.Add([]byte("max"))
	s.Add([]byte("min"))

	got := s.Encode(nil)
	assert.Equal(t, []byte("maxmin"), got)
}
