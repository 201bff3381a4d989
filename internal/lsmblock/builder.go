package lsmblock

import (
	"encoding/binary"

	"github.com/lykia-rs/lykiadb-sub001/internal/lsmmeta"
)

// Builder accumulates key/value entries up to MaxSize bytes (spec
// §4.6's flush threshold) before refusing further adds, tracking the
// block's key range as entries are written. Grounded directly on
// BlockBuilder in lykiadb-lsm/src/block/builder.rs.
type Builder struct {
	maxSize  int
	buffer   []byte
	offsets  []uint32
	KeyRange *lsmmeta.KeyRange
}

// NewBuilder returns a Builder that refuses adds once the encoded
// block would exceed maxSize bytes.
func NewBuilder(maxSize int) *Builder {
	return &Builder{maxSize: maxSize, KeyRange: lsmmeta.NewKeyRange()}
}

// Add appends one key/value entry, returning false (without mutating
// the builder) if doing so would exceed MaxSize.
func (b *Builder) Add(key, value []byte) bool {
	requiredForData := len(key) + len(value) + sizeofKeyLen + sizeofValueLen
	requiredForMeta := sizeofOffset
	if requiredForData+requiredForMeta+b.Len() > b.maxSize {
		return false
	}

	b.offsets = append(b.offsets, uint32(len(b.buffer)))
	b.buffer = binary.BigEndian.AppendUint16(b.buffer, uint16(len(key)))
	b.buffer = append(b.buffer, key...)
	b.buffer = binary.BigEndian.AppendUint32(b.buffer, uint32(len(value)))
	b.buffer = append(b.buffer, value...)
	b.KeyRange.Add(key)
	return true
}

// IsEmpty reports whether any entry has been added.
func (b *Builder) IsEmpty() bool { return len(b.buffer) == 0 }

// Len is the encoded size so far, excluding the key range (which is
// stored separately per spec §4.6).
func (b *Builder) Len() int {
	return len(b.buffer) + sizeofOffset*len(b.offsets) + 4
}

// Build finalizes the builder into an immutable Block.
func (b *Builder) Build() *Block {
	buf := make([]byte, len(b.buffer))
	copy(buf, b.buffer)
	offsets := make([]uint32, len(b.offsets))
	copy(offsets, b.offsets)
	return &Block{buffer: buf, offsets: offsets}
}
