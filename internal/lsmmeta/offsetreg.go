package lsmmeta

import (
	"encoding/binary"
	"fmt"
)

// OffsetRegistry indexes each block's starting byte offset within an
// SSTable file, serialized as
//
//	[count(u16) | offset0(u16) | offset1(u16) | ... ]
//
// count-first, unlike a block's own entry-offset footer (which is
// count-last) — grounded on lykiadb-lsm/src/meta/offset_reg.rs.
type OffsetRegistry struct {
	offsets []uint16
}

// NewOffsetRegistry returns a registry seeded with initial offsets
// (nil for an empty registry).
func NewOffsetRegistry(initial []uint16) *OffsetRegistry {
	return &OffsetRegistry{offsets: append([]uint16(nil), initial...)}
}

// Add records one more block offset.
func (r *OffsetRegistry) Add(offset uint16) {
	r.offsets = append(r.offsets, offset)
}

// Offsets returns the recorded offsets in insertion order.
func (r *OffsetRegistry) Offsets() []uint16 {
	return r.offsets
}

// Size is the encoded size in bytes.
func (r *OffsetRegistry) Size() int {
	return 2 + len(r.offsets)*2
}

// Encode appends the registry's on-disk representation to buf.
func (r *OffsetRegistry) Encode(buf []byte) []byte {
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(r.offsets)))
	for _, off := range r.offsets {
		buf = binary.BigEndian.AppendUint16(buf, off)
	}
	return buf
}

// DecodeOffsetRegistry parses a previously-encoded registry from the
// start of data, returning it along with the number of bytes consumed.
func DecodeOffsetRegistry(data []byte) (*OffsetRegistry, int, error) {
	if len(data) < 2 {
		return nil, 0, fmt.Errorf("lsmmeta: truncated offset registry count")
	}
	count := int(binary.BigEndian.Uint16(data))
	consumed := 2 + count*2
	if len(data) < consumed {
		return nil, 0, fmt.Errorf("lsmmeta: truncated offset registry entries")
	}
	offsets := make([]uint16, count)
	for i := 0; i < count; i++ {
		offsets[i] = binary.BigEndian.Uint16(data[2+i*2:])
	}
	return &OffsetRegistry{offsets: offsets}, consumed, nil
}
