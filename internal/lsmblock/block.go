// Package lsmblock implements the on-disk block layer (spec §4.6): a
// block is a sorted run of key/value entries plus a trailing offset
// index, serialized as
//
//	[entry0 | entry1 | ... | entryN-1 | offset0 | offset1 | ... | offsetN-1 | count(u32)]
//	entryI = [keyLen(u16) | key | valueLen(u32) | value]
//	offsetI = u32 (byte offset of entryI within the entry region)
//
// grounded on lykiadb-lsm/src/block/builder.rs and .../iterator.rs.
package lsmblock

import (
	"encoding/binary"
	"fmt"
)

const (
	sizeofKeyLen   = 2 // u16
	sizeofValueLen = 4 // u32
	sizeofOffset   = 4 // u32
)

// Block is an immutable, already-built run of sorted entries.
type Block struct {
	buffer  []byte
	offsets []uint32
}

// Len returns the number of entries in the block.
func (b *Block) Len() int { return len(b.offsets) }

// EntryAt decodes the key and value stored at the given offset index.
func (b *Block) EntryAt(idx int) (key, value []byte, err error) {
	if idx < 0 || idx >= len(b.offsets) {
		return nil, nil, fmt.Errorf("lsmblock: entry index %d out of range", idx)
	}
	return b.decodeAt(int(b.offsets[idx]))
}

func (b *Block) decodeAt(offset int) ([]byte, []byte, error) {
	buf := b.buffer[offset:]
	if len(buf) < sizeofKeyLen {
		return nil, nil, fmt.Errorf("lsmblock: truncated entry at offset %d", offset)
	}
	keyLen := int(binary.BigEndian.Uint16(buf))
	buf = buf[sizeofKeyLen:]
	if len(buf) < keyLen+sizeofValueLen {
		return nil, nil, fmt.Errorf("lsmblock: truncated entry at offset %d", offset)
	}
	key := buf[:keyLen]
	buf = buf[keyLen:]
	valueLen := int(binary.BigEndian.Uint32(buf))
	buf = buf[sizeofValueLen:]
	if len(buf) < valueLen {
		return nil, nil, fmt.Errorf("lsmblock: truncated entry at offset %d", offset)
	}
	return key, buf[:valueLen], nil
}

// findKeyIdx returns the index of the first entry whose key is >= key
// (a standard lower-bound binary search over the block's sorted keys),
// or Len() if every key is smaller.
func (b *Block) findKeyIdx(key []byte) int {
	lo, hi := 0, len(b.offsets)
	for lo < hi {
		mid := (lo + hi) / 2
		k, _, err := b.decodeAt(int(b.offsets[mid]))
		if err != nil {
			return len(b.offsets)
		}
		if string(k) < string(key) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// Encode serializes the block to its on-disk byte layout.
func (b *Block) Encode() []byte {
	out := make([]byte, 0, len(b.buffer)+len(b.offsets)*sizeofOffset+4)
	out = append(out, b.buffer...)
	for _, off := range b.offsets {
		out = binary.BigEndian.AppendUint32(out, off)
	}
	out = binary.BigEndian.AppendUint32(out, uint32(len(b.offsets)))
	return out
}

// Decode parses a previously-encoded block back from its byte layout.
func Decode(data []byte) (*Block, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("lsmblock: block too short to contain a footer")
	}
	count := int(binary.BigEndian.Uint32(data[len(data)-4:]))
	footerStart := len(data) - 4 - count*sizeofOffset
	if footerStart < 0 {
		return nil, fmt.Errorf("lsmblock: block footer count %d exceeds buffer", count)
	}
	offsets := make([]uint32, count)
	for i := 0; i < count; i++ {
		offsets[i] = binary.BigEndian.Uint32(data[footerStart+i*sizeofOffset:])
	}
	return &Block{buffer: append([]byte(nil), data[:footerStart]...), offsets: offsets}, nil
}
