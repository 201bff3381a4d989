// Package lsmmeta implements the small binary metadata structures that
// accompany the block layer (spec §4.6): a block's key range (stored
// alongside, not inside, the block itself), a table-level summary
// range spanning every block, and the offset registry an SSTable file
// uses to index its blocks. Grounded on
// lykiadb-lsm/src/meta/{key_range,summary,offset_reg}.rs.
package lsmmeta

import "encoding/binary"

// KeyRange tracks the lexicographically smallest and largest key added
// to it, serialized as
//
//	[minLen(u16) | min | maxLen(u16) | max]
//
// (or the empty byte string if no key was ever added).
type KeyRange struct {
	hasKeys bool
	MinKey  []byte
	MaxKey  []byte
}

// NewKeyRange returns an empty range.
func NewKeyRange() *KeyRange {
	return &KeyRange{}
}

// BuildKeyRange constructs a range already covering exactly min and
// max (min must sort <= max by the caller's convention, mirroring
// `build` in key_range.rs).
func BuildKeyRange(min, max []byte) *KeyRange {
	r := NewKeyRange()
	r.Add(min)
	r.Add(max)
	return r
}

// Add extends the range to include key, if it isn't already covered.
func (r *KeyRange) Add(key []byte) {
	if !r.hasKeys || string(key) < string(r.MinKey) {
		r.MinKey = append([]byte(nil), key...)
	}
	if !r.hasKeys || string(key) > string(r.MaxKey) {
		r.MaxKey = append([]byte(nil), key...)
	}
	r.hasKeys = true
}

// Len is the encoded size in bytes.
func (r *KeyRange) Len() int {
	if !r.hasKeys {
		return 0
	}
	return len(r.MinKey) + len(r.MaxKey) + 2*2
}

// Encode appends the range's on-disk representation to buf.
func (r *KeyRange) Encode(buf []byte) []byte {
	if !r.hasKeys {
		return buf
	}
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(r.MinKey)))
	buf = append(buf, r.MinKey...)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(r.MaxKey)))
	buf = append(buf, r.MaxKey...)
	return buf
}

// Merge returns a new range covering both r and other.
func (r *KeyRange) Merge(other *KeyRange) *KeyRange {
	merged := NewKeyRange()
	if !r.hasKeys && !other.hasKeys {
		return merged
	}
	if r.hasKeys {
		merged.Add(r.MinKey)
		merged.Add(r.MaxKey)
	}
	if other.hasKeys {
		merged.Add(other.MinKey)
		merged.Add(other.MaxKey)
	}
	return merged
}

// Contains reports whether key could plausibly live in this range
// (used to skip whole blocks during a lookup without decoding them).
func (r *KeyRange) Contains(key []byte) bool {
	if !r.hasKeys {
		return false
	}
	return string(key) >= string(r.MinKey) && string(key) <= string(r.MaxKey)
}
