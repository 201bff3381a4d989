package lsmblock

import "iter"

// Iterator walks a Block's entries in key order, positioned either by
// repeated Next calls or by seeking to the first entry at or above a
// probe key. Grounded on lykiadb-lsm/src/block/iterator.rs's
// BlockIterator.
type Iterator struct {
	block *Block
	idx   int
	key   []byte
	value []byte
}

// NewIterator returns an iterator positioned before the block's first
// entry; call Next or SeekKey before reading Key/Value.
func NewIterator(b *Block) *Iterator {
	return &Iterator{block: b}
}

// Valid reports whether the iterator currently points at an entry.
func (it *Iterator) Valid() bool { return it.key != nil }

// Key returns the key of the entry the iterator currently points at.
func (it *Iterator) Key() []byte { return it.key }

// Value returns the value of the entry the iterator currently points at.
func (it *Iterator) Value() []byte { return it.value }

// Next advances to the next entry in key order, reporting whether the
// iterator landed on a valid entry.
func (it *Iterator) Next() bool {
	return it.seekIdx(it.idx)
}

// SeekKey positions the iterator at the first entry whose key is >= key,
// the same lower-bound semantics Block.findKeyIdx implements.
func (it *Iterator) SeekKey(key []byte) bool {
	return it.seekIdx(it.block.findKeyIdx(key))
}

func (it *Iterator) seekIdx(idx int) bool {
	if idx < 0 || idx >= it.block.Len() {
		it.key, it.value = nil, nil
		it.idx = 0
		return false
	}
	key, value, err := it.block.EntryAt(idx)
	if err != nil {
		it.key, it.value = nil, nil
		return false
	}
	it.key, it.value = key, value
	it.idx = idx + 1
	return true
}

// All iterates every entry of the block in key order.
func (b *Block) All() iter.Seq2[[]byte, []byte] {
	return func(yield func([]byte, []byte) bool) {
		it := NewIterator(b)
		for it.Next() {
			if !yield(it.Key(), it.Value()) {
				return
			}
		}
	}
}
