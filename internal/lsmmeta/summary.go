package lsmmeta

// Summary is a table-level key range spanning every block in an
// SSTable: unlike KeyRange, its encoding carries no length prefixes,
// since a table's summary is always read back as a known-length pair
// (the table footer already records both lengths). Grounded on
// lykiadb-lsm/src/meta/summary.rs.
type Summary struct {
	hasKeys bool
	MinKey  []byte
	MaxKey  []byte
}

// NewSummary returns an empty summary.
func NewSummary() *Summary {
	return &Summary{}
}

// Add extends the summary to include key.
func (s *Summary) Add(key []byte) {
	if !s.hasKeys || string(key) < string(s.MinKey) {
		s.MinKey = append([]byte(nil), key...)
	}
	if !s.hasKeys || string(key) > string(s.MaxKey) {
		s.MaxKey = append([]byte(nil), key...)
	}
	s.hasKeys = true
}

// AddRange folds a block's KeyRange into the table-level summary.
func (s *Summary) AddRange(r *KeyRange) {
	if !r.hasKeys {
		return
	}
	s.Add(r.MinKey)
	s.Add(r.MaxKey)
}

// Size is the encoded size in bytes.
func (s *Summary) Size() int {
	return len(s.MinKey) + len(s.MaxKey)
}

// Encode appends min then max, unprefixed, to buf.
func (s *Summary) Encode(buf []byte) []byte {
	buf = append(buf, s.MinKey...)
	buf = append(buf, s.MaxKey...)
	return buf
}
