package dict

// maxEntries is the most entries the string store will hold, so the highest
// index it hands out is maxEntries-1. Index 2^32-1 is the reserved "not
// found" sentinel, so indices stop one below it.
const maxEntries = 1<<32 - 1

// StringStore is an append-only, slice-backed array of strings with O(1)
// access by index. It holds both the encoded form of every entry (used
// for matching) and the original form (returned to callers on a hit).
//
// A StringStore is built once and read many times; it has no locking of its
// own because, per the concurrency model, the search path only ever reads
// from a fully-built, immutable store.
type StringStore struct {
	encoded  []string
	original []string
}

// NewStringStore returns an empty store.
func NewStringStore() *StringStore {
	return &StringStore{}
}

// Append adds one entry, returning its index. It returns an error of Kind
// KindTooManyEntries if the store would grow past maxEntries.
func (s *StringStore) Append(encoded, original string) (uint32, error) {
	if len(s.encoded) >= maxEntries {
		return 0, errTooManyEntries
	}
	idx := uint32(len(s.encoded))
	s.encoded = append(s.encoded, encoded)
	s.original = append(s.original, original)
	return idx, nil
}

// Size returns the number of entries in the store.
func (s *StringStore) Size() int { return len(s.encoded) }

// Encoded returns the encoded form of entry i. REQUIRES: i < Size().
func (s *StringStore) Encoded(i uint32) string { return s.encoded[i] }

// Original returns the original (un-encoded) form of entry i.
// REQUIRES: i < Size().
func (s *StringStore) Original(i uint32) string { return s.original[i] }

// SizeOf returns the length, in bytes, of the encoded form of entry i. This
// is the length used by the length filter in posting-list Find.
func (s *StringStore) SizeOf(i uint32) int { return len(s.encoded[i]) }
