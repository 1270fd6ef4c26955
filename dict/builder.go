package dict

import "github.com/grailbio/base/log"

// Build ingests a corpus (one entry per element of entries, in order) into
// a fresh StringStore, bit-signature table, and GramHash, following
// the corpus ingestion rule: duplicate encoded entries collapse to
// a single StringStore slot (first-insertion order wins for the returned
// original form), and every maxGramSize-truncated head extracted from an
// entry's encoded form is indexed once per occurrence via GramHash.Insert
// (so a head seen in two different entries still produces two postings
// under the same owning list).
//
// Duplicate detection is bucketed by shardHash before falling back to an
// exact string compare, so a corpus with many long, near-identical encoded
// entries doesn't pay a full-string comparison against every prior entry
// just to confirm it's new.
//
// Build returns early with an error of Kind KindTooManyEntries or
// KindOutOfIDs if the corpus is too large for a single dictionary instance;
// in either case the caller should treat the whole build as failed rather
// than use a partially-built index.
func Build(entries []string, opts Opts) (*StringStore, []uint64, *GramHash, *Error) {
	opts = opts.withDefaults()

	store := NewStringStore()
	hash := NewGramHash(opts.MaxGramSize, opts.MinGramSize)
	var signatures []uint64
	seen := make(map[uint64][]uint32, len(entries))

	log.Debug.Printf("dict: building index from %d raw entries (maxGramSize=%d, minGramSize=%d)",
		len(entries), opts.MaxGramSize, opts.MinGramSize)

	for _, original := range entries {
		encoded := Encode(original)
		if encoded == "" {
			continue
		}

		bucket := shardHash(encoded)
		alreadySeen := false
		for _, candidate := range seen[bucket] {
			if store.Encoded(candidate) == encoded {
				alreadySeen = true
				break
			}
		}
		if alreadySeen {
			continue
		}

		idx, err := store.Append(encoded, original)
		if err != nil {
			return nil, nil, nil, err.(*Error)
		}
		seen[bucket] = append(seen[bucket], idx)
		signatures = append(signatures, BitSignature(encoded))

		for _, head := range buildGrams(encoded, opts.MaxGramSize) {
			if ierr := hash.Insert(head, idx); ierr != nil {
				return nil, nil, nil, ierr.(*Error)
			}
		}
	}

	hash.RecountAllNodes()
	log.Printf("dict: indexed %d distinct entries into %d gram-hash nodes", store.Size(), len(hash.nodes))
	return store, signatures, hash, nil
}

// buildGrams returns every maxGramSize-wide sliding-window substring of
// encoded; an entry no longer than maxGramSize is returned whole as its
// single gram, so it still gets indexed under its own full length. Unlike extractGrams (the query-time,
// budget-driven, non-overlapping partition in search.go), the builder must
// see every offset: a query gram extracted at an arbitrary offset has to be
// able to find any entry it could plausibly match, which requires the
// index to hold a posting for every substring position, not just a sampled
// subset.
func buildGrams(encoded string, maxGramSize int) []string {
	n := len(encoded)
	if n == 0 {
		return nil
	}
	if n <= maxGramSize {
		return []string{encoded}
	}
	grams := make([]string, 0, n-maxGramSize+1)
	for i := 0; i+maxGramSize <= n; i++ {
		grams = append(grams, encoded[i:i+maxGramSize])
	}
	return grams
}
