package dict

// SearchInfo bundles everything a per-gram search needs to look up
// candidates and score them. It is constructed once per query and is
// read-only for the lifetime of the query, including inside the threaded
// coordinator's workers.
type SearchInfo struct {
	Needle     string
	NeedleSig  uint64
	Store      *StringStore
	Signatures []uint64
	Budget     int
	Trace      *Trace
}

// CalcMaxTypos derives a query's permitted typo budget from its encoded
// length: T = min(maxGramSize, len(encoded)/charsPerError).
func CalcMaxTypos(encoded string, maxGramSize, charsPerError int) int {
	t := len(encoded) / charsPerError
	if t > maxGramSize {
		t = maxGramSize
	}
	return t
}

// gram is one non-overlapping substring extracted from an encoded needle
// for gram-hash lookup.
type gram struct {
	text string
}

// extractGrams partitions encoded into gramCount non-overlapping grams
// following SPEC_FULL.md §4.5 step 3: gramJump = len/(T+1), gramLen =
// min(gramJump, maxGramSize), gramCount = len/gramLen, grams taken at
// offsets i*gramJump; if the last gram leaves residual characters, it is
// widened to maxGramSize from the same offset (which may overlap the
// previous gram -- tolerated by design, since it only helps recall near the
// needle's tail).
func extractGrams(encoded string, budget, maxGramSize int) []gram {
	n := len(encoded)
	if n == 0 {
		return nil
	}
	gramJump := n / (budget + 1)
	if gramJump < 1 {
		gramJump = 1
	}
	gramLen := gramJump
	if gramLen > maxGramSize {
		gramLen = maxGramSize
	}
	if gramLen < 1 {
		gramLen = 1
	}
	gramCount := n / gramLen
	if gramCount < 1 {
		gramCount = 1
	}

	grams := make([]gram, 0, gramCount)
	for i := 0; i < gramCount; i++ {
		offset := i * gramJump
		if offset >= n {
			break
		}
		length := gramLen
		if i == gramCount-1 {
			// Widen the last gram to cover any residual characters.
			length = maxGramSize
		}
		end := offset + length
		if end > n {
			end = n
		}
		if end <= offset {
			continue
		}
		grams = append(grams, gram{text: encoded[offset:end]})
	}
	return grams
}

// SimpleSearch runs the single-threaded query pipeline: encode, derive a
// typo budget, extract disjoint grams, and scan every candidate posting
// list referenced by any matching gram node, keeping the minimum-distance
// hit. It returns InvalidTuple if no entry lies within budget.
func SimpleSearch(hash *GramHash, store *StringStore, signatures []uint64, needle string, opts Opts) KeyDistTuple {
	return simpleSearchTrace(hash, store, signatures, needle, opts, nil)
}

func simpleSearchTrace(hash *GramHash, store *StringStore, signatures []uint64, needle string, opts Opts, trace *Trace) KeyDistTuple {
	encoded := Encode(needle)
	if encoded == "" {
		return InvalidTuple
	}
	budget := CalcMaxTypos(encoded, opts.MaxGramSize, opts.CharsPerError)
	grams := extractGrams(encoded, budget, opts.MaxGramSize)
	info := &SearchInfo{
		Needle:     encoded,
		NeedleSig:  BitSignature(encoded),
		Store:      store,
		Signatures: signatures,
		Budget:     budget,
		Trace:      trace,
	}

	best := InvalidTuple
	for _, g := range grams {
		node, ok := hash.Lookup(g.text)
		if !ok {
			continue
		}
		for _, pl := range node.Refs() {
			tuple := pl.Find(info)
			trace.append(TraceEvent{Gram: g.text, Candidate: tuple.Index, Distance: int(tuple.Distance)})
			if tuple.betterThan(best) {
				best = tuple
			}
			if best.IsValid() && best.Distance == 0 {
				return best
			}
		}
	}
	return best
}
