package dict

// Dictionary is the public facade over the approximate-match engine: build
// or load an index once, then run many concurrent Find/FindTrace queries
// against it. A Dictionary is safe for concurrent Find/FindTrace calls once
// Build or Load has returned; it is not safe to call Build, Load, Save, or
// Clear concurrently with any other method.
type Dictionary struct {
	opts       Opts
	store      *StringStore
	signatures []uint64
	hash       *GramHash

	corpusPath string
}

// NewDictionary returns an empty Dictionary configured with opts (defaults
// applied for any zero field). Call Build or Load before the first Find.
func NewDictionary(opts Opts) *Dictionary {
	opts = opts.withDefaults()
	return &Dictionary{
		opts:  opts,
		store: NewStringStore(),
		hash:  NewGramHash(opts.MaxGramSize, opts.MinGramSize),
	}
}

// Build ingests entries (as read from a corpus file, one entry per line by
// convention -- see corpus.ReadLines) and replaces this Dictionary's index.
// corpusPath is recorded on the Dictionary; Load does not use it, and does
// not rebuild from it after a BadMagic/BadVersion failure (see Load). If the
// build fails, the Dictionary is cleared.
func (d *Dictionary) Build(corpusPath string, entries []string) *Error {
	store, signatures, hash, err := Build(entries, d.opts)
	if err != nil {
		d.Clear()
		return err
	}
	d.store = store
	d.signatures = signatures
	d.hash = hash
	d.corpusPath = corpusPath
	return nil
}

// Save writes the dictionary to basename+".idb" (primary) and
// basename+".kdb" (sidecar).
func (d *Dictionary) Save(basename string) *Error {
	if err := saveShallow(d, basename+".idb", basename+".kdb"); err != nil {
		if e, ok := err.(*Error); ok {
			return e
		}
		return wrapError(KindIO, err, "save")
	}
	return nil
}

// SaveDeep writes the dictionary as a single self-contained
// basename+".fulldb" file, with no sidecar and no lazy loading on Load.
func (d *Dictionary) SaveDeep(basename string) *Error {
	if err := saveDeep(d, basename+".fulldb"); err != nil {
		if e, ok := err.(*Error); ok {
			return e
		}
		return wrapError(KindIO, err, "save deep")
	}
	return nil
}

// Load reads basename+".idb"/".kdb" into this Dictionary, replacing its
// current index. If the primary file's magic or version doesn't match
// (KindBadMagic or KindBadVersion) and a corpus path was previously
// recorded via Build, the caller should treat this as a signal to rebuild
// from source rather than fail outright -- see SPEC_FULL.md §7's recovery
// policy; Load itself does not perform this fallback automatically, since
// only the caller knows whether the corpus file is still present and
// current.
func (d *Dictionary) Load(basename string) *Error {
	loaded, err := loadShallow(basename+".idb", basename+".kdb", d.opts)
	if err != nil {
		return err
	}
	d.store = loaded.store
	d.signatures = loaded.signatures
	d.hash = loaded.hash
	d.opts = loaded.opts
	return nil
}

// LoadDeep reads basename+".fulldb" into this Dictionary, replacing its
// current index.
func (d *Dictionary) LoadDeep(basename string) *Error {
	loaded, err := loadDeep(basename+".fulldb", d.opts)
	if err != nil {
		return err
	}
	d.store = loaded.store
	d.signatures = loaded.signatures
	d.hash = loaded.hash
	d.opts = loaded.opts
	return nil
}

// Clear discards the current index, returning the Dictionary to the empty
// state NewDictionary produces.
func (d *Dictionary) Clear() {
	d.store = NewStringStore()
	d.hash = NewGramHash(d.opts.MaxGramSize, d.opts.MinGramSize)
	d.signatures = nil
	d.corpusPath = ""
}

// Encode exposes the package-level Encode function for callers that want to
// normalize a string the same way Find does, without running a search.
func (d *Dictionary) Encode(s string) string { return Encode(s) }

// CalcMaxTypos returns the typo budget Find would derive for needle under
// this Dictionary's Opts.
func (d *Dictionary) CalcMaxTypos(needle string) int {
	return CalcMaxTypos(Encode(needle), d.opts.MaxGramSize, d.opts.CharsPerError)
}

// Find runs the single-threaded search strategy and returns the best match
// within budget, if any.
func (d *Dictionary) Find(needle string) (string, bool) {
	return d.find(needle, nil, false)
}

// FindTrace is Find, but records into trace (if non-nil) one event per
// posting list searched: the gram and that list's best hit (InvalidTuple's
// index and distance when the list had none).
func (d *Dictionary) FindTrace(needle string, trace *Trace) (string, bool) {
	return d.find(needle, trace, false)
}

// FindThreaded runs the concurrent search coordinator instead of the
// single-threaded strategy, spread across Opts.NumWorkers goroutines. Its
// match is at the same distance as Find's for the same inputs, but may be a
// different entry when several entries tie (see coordinator.go).
func (d *Dictionary) FindThreaded(needle string) (string, bool) {
	return d.find(needle, nil, true)
}

// FindThreadedTrace is FindThreaded, but records into trace (if non-nil)
// one event per posting list searched, as FindTrace does.
func (d *Dictionary) FindThreadedTrace(needle string, trace *Trace) (string, bool) {
	return d.find(needle, trace, true)
}

func (d *Dictionary) find(needle string, trace *Trace, threaded bool) (string, bool) {
	var tuple KeyDistTuple
	if threaded {
		tuple = threadedSearchTrace(d.hash, d.store, d.signatures, needle, d.opts, trace)
	} else {
		tuple = simpleSearchTrace(d.hash, d.store, d.signatures, needle, d.opts, trace)
	}
	if !tuple.IsValid() {
		return "", false
	}
	return d.store.Original(tuple.Index), true
}

// Size returns the number of distinct entries in the dictionary.
func (d *Dictionary) Size() int { return d.store.Size() }
