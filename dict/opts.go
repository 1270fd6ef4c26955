package dict

// Opts controls the behavior of a Dictionary: how typo budgets are derived
// from needle length, how many workers the threaded search strategy uses,
// and which persistence framing is applied on Save.
type Opts struct {
	// CharsPerError is the number of encoded characters a single permitted
	// edit is allotted when deriving a query's typo budget from its length
	// (see Dictionary.CalcMaxTypos). Smaller values tolerate more typos per
	// character; larger values are stricter.
	CharsPerError int

	// MaxGramSize is the width, in characters, of the longest gram indexed
	// for any entry. It is also the ceiling on a query's derived typo
	// budget.
	MaxGramSize int

	// MinGramSize is the shortest gram suffix retained in the gram hash.
	// Every prefix of an indexed head gram down to this length resolves to
	// a gram node referencing the same posting list.
	MinGramSize int

	// NumWorkers is the size of the fixed worker pool used by the threaded
	// search strategy. Zero selects DefaultOpts.NumWorkers.
	NumWorkers int

	// CompressSidecar wraps the shallow sidecar's posting-list stream in a
	// klauspost/compress/flate writer on Save, and a matching reader on
	// Load. Off by default: compression defeats the byte-offset seeking
	// that lazy loading relies on (see persist_shallow.go), so it should
	// only be enabled for archival copies that will be loaded eagerly.
	CompressSidecar bool
}

// DefaultOpts are the options used by NewDictionary when no Opts is given.
var DefaultOpts = Opts{
	CharsPerError:   4,
	MaxGramSize:     4,
	MinGramSize:     2,
	NumWorkers:      3,
	CompressSidecar: false,
}

func (o Opts) withDefaults() Opts {
	if o.CharsPerError <= 0 {
		o.CharsPerError = DefaultOpts.CharsPerError
	}
	if o.MaxGramSize <= 0 {
		o.MaxGramSize = DefaultOpts.MaxGramSize
	}
	if o.MinGramSize <= 0 {
		o.MinGramSize = DefaultOpts.MinGramSize
	}
	if o.MinGramSize > o.MaxGramSize {
		o.MinGramSize = o.MaxGramSize
	}
	if o.NumWorkers <= 0 {
		o.NumWorkers = DefaultOpts.NumWorkers
	}
	return o
}
