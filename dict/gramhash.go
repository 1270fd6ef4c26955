package dict

import (
	"sync"

	"github.com/biogo/store/llrb"
	farm "github.com/dgryski/go-farm"
)

// GramNode is an ordered collection of shared references to posting lists:
// one logical "bucket" (a gram string of some length) may point at several
// physical posting lists, accumulated via suffix sharing (see GramHash).
// GramNode never owns a posting list; ownership lives in GramHash's
// distinctive map.
type GramNode struct {
	refs       []*PostingList
	valueCount int
}

func (n *GramNode) addRef(p *PostingList) {
	n.refs = append(n.refs, p)
}

// Refs returns the posting lists referenced by this node, in insertion
// order.
func (n *GramNode) Refs() []*PostingList { return n.refs }

// ValueCount returns the cached sum of Size() over every referenced posting
// list. It is only accurate immediately after a RecountAllNodes pass; bulk
// insertion leaves it stale until then.
func (n *GramNode) ValueCount() int { return n.valueCount }

func (n *GramNode) recount() {
	sum := 0
	for _, p := range n.refs {
		sum += p.Size()
	}
	n.valueCount = sum
}

// gramKey adapts a gram string for ordered storage in an llrb.Tree, giving
// persistence a deterministic (lexicographic) enumeration order for the
// distinctive/owning posting lists -- this matters because the shallow
// dump's gram-hash section is a flat, position-sensitive record list (see
// persist_shallow.go), and a Save that isn't byte-stable across repeated
// runs of the same index would make round-trip tests and diffable index
// artifacts unnecessarily awkward.
type gramKey string

func (k gramKey) Compare(other llrb.Comparable) int {
	o := other.(gramKey)
	switch {
	case k < o:
		return -1
	case k > o:
		return 1
	default:
		return 0
	}
}

// GramHash maps gram strings to gram nodes. Every prefix of an indexed head
// gram, down to minGramSize, resolves to a gram node containing shared
// references to the posting list registered for that head -- see Insert.
//
// A GramHash is built once by the index builder (or reconstructed by the
// persistence loader) and is read-only for the remainder of the process;
// the mutex below exists only because the concurrency model requires the
// threaded search strategy to take a lock around every gram-hash lookup
// (see coordinator.go), not because concurrent writers are supported.
type GramHash struct {
	mu          sync.RWMutex
	nodes       map[string]*GramNode
	distinctive map[string]*PostingList
	order       llrb.Tree
	ids         idGenerator

	maxGramSize int
	minGramSize int
}

// NewGramHash returns an empty GramHash with the given maximum and minimum
// gram widths.
func NewGramHash(maxGramSize, minGramSize int) *GramHash {
	if minGramSize > maxGramSize {
		minGramSize = maxGramSize
	}
	return &GramHash{
		nodes:       make(map[string]*GramNode),
		distinctive: make(map[string]*PostingList),
		maxGramSize: maxGramSize,
		minGramSize: minGramSize,
	}
}

// MaxGramSize returns the longest gram width indexed.
func (h *GramHash) MaxGramSize() int { return h.maxGramSize }

// MinGramSize returns the shortest suffix retained in the index.
func (h *GramHash) MinGramSize() int { return h.minGramSize }

// shardHash buckets an encoded entry for the builder's dedup pre-check (see
// Build in builder.go); the gram hash itself is keyed by the literal gram
// string, not by this hash.
func shardHash(s string) uint64 {
	return farm.Hash64([]byte(s), uint64(len(s)))
}

// Insert registers key (an entry index) under gram, following the head/
// suffix-sharing rule from SPEC_FULL.md §4.4: the first insertion under a
// head gram creates a fresh posting list and wires it into every suffix
// node down to minGramSize; every subsequent insertion under the same head
// appends to that same posting list.
func (h *GramHash) Insert(gram string, key uint32) error {
	l := h.maxGramSize
	if len(gram) < l {
		l = len(gram)
	}
	head := gram[:l]

	if owning, ok := h.distinctive[head]; ok {
		owning.Append(key)
		return nil
	}

	id, err := h.ids.nextID()
	if err != nil {
		return err
	}
	pl := newPostingList(id)
	pl.Append(key)
	h.distinctive[head] = pl
	h.order.Insert(gramKey(head))

	for ln := l; ln >= h.minGramSize; ln-- {
		sub := head[:ln]
		node, ok := h.nodes[sub]
		if !ok {
			node = &GramNode{}
			h.nodes[sub] = node
		}
		node.addRef(pl)
	}
	return nil
}

// Lookup returns the gram node for the given gram's head (truncated to
// maxGramSize, per Insert), or false if no entry was ever indexed under it.
func (h *GramHash) Lookup(gram string) (*GramNode, bool) {
	l := h.maxGramSize
	if len(gram) < l {
		l = len(gram)
	}
	h.mu.RLock()
	node, ok := h.nodes[gram[:l]]
	h.mu.RUnlock()
	return node, ok
}

// RecountAllNodes recomputes every gram node's ValueCount from its
// referenced posting lists' current Size(). It must be run after bulk
// insertion (the builder does this once, at the end of ingestion) and
// after a shallow-index load populates stub posting lists.
func (h *GramHash) RecountAllNodes() {
	for _, node := range h.nodes {
		node.recount()
	}
}

// distinctiveEntry is one (head, posting list) pair from the owning map,
// in deterministic (lexicographic-by-head) order.
type distinctiveEntry struct {
	Head string
	List *PostingList
}

// EnumerateDistinctive returns every (head gram, owning posting list) pair
// exactly once, in lexicographic order by head. Persistence uses this to
// write the gram-hash shallow dump and the id->offset sidecar map without
// serializing any posting list more than once, despite suffix sharing.
func (h *GramHash) EnumerateDistinctive() []distinctiveEntry {
	out := make([]distinctiveEntry, 0, len(h.distinctive))
	h.order.Do(func(c llrb.Comparable) (done bool) {
		head := string(c.(gramKey))
		out = append(out, distinctiveEntry{Head: head, List: h.distinctive[head]})
		return false
	})
	return out
}

// registerStub is used by the shallow-index loader to rebuild the gram hash
// topology from the shallow dump: for each distinctive gram, it creates a
// posting-list stub (payload not yet loaded) and wires it into every suffix
// node down to minGramSize, exactly as Insert would have for a fresh build.
func (h *GramHash) registerStub(head string, id uint32, size int, loader postingListLoader) {
	pl := newPostingListStub(id, size, loader)
	h.distinctive[head] = pl
	h.order.Insert(gramKey(head))
	for ln := len(head); ln >= h.minGramSize; ln-- {
		sub := head[:ln]
		node, ok := h.nodes[sub]
		if !ok {
			node = &GramNode{}
			h.nodes[sub] = node
		}
		node.addRef(pl)
	}
}
