package dict

import (
	"math"
	"sync"
)

// KeyDistTuple pairs an entry index with its edit distance from a query.
// Ordering is by distance only; ties are broken by whichever result a
// caller saw first (see the coordinator's reduction in coordinator.go).
type KeyDistTuple struct {
	Index    uint32
	Distance uint8
}

// InvalidTuple is returned by Find/Search when no entry was within budget.
var InvalidTuple = KeyDistTuple{Index: math.MaxUint32, Distance: math.MaxUint8}

// IsValid reports whether t denotes a real hit.
func (t KeyDistTuple) IsValid() bool { return t != InvalidTuple }

// betterThan reports whether t is a strictly better (lower-distance) match
// than other. Invalid tuples are never better than anything.
func (t KeyDistTuple) betterThan(other KeyDistTuple) bool {
	if !t.IsValid() {
		return false
	}
	if !other.IsValid() {
		return true
	}
	return t.Distance < other.Distance
}

// postingListLoader deserializes a posting list's payload on first access.
// It is set by the persistence layer when a shallow index is loaded; it is
// nil for posting lists built fresh by the index builder (already loaded).
type postingListLoader interface {
	loadPostingList(id uint32) ([]uint32, error)
}

// PostingList is a list of entry indices identified by a stable,
// per-dictionary-unique id. It may be referenced by several gram nodes
// (suffix sharing), so it is always handled through a shared pointer, never
// copied.
//
// Every shared mutable field is guarded by mu, per the locking discipline:
// the threaded search coordinator may call Find concurrently from several
// workers, and the first caller to observe !loaded pays for deserializing
// the payload while the rest block on mu.
type PostingList struct {
	id uint32

	mu       sync.RWMutex
	entries  []uint32
	loaded   bool
	declSize int // serialized size, valid before the payload is loaded
	loader   postingListLoader
}

// newPostingList creates an already-loaded posting list with the given id,
// for use by the index builder.
func newPostingList(id uint32) *PostingList {
	return &PostingList{id: id, loaded: true}
}

// newPostingListStub creates a posting-list stub for the shallow loader: id
// and declared size are known, but the payload is not yet deserialized.
func newPostingListStub(id uint32, size int, loader postingListLoader) *PostingList {
	return &PostingList{id: id, declSize: size, loader: loader}
}

// ID returns the posting list's stable id.
func (p *PostingList) ID() uint32 { return p.id }

// setEntries installs a fully-deserialized payload directly, bypassing the
// lazy loader. Used by deep-format loading, which reads every posting
// list's entries eagerly and has no loader to defer to.
func (p *PostingList) setEntries(entries []uint32) {
	p.mu.Lock()
	p.entries = entries
	p.loaded = true
	p.mu.Unlock()
}

// Append adds an entry index. REQUIRES: the posting list is already loaded
// (true of every posting list the builder creates).
func (p *PostingList) Append(index uint32) {
	p.mu.Lock()
	p.entries = append(p.entries, index)
	p.mu.Unlock()
}

// Size returns the posting list's entry count: the true count when loaded,
// or the serialized size from the shallow header otherwise.
func (p *PostingList) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.loaded {
		return len(p.entries)
	}
	return p.declSize
}

// ensureLoaded lazily deserializes the payload on first access. Per the
// recovery policy, a load failure is logged to trace (if non-nil) and the
// list is treated as empty for this query rather than surfaced as an error.
func (p *PostingList) ensureLoaded(trace *Trace) {
	p.mu.RLock()
	loaded := p.loaded
	p.mu.RUnlock()
	if loaded {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loaded {
		return
	}
	entries, err := p.loader.loadPostingList(p.id)
	if err != nil {
		trace.logf("posting list %d: lazy load failed: %v (treated as empty)", p.id, err)
		entries = nil
	}
	p.entries = entries
	p.loaded = true
}

// Find is the hot inner loop: it walks the posting list's entries in order
// and applies the three-stage filter (length, bit signature, bounded edit
// distance), returning the best (minimum-distance) hit or InvalidTuple.
func (p *PostingList) Find(info *SearchInfo) KeyDistTuple {
	p.ensureLoaded(info.Trace)

	p.mu.RLock()
	entries := p.entries
	p.mu.RUnlock()

	best := InvalidTuple
	needleLen := len(info.Needle)
	budget := info.Budget
	for _, idx := range entries {
		if abs(needleLen-info.Store.SizeOf(idx)) > budget {
			continue
		}
		if MinBitDistance(info.NeedleSig, info.Signatures[idx]) > budget {
			continue
		}
		d := EditDistance(info.Needle, info.Store.Encoded(idx), budget, Substring)
		if d > budget {
			continue
		}
		tuple := KeyDistTuple{Index: idx, Distance: uint8(d)}
		if tuple.betterThan(best) {
			best = tuple
			if d == 0 {
				break
			}
		}
	}
	return best
}

// idGenerator hands out ids that are unique within a single dictionary
// instance, per the "no static counter" design note: two
// dictionaries built or loaded in the same process must not collide, so
// each Dictionary owns its own generator rather than sharing package-level
// state.
type idGenerator struct {
	next      uint32
	exhausted bool
}

func (g *idGenerator) nextID() (uint32, error) {
	if g.exhausted {
		return 0, errOutOfIDs
	}
	id := g.next
	if g.next == math.MaxUint32 {
		g.exhausted = true
	} else {
		g.next++
	}
	return id, nil
}
