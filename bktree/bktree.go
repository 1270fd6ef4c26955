// Package bktree implements a Burkhard-Keller tree over a fixed wordlist,
// indexed by bounded edit distance. It is carried as a standalone,
// independently-useful structure; nothing in dict's search pipeline calls
// it (see SPEC_FULL.md §1's explicit "present but unwired" note) -- it
// exists as an alternative metric-tree strategy for the same approximate-
// match problem, not as a dependency of the gram-hash pipeline.
package bktree

import (
	"math"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/adict/dict"
)

// invalidKey marks an empty node (the tree has no root yet).
const invalidKey = math.MaxUint32

// Match is a (key, distance) pair returned by Find. Find does not use the
// zero-value Match to signal "nothing within budget" (Match{Key: 0,
// Distance: 0} is an exact hit on key 0, since uint32(0) is itself a valid
// wordlist key); it returns NoMatch instead.
type Match struct {
	Key      uint32
	Distance int
}

// NoMatch is returned by Find when no entry lies within the typo budget.
var NoMatch = Match{Key: invalidKey, Distance: math.MaxInt32}

// node is one Burkhard-Keller tree node: the wordlist key it represents,
// and its children keyed by their exact edit distance from this node.
type node struct {
	key      uint32
	children map[int]*node
}

func (n *node) leaf(distance int) (*node, bool) {
	c, ok := n.children[distance]
	return c, ok
}

func (n *node) addLeaf(distance int, key uint32) {
	if n.children == nil {
		n.children = make(map[int]*node)
	}
	n.children[distance] = &node{key: key}
}

// BKTree indexes a wordlist by exact (unbounded) edit distance, following
// the classical Burkhard-Keller construction: each node's children are
// keyed by their precise distance from the parent, which lets Find prune
// entire subtrees using the triangle inequality instead of scanning every
// entry.
//
// BKTree does not own the wordlist; it stores only indices into it, the
// same "doesn't own or modify the wordlist" contract as the structure this
// is ported from.
type BKTree struct {
	wordlist []string
	root     *node
	size     int

	// seen dedups exact-duplicate words on Insert by a fast hash
	// pre-check: walking a BK-tree to re-insert a word already present
	// produces a useless distance-0 child chain, so a duplicate is
	// dropped before it ever reaches the tree walk.
	seen map[uint64]uint32
}

// New returns an empty BKTree over wordlist. Insert keys (indices into
// wordlist) to populate it.
func New(wordlist []string) *BKTree {
	return &BKTree{
		wordlist: wordlist,
		root:     &node{key: invalidKey},
		seen:     make(map[uint64]uint32),
	}
}

// Insert adds wordlist[key] to the tree. REQUIRES: key < len(wordlist).
func (t *BKTree) Insert(key uint32) {
	word := t.wordlist[key]
	h := seahash.Sum64([]byte(word))
	if existing, ok := t.seen[h]; ok && t.wordlist[existing] == word {
		return
	}
	t.seen[h] = key

	if t.root.key == invalidKey {
		t.root.key = key
		t.size++
		return
	}

	current := t.root
	distance := t.distanceTo(current, word)
	for {
		next, ok := current.leaf(distance)
		if !ok {
			break
		}
		current = next
		distance = t.distanceTo(current, word)
	}
	current.addLeaf(distance, key)
	t.size++
}

func (t *BKTree) distanceTo(n *node, word string) int {
	return dict.EditDistance(t.wordlist[n.key], word, math.MaxInt32-1, dict.Exact)
}

// Size returns the number of entries inserted into the tree.
func (t *BKTree) Size() int { return t.size }

// Find returns the closest entry to pattern within maxTypos edits, or
// NoMatch if none qualifies. It prunes subtrees whose every child distance
// falls outside [d-maxTypos, d+maxTypos] of the current node's distance d,
// the triangle-inequality argument a Burkhard-Keller tree is built around.
func (t *BKTree) Find(pattern string, maxTypos int) Match {
	if t.root == nil || t.root.key == invalidKey {
		return NoMatch
	}
	return t.find(t.root, pattern, maxTypos)
}

func (t *BKTree) find(n *node, pattern string, maxTypos int) Match {
	if len(n.children) == 0 {
		d := dict.EditDistance(t.wordlist[n.key], pattern, maxTypos, dict.Exact)
		if d <= maxTypos {
			return Match{Key: n.key, Distance: d}
		}
		return NoMatch
	}

	distance := dict.EditDistance(t.wordlist[n.key], pattern, math.MaxInt32-1, dict.Exact)
	best := NoMatch

	// Visit candidate child distances radiating outward from distance:
	// distance, distance+1, distance-1, distance+2, distance-2, ...
	for d := 0; d <= maxTypos; d++ {
		for _, i := range candidateOffsets(d) {
			child, ok := n.leaf(distance + i)
			if !ok {
				continue
			}
			result := t.find(child, pattern, maxTypos)
			if result.Distance == 0 {
				return result
			}
			if result.Distance <= maxTypos && result.Distance < best.Distance {
				best = result
			}
		}
	}

	if d := dict.EditDistance(t.wordlist[n.key], pattern, maxTypos, dict.Exact); d <= maxTypos && d < best.Distance {
		best = Match{Key: n.key, Distance: d}
	}
	return best
}

// candidateOffsets returns the offsets to probe at radius d: {0} for d==0,
// {d, -d} otherwise -- mirroring the original's "start from * and jump left
// to right outwards" traversal order.
func candidateOffsets(d int) []int {
	if d == 0 {
		return []int{0}
	}
	return []int{d, -d}
}
