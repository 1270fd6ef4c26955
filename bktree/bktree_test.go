package bktree

import "testing"

var wordlist = []string{
	"book", "books", "cake", "boo", "boon", "cook", "cape", "cart",
}

func newTestTree() *BKTree {
	t := New(wordlist)
	for i := range wordlist {
		t.Insert(uint32(i))
	}
	return t
}

func TestFindExact(t *testing.T) {
	tree := newTestTree()
	m := tree.Find("cake", 0)
	if m == NoMatch {
		t.Fatalf("expected a match for exact word")
	}
	if wordlist[m.Key] != "cake" || m.Distance != 0 {
		t.Fatalf("got %+v, want exact match on %q", m, "cake")
	}
}

func TestFindWithinBudget(t *testing.T) {
	tree := newTestTree()
	m := tree.Find("bok", 1)
	if m == NoMatch {
		t.Fatalf("expected a match within budget 1")
	}
	if m.Distance > 1 {
		t.Fatalf("got distance %d, want <= 1", m.Distance)
	}
}

func TestFindNoMatch(t *testing.T) {
	tree := newTestTree()
	m := tree.Find("zzzzzzzzzz", 1)
	if m != NoMatch {
		t.Fatalf("got %+v, want NoMatch", m)
	}
}

func TestSizeCountsUniqueWords(t *testing.T) {
	tree := New([]string{"a", "a", "b"})
	tree.Insert(0)
	tree.Insert(1) // duplicate word, same as index 0
	tree.Insert(2)
	if got, want := tree.Size(), 2; got != want {
		t.Fatalf("got size %d, want %d", got, want)
	}
}

func TestEmptyTree(t *testing.T) {
	tree := New(nil)
	if m := tree.Find("anything", 2); m != NoMatch {
		t.Fatalf("got %+v, want NoMatch on empty tree", m)
	}
}
