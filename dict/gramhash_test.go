package dict

import "testing"

func TestGramHashSuffixSharing(t *testing.T) {
	h := NewGramHash(4, 2)
	if err := h.Insert("test", 0); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	for _, gram := range []string{"test", "tes", "te"} {
		node, ok := h.Lookup(gram)
		if !ok {
			t.Fatalf("Lookup(%q): not found", gram)
		}
		if len(node.Refs()) != 1 {
			t.Errorf("Lookup(%q): got %d refs, want 1", gram, len(node.Refs()))
		}
	}

	if _, ok := h.Lookup("t"); ok {
		t.Errorf("Lookup(%q): found below minGramSize, want not found", "t")
	}
}

func TestGramHashSharedHeadAppendsSameList(t *testing.T) {
	h := NewGramHash(4, 2)
	if err := h.Insert("test", 0); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := h.Insert("test", 1); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	node, ok := h.Lookup("test")
	if !ok {
		t.Fatalf("Lookup: not found")
	}
	if len(node.Refs()) != 1 {
		t.Fatalf("got %d distinct posting lists for one head, want 1 (shared)", len(node.Refs()))
	}
	if got := node.Refs()[0].Size(); got != 2 {
		t.Errorf("shared posting list size: got %d, want 2", got)
	}
}

func TestGramHashDistinctHeadsGetDistinctLists(t *testing.T) {
	h := NewGramHash(4, 2)
	h.Insert("test", 0)
	h.Insert("best", 1)

	entries := h.EnumerateDistinctive()
	if len(entries) != 2 {
		t.Fatalf("got %d distinctive entries, want 2", len(entries))
	}
}

func TestGramHashShortNodeAggregatesMultipleHeads(t *testing.T) {
	// "test" and "text" share the 2-char prefix "te" at their respective
	// 2-char truncations ("te" for "test", but "tex" truncated to 2 is also
	// "te"), so the minGramSize=2 node for "te" should reference both
	// distinct posting lists.
	h := NewGramHash(4, 2)
	h.Insert("test", 0)
	h.Insert("text", 1)

	node, ok := h.Lookup("te")
	if !ok {
		t.Fatalf("Lookup(%q): not found", "te")
	}
	if len(node.Refs()) != 2 {
		t.Errorf("got %d refs at shared suffix node, want 2", len(node.Refs()))
	}
}
