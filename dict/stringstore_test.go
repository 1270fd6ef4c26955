package dict

import "testing"

func TestStringStoreAppendAndAccess(t *testing.T) {
	s := NewStringStore()
	i0, err := s.Append("hello world", "Hello World")
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	i1, err := s.Append("foo bar", "Foo Bar")
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	if i0 != 0 || i1 != 1 {
		t.Errorf("got indices %d, %d, want 0, 1", i0, i1)
	}
	if s.Size() != 2 {
		t.Errorf("Size(): got %d, want 2", s.Size())
	}
	if s.Encoded(i0) != "hello world" || s.Original(i0) != "Hello World" {
		t.Errorf("entry 0: got (%q,%q)", s.Encoded(i0), s.Original(i0))
	}
	if s.SizeOf(i1) != len("foo bar") {
		t.Errorf("SizeOf(i1): got %d, want %d", s.SizeOf(i1), len("foo bar"))
	}
}

func TestPostingListFindLengthFilter(t *testing.T) {
	store := NewStringStore()
	idx, _ := store.Append("hello world", "Hello World")
	sigs := []uint64{BitSignature("hello world")}

	pl := newPostingList(0)
	pl.Append(idx)

	info := &SearchInfo{
		Needle:     "hi",
		NeedleSig:  BitSignature("hi"),
		Store:      store,
		Signatures: sigs,
		Budget:     1,
	}
	if got := pl.Find(info); got.IsValid() {
		t.Errorf("Find with length filter should reject: got %+v", got)
	}
}

func TestPostingListFindExactHit(t *testing.T) {
	store := NewStringStore()
	idx, _ := store.Append("hello world", "Hello World")
	sigs := []uint64{BitSignature("hello world")}

	pl := newPostingList(0)
	pl.Append(idx)

	info := &SearchInfo{
		Needle:     "hello world",
		NeedleSig:  BitSignature("hello world"),
		Store:      store,
		Signatures: sigs,
		Budget:     2,
	}
	got := pl.Find(info)
	if !got.IsValid() || got.Distance != 0 || got.Index != idx {
		t.Errorf("Find exact: got %+v, want distance 0 at index %d", got, idx)
	}
}

func TestIDGeneratorExhaustion(t *testing.T) {
	g := idGenerator{next: 1<<32 - 1}
	id, err := g.nextID()
	if err != nil {
		t.Fatalf("expected one more id before exhaustion, got error: %v", err)
	}
	if id != 1<<32-1 {
		t.Errorf("got id %d, want %d", id, uint32(1<<32-1))
	}
	if _, err := g.nextID(); err == nil {
		t.Errorf("expected errOutOfIDs after exhausting id space")
	}
}
