package dict

import "testing"

func buildTestDict(t *testing.T, entries []string) *Dictionary {
	t.Helper()
	d := NewDictionary(DefaultOpts)
	if err := d.Build("", entries); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return d
}

func TestEndToEndScenarios(t *testing.T) {
	corpus := []string{"Hello World", "Foo Bar", "Louis Armstrong", "Earth"}
	d := buildTestDict(t, corpus)

	if got, ok := d.Find("Lois Armstrong"); !ok || got != "Louis Armstrong" {
		t.Errorf(`Find("Lois Armstrong"): got (%q, %v), want ("Louis Armstrong", true)`, got, ok)
	}

	budget := d.CalcMaxTypos("ooo")
	got, ok := d.Find("ooo")
	if budget >= 1 {
		if !ok || got != "Foo Bar" {
			t.Errorf(`Find("ooo") with budget %d: got (%q, %v), want ("Foo Bar", true)`, budget, got, ok)
		}
	} else if ok {
		t.Errorf(`Find("ooo") with budget %d: got (%q, true), want no match`, budget, got)
	}

	if _, ok := d.Find("zzzzzz"); ok {
		t.Errorf(`Find("zzzzzz"): got a match, want no match`)
	}

	if got, ok := d.Find("hello world"); !ok || got != "Hello World" {
		t.Errorf(`Find("hello world"): got (%q, %v), want ("Hello World", true)`, got, ok)
	}
}

func TestSingleEntryBudget(t *testing.T) {
	d := buildTestDict(t, []string{"abcde"})

	if got, ok := d.Find("abcXe"); !ok || got != "abcde" {
		t.Errorf(`Find("abcXe"): got (%q, %v), want ("abcde", true)`, got, ok)
	}
	if _, ok := d.Find("abXYe"); ok {
		t.Errorf(`Find("abXYe"): got a match, want no match`)
	}
}

func TestDedupCollapsesIdenticalLines(t *testing.T) {
	d := buildTestDict(t, []string{"Hello World", "Hello World", "Foo Bar"})
	if got, want := d.Size(), 2; got != want {
		t.Errorf("Size(): got %d, want %d", got, want)
	}
}

func TestThreadedMatchesSimpleDistance(t *testing.T) {
	corpus := []string{
		"Hello World", "Foo Bar", "Louis Armstrong", "Earth",
		"Albert Einstein", "Marie Curie", "Alan Turing", "Grace Hopper",
	}
	d := buildTestDict(t, corpus)

	queries := []string{"Hello Wrld", "Fo Bar", "Louis Armstrong", "zzzzzz", "Alan Tuing", "xyz"}
	for _, q := range queries {
		simple := SimpleSearch(d.hash, d.store, d.signatures, q, d.opts)
		threaded := ThreadedSearch(d.hash, d.store, d.signatures, q, d.opts)
		if simple.IsValid() != threaded.IsValid() {
			t.Errorf("query %q: simple valid=%v threaded valid=%v", q, simple.IsValid(), threaded.IsValid())
			continue
		}
		if simple.IsValid() && simple.Distance != threaded.Distance {
			t.Errorf("query %q: simple distance=%d threaded distance=%d", q, simple.Distance, threaded.Distance)
		}
	}
}

func TestPigeonholeRecallSelfLookup(t *testing.T) {
	corpus := []string{"Hello World", "Foo Bar", "Louis Armstrong", "Earth", "Alan Turing"}
	d := buildTestDict(t, corpus)
	for _, entry := range corpus {
		got, ok := d.Find(entry)
		if !ok || got != entry {
			t.Errorf("Find(%q): got (%q, %v), want (%q, true)", entry, got, ok, entry)
		}
	}
}

func TestGramHashValueCountInvariant(t *testing.T) {
	corpus := []string{"Hello World", "Foo Bar", "Louis Armstrong", "Earth", "Hello Worlds"}
	d := buildTestDict(t, corpus)
	d.hash.RecountAllNodes()
	for key, node := range d.hash.nodes {
		sum := 0
		for _, pl := range node.Refs() {
			sum += pl.Size()
		}
		if node.ValueCount() != sum {
			t.Errorf("gram %q: ValueCount()=%d, want %d", key, node.ValueCount(), sum)
		}
	}
}

func TestExtractGramsNonEmpty(t *testing.T) {
	encoded := Encode("louis armstrong")
	budget := CalcMaxTypos(encoded, DefaultOpts.MaxGramSize, DefaultOpts.CharsPerError)
	grams := extractGrams(encoded, budget, DefaultOpts.MaxGramSize)
	if len(grams) == 0 {
		t.Fatalf("extractGrams returned no grams for %q", encoded)
	}
	for _, g := range grams {
		if len(g.text) == 0 {
			t.Errorf("extractGrams produced an empty gram")
		}
	}
}
