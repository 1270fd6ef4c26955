package dict

import "testing"

func TestDictionaryClearResetsToEmpty(t *testing.T) {
	d := buildTestDict(t, []string{"Hello World", "Foo Bar"})
	if d.Size() == 0 {
		t.Fatalf("expected non-empty dictionary before Clear")
	}
	d.Clear()
	if got := d.Size(); got != 0 {
		t.Errorf("Size() after Clear: got %d, want 0", got)
	}
	if _, ok := d.Find("Hello World"); ok {
		t.Errorf("Find after Clear: got a match, want no match")
	}
}

func TestDictionaryEncodeMatchesPackageEncode(t *testing.T) {
	d := NewDictionary(DefaultOpts)
	if got, want := d.Encode("Hello, World!"), Encode("Hello, World!"); got != want {
		t.Errorf("d.Encode: got %q, want %q", got, want)
	}
}

func TestDictionaryCalcMaxTyposMatchesPackageFunction(t *testing.T) {
	d := NewDictionary(DefaultOpts)
	needle := "Louis Armstrong"
	got := d.CalcMaxTypos(needle)
	want := CalcMaxTypos(Encode(needle), DefaultOpts.MaxGramSize, DefaultOpts.CharsPerError)
	if got != want {
		t.Errorf("CalcMaxTypos: got %d, want %d", got, want)
	}
}

func TestFindTraceRecordsCandidates(t *testing.T) {
	d := buildTestDict(t, []string{"Hello World", "Foo Bar", "Louis Armstrong", "Earth"})
	trace := NewTrace()
	got, ok := d.FindTrace("Lois Armstrong", trace)
	if !ok || got != "Louis Armstrong" {
		t.Fatalf("FindTrace: got (%q,%v), want (%q,true)", got, ok, "Louis Armstrong")
	}
	if len(trace.Events) == 0 {
		t.Errorf("expected FindTrace to record at least one candidate event")
	}
}

func TestFindThreadedTraceRecordsCandidates(t *testing.T) {
	d := buildTestDict(t, []string{"Hello World", "Foo Bar", "Louis Armstrong", "Earth"})
	trace := NewTrace()
	got, ok := d.FindThreadedTrace("Lois Armstrong", trace)
	if !ok || got != "Louis Armstrong" {
		t.Fatalf("FindThreadedTrace: got (%q,%v), want (%q,true)", got, ok, "Louis Armstrong")
	}
	if len(trace.Events) == 0 {
		t.Errorf("expected FindThreadedTrace to record at least one candidate event")
	}
}

func TestNilTraceIsSafe(t *testing.T) {
	var trace *Trace
	trace.append(TraceEvent{Gram: "ab"})
	trace.logf("unreachable but must not panic: %d", 1)
}
