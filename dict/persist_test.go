package dict

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/testutil"
	"github.com/stretchr/testify/require"
)

// corrupt overwrites the first two bytes of path (the format magic) so Load
// must reject it with KindBadMagic.
func corrupt(t *testing.T, path string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.WriteAt([]byte{0xba, 0xad}, 0)
	require.NoError(t, err)
}

func hundredEntryCorpus() []string {
	entries := make([]string, 0, 100)
	base := []string{
		"Hello World", "Foo Bar", "Louis Armstrong", "Earth", "Alan Turing",
		"Grace Hopper", "Marie Curie", "Albert Einstein", "Ada Lovelace", "Rosalind Franklin",
	}
	for i := 0; i < 10; i++ {
		for _, b := range base {
			entries = append(entries, b+" "+itoa(i))
		}
	}
	return entries
}

// itoa avoids pulling in strconv for this one call site's worth of use in
// test data generation.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := []byte{}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}

func TestShallowRoundTrip(t *testing.T) {
	corpus := []string{"Hello World", "Foo Bar", "Louis Armstrong", "Earth"}
	d := buildTestDict(t, corpus)

	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	basename := filepath.Join(dir, "index")

	require.Nil(t, d.Save(basename))

	loaded := NewDictionary(DefaultOpts)
	require.Nil(t, loaded.Load(basename))

	queries := append(append([]string{}, corpus...), "Lois Armstrong", "ooo", "zzzzzz", "hello world")
	for _, q := range queries {
		wantMatch, wantOK := d.Find(q)
		gotMatch, gotOK := loaded.Find(q)
		if gotOK != wantOK || gotMatch != wantMatch {
			t.Errorf("query %q: loaded (%q,%v) != in-memory (%q,%v)", q, gotMatch, gotOK, wantMatch, wantOK)
		}
	}
}

func TestShallowRoundTripHundredEntries(t *testing.T) {
	corpus := hundredEntryCorpus()
	d := buildTestDict(t, corpus)

	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	basename := filepath.Join(dir, "index")
	require.Nil(t, d.Save(basename))

	loaded := NewDictionary(DefaultOpts)
	require.Nil(t, loaded.Load(basename))

	for _, entry := range corpus {
		got, ok := loaded.Find(entry)
		if !ok || got != entry {
			t.Errorf("Find(%q) after reload: got (%q, %v), want (%q, true)", entry, got, ok, entry)
		}
	}
}

func TestDeepRoundTrip(t *testing.T) {
	corpus := []string{"Hello World", "Foo Bar", "Louis Armstrong", "Earth"}
	d := buildTestDict(t, corpus)

	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	basename := filepath.Join(dir, "index")

	require.Nil(t, d.SaveDeep(basename))

	loaded := NewDictionary(DefaultOpts)
	require.Nil(t, loaded.LoadDeep(basename))

	queries := append(append([]string{}, corpus...), "Lois Armstrong", "ooo", "zzzzzz", "hello world")
	for _, q := range queries {
		wantMatch, wantOK := d.Find(q)
		gotMatch, gotOK := loaded.Find(q)
		if gotOK != wantOK || gotMatch != wantMatch {
			t.Errorf("query %q: loaded (%q,%v) != in-memory (%q,%v)", q, gotMatch, gotOK, wantMatch, wantOK)
		}
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	basename := filepath.Join(dir, "index")

	d := buildTestDict(t, []string{"Hello World"})
	require.Nil(t, d.Save(basename))

	// Corrupt the primary file's magic bytes.
	corrupt(t, basename+".idb")

	loaded := NewDictionary(DefaultOpts)
	err := loaded.Load(basename)
	require.NotNil(t, err)
	require.Equal(t, KindBadMagic, err.Kind())
}
