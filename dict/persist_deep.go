package dict

import (
	"bufio"
	"io"
	"os"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
)

// Deep persistence writes a single self-contained ".fulldb" file: the same
// prologue as the shallow format (magic, version, gram size, string
// arrays, bit signatures), followed by the gram-hash shallow dump, the
// posting-list count, and every posting list's full payload in distinctive
// order. There is no sidecar and no lazy loading -- Load reads
// the whole file into memory immediately, which is the right tradeoff for
// a dictionary small enough to ship as one archival artifact (see
// SPEC_FULL.md §4.7's "deep" format note).
//
// The payload section is optionally snappy-framed: unlike the shallow
// sidecar, the deep file is never seeked into by id, so compressing the
// whole stream costs nothing beyond a sequential decode on Load.

func saveDeep(d *Dictionary, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return wrapError(KindIO, err, "create deep file")
	}
	defer f.Close()

	var out = bufio.NewWriter(f)
	if err := writeU16(out, deepMagic); err != nil {
		return wrapError(KindIO, err, "write magic")
	}
	if err := writeU16(out, formatVersion); err != nil {
		return wrapError(KindIO, err, "write version")
	}
	if err := writeU32(out, uint32(d.opts.MaxGramSize)); err != nil {
		return wrapError(KindIO, err, "write gram size")
	}
	if err := writeStringArray(out, d.store.encoded); err != nil {
		return wrapError(KindIO, err, "write encoded entries")
	}
	if err := writeStringArray(out, d.store.original); err != nil {
		return wrapError(KindIO, err, "write original entries")
	}
	if err := writeBitSignatures(out, d.signatures); err != nil {
		return wrapError(KindIO, err, "write bit signatures")
	}
	if err := writeGramHashShallow(out, d.hash); err != nil {
		return wrapError(KindIO, err, "write gram hash")
	}

	entries := d.hash.EnumerateDistinctive()
	if err := writeU32(out, uint32(len(entries))); err != nil {
		return wrapError(KindIO, err, "write posting list count")
	}

	if d.opts.CompressSidecar {
		sw := snappy.NewBufferedWriter(out)
		for _, e := range entries {
			if err := writePostingListDeep(sw, e.List); err != nil {
				return wrapError(KindIO, err, "write compressed posting list")
			}
		}
		if err := sw.Close(); err != nil {
			return wrapError(KindIO, err, "close compressed posting lists")
		}
	} else {
		for _, e := range entries {
			if err := writePostingListDeep(out, e.List); err != nil {
				return wrapError(KindIO, err, "write posting list")
			}
		}
	}

	if err := out.Flush(); err != nil {
		return wrapError(KindIO, err, "flush deep file")
	}
	if err := f.Sync(); err != nil {
		return wrapError(KindIO, err, "sync deep file")
	}
	return nil
}

func loadDeep(path string, opts Opts) (*Dictionary, *Error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapError(KindIO, err, "open deep file")
	}
	defer f.Close()
	r := bufio.NewReader(f)

	magic, err := readU16(r)
	if err != nil {
		return nil, wrapError(KindIO, err, "read magic")
	}
	if magic != deepMagic {
		return nil, newError(KindBadMagic, "deep file magic mismatch")
	}
	version, err := readU16(r)
	if err != nil {
		return nil, wrapError(KindIO, err, "read version")
	}
	if version != formatVersion {
		return nil, newError(KindBadVersion, "deep file version mismatch")
	}
	gramSize, err := readU32(r)
	if err != nil {
		return nil, wrapError(KindIO, err, "read gram size")
	}
	encodedEntries, err := readStringArray(r)
	if err != nil {
		return nil, wrapError(KindIO, err, "read encoded entries")
	}
	originalEntries, err := readStringArray(r)
	if err != nil {
		return nil, wrapError(KindIO, err, "read original entries")
	}
	signatures, err := readBitSignatures(r)
	if err != nil {
		return nil, wrapError(KindIO, err, "read bit signatures")
	}

	opts.MaxGramSize = int(gramSize)
	opts = opts.withDefaults()

	hash, err := readGramHashShallow(r, opts.MaxGramSize, opts.MinGramSize, nil)
	if err != nil {
		return nil, wrapError(KindIO, err, "read gram hash")
	}

	count, err := readU32(r)
	if err != nil {
		return nil, wrapError(KindIO, err, "read posting list count")
	}
	if count > maxRecordBytes {
		return nil, newError(KindIO, "posting list count exceeds sanity bound")
	}

	entries := hash.EnumerateDistinctive()
	if uint32(len(entries)) != count {
		return nil, newError(KindIO, "deep file posting list count mismatch")
	}

	if opts.CompressSidecar {
		sr := snappy.NewReader(r)
		if err := fillPostingLists(sr, hash); err != nil {
			return nil, wrapError(KindIO, err, "read compressed posting lists")
		}
	} else {
		if err := fillPostingLists(r, hash); err != nil {
			return nil, wrapError(KindIO, err, "read posting lists")
		}
	}

	hash.RecountAllNodes()

	store := &StringStore{encoded: encodedEntries, original: originalEntries}
	return &Dictionary{
		opts:       opts,
		store:      store,
		signatures: signatures,
		hash:       hash,
	}, nil
}

// fillPostingLists reads one deep record per distinctive posting list
// already registered in hash (as stubs, via readGramHashShallow) and
// installs each payload directly.
func fillPostingLists(r io.Reader, hash *GramHash) error {
	byID := make(map[uint32]*PostingList)
	for _, e := range hash.EnumerateDistinctive() {
		byID[e.List.ID()] = e.List
	}
	for i := 0; i < len(byID); i++ {
		id, entries, err := readPostingListDeep(r)
		if err != nil {
			return err
		}
		pl, ok := byID[id]
		if !ok {
			return errors.Errorf("deep file: posting list id %d not declared in gram hash", id)
		}
		pl.setEntries(entries)
	}
	return nil
}
