package dict

import (
	"bufio"
	"io"
	"math"
	"os"
	"sort"

	"github.com/klauspost/compress/flate"
	"github.com/pkg/errors"
)

// Shallow persistence writes the primary ".idb" file (everything except
// posting-list payloads) and a sidecar ".kdb" file (posting-list deep
// records, one per distinctive/owning posting list), and supports loading
// the primary file back with posting lists left as unloaded stubs that
// deserialize lazily from the sidecar on first Find.
//
// The gram-hash dump only needs to record the distinctive/owning map
// (head gram -> posting list): every suffix-sharing entry in GramHash.nodes
// is mechanically re-derived from a head the same way Insert derived it the
// first time, so serializing them as well would just repeat the same
// (id, size) pair once per suffix length for nothing. refCount is kept in
// the per-record layout for wire-format symmetry with PostingListShallow's
// array convention elsewhere, even though the owning map is one-to-one and
// it is always 1 today.

func writeGramHashShallow(w io.Writer, hash *GramHash) error {
	entries := hash.EnumerateDistinctive()

	if err := writeU32(w, uint32(len(entries))); err != nil {
		return err
	}
	for _, e := range entries {
		if err := writeQString(w, e.Head); err != nil {
			return err
		}
		if err := writeU32(w, 1); err != nil { // refCount
			return err
		}
		if err := writeU32(w, e.List.id); err != nil {
			return err
		}
		if err := writeU32(w, uint32(e.List.Size())); err != nil {
			return err
		}
	}
	return nil
}

// readGramHashShallow reconstructs a GramHash's full suffix-sharing topology
// from its distinctive/owning map, using the same registerStub helper the
// shallow loader has always used for this.
func readGramHashShallow(r io.Reader, maxGramSize, minGramSize int, loader postingListLoader) (*GramHash, error) {
	hash := NewGramHash(maxGramSize, minGramSize)

	count, err := readU32(r)
	if err != nil {
		return nil, err
	}
	if count > maxRecordBytes {
		return nil, errors.New("gram hash distinctive count exceeds sanity bound")
	}

	for i := uint32(0); i < count; i++ {
		head, err := readQString(r)
		if err != nil {
			return nil, err
		}
		refCount, err := readU32(r)
		if err != nil {
			return nil, err
		}
		if refCount != 1 {
			return nil, errors.Errorf("gram %q: unsupported refCount %d", head, refCount)
		}
		id, err := readU32(r)
		if err != nil {
			return nil, err
		}
		size, err := readU32(r)
		if err != nil {
			return nil, err
		}
		hash.registerStub(head, id, int(size), loader)
	}
	return hash, nil
}

// seekLoader lazily loads posting-list payloads from an uncompressed
// sidecar by reading at the id's recorded byte offset. Reads go through
// positioned ReadAt calls, so several posting lists may load concurrently
// from the one shared file.
type seekLoader struct {
	f       *os.File
	offsets map[uint32]uint64
}

func (l *seekLoader) loadPostingList(id uint32) ([]uint32, error) {
	offset, ok := l.offsets[id]
	if !ok {
		return nil, errors.Errorf("posting list %d: no sidecar offset recorded", id)
	}
	r := io.NewSectionReader(l.f, int64(offset), math.MaxInt64-int64(offset))
	gotID, err := readU32(r)
	if err != nil {
		return nil, errors.Wrap(err, "read posting list id")
	}
	if gotID != id {
		return nil, errors.Errorf("posting list %d: sidecar offset points at id %d", id, gotID)
	}
	size, err := readU32(r)
	if err != nil {
		return nil, errors.Wrap(err, "read posting list size")
	}
	entries := make([]uint32, size)
	for i := range entries {
		if entries[i], err = readU32(r); err != nil {
			return nil, errors.Wrap(err, "read posting list entry")
		}
	}
	return entries, nil
}

// eagerLoader serves posting lists from a map built by decompressing and
// scanning the whole (compressed) sidecar once at Load time -- used when
// Opts.CompressSidecar is set, since flate's stream framing does not permit
// seeking directly to an arbitrary record's start.
type eagerLoader struct {
	entries map[uint32][]uint32
}

func (l *eagerLoader) loadPostingList(id uint32) ([]uint32, error) {
	entries, ok := l.entries[id]
	if !ok {
		return nil, errors.Errorf("posting list %d: not present in sidecar", id)
	}
	return entries, nil
}

func writePostingListDeep(w io.Writer, pl *PostingList) error {
	if err := writeU32(w, pl.id); err != nil {
		return err
	}
	entries := pl.entries
	if err := writeU32(w, uint32(len(entries))); err != nil {
		return err
	}
	for _, e := range entries {
		if err := writeU32(w, e); err != nil {
			return err
		}
	}
	return nil
}

func readPostingListDeep(r io.Reader) (id uint32, entries []uint32, err error) {
	if id, err = readU32(r); err != nil {
		return 0, nil, err
	}
	size, err := readU32(r)
	if err != nil {
		return 0, nil, err
	}
	if size > maxRecordBytes {
		return 0, nil, errors.New("posting list size exceeds sanity bound")
	}
	entries = make([]uint32, size)
	for i := range entries {
		if entries[i], err = readU32(r); err != nil {
			return 0, nil, err
		}
	}
	return id, entries, nil
}

// saveShallow writes the primary file to primaryPath and the sidecar to
// sidecarPath.
func saveShallow(d *Dictionary, primaryPath, sidecarPath string) error {
	sidecarFile, err := os.Create(sidecarPath)
	if err != nil {
		return wrapError(KindIO, err, "create sidecar file")
	}
	defer sidecarFile.Close()

	distinctive := d.hash.EnumerateDistinctive()
	idToOffset := make(map[uint32]uint64, len(distinctive))

	if d.opts.CompressSidecar {
		fw, _ := flate.NewWriter(sidecarFile, flate.DefaultCompression)
		var offset uint64
		for _, entry := range distinctive {
			idToOffset[entry.List.id] = offset // unused by eagerLoader; kept for format completeness
			offset++
			if err := writePostingListDeep(fw, entry.List); err != nil {
				return wrapError(KindIO, err, "write compressed sidecar record")
			}
		}
		if err := fw.Close(); err != nil {
			return wrapError(KindIO, err, "close compressed sidecar")
		}
	} else {
		bw := bufio.NewWriter(sidecarFile)
		var offset uint64
		for _, entry := range distinctive {
			idToOffset[entry.List.id] = offset
			if err := writePostingListDeep(bw, entry.List); err != nil {
				return wrapError(KindIO, err, "write sidecar record")
			}
			offset += 4 + 4 + 4*uint64(len(entry.List.entries))
		}
		if err := bw.Flush(); err != nil {
			return wrapError(KindIO, err, "flush sidecar")
		}
	}
	if err := sidecarFile.Sync(); err != nil {
		return wrapError(KindIO, err, "sync sidecar")
	}

	primaryFile, err := os.Create(primaryPath)
	if err != nil {
		return wrapError(KindIO, err, "create primary file")
	}
	defer primaryFile.Close()
	bw := bufio.NewWriter(primaryFile)

	if err := writeU16(bw, shallowMagic); err != nil {
		return wrapError(KindIO, err, "write magic")
	}
	if err := writeU16(bw, formatVersion); err != nil {
		return wrapError(KindIO, err, "write version")
	}
	if err := writeU32(bw, uint32(d.opts.MaxGramSize)); err != nil {
		return wrapError(KindIO, err, "write gram size")
	}
	if err := writeStringArray(bw, d.store.encoded); err != nil {
		return wrapError(KindIO, err, "write encoded entries")
	}
	if err := writeStringArray(bw, d.store.original); err != nil {
		return wrapError(KindIO, err, "write original entries")
	}
	if err := writeBitSignatures(bw, d.signatures); err != nil {
		return wrapError(KindIO, err, "write bit signatures")
	}
	if err := writeGramHashShallow(bw, d.hash); err != nil {
		return wrapError(KindIO, err, "write gram hash")
	}
	if err := writeU32(bw, uint32(len(idToOffset))); err != nil {
		return wrapError(KindIO, err, "write id->offset count")
	}
	ids := make([]uint32, 0, len(idToOffset))
	for id := range idToOffset {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if err := writeU32(bw, id); err != nil {
			return wrapError(KindIO, err, "write id")
		}
		if err := writeU64(bw, idToOffset[id]); err != nil {
			return wrapError(KindIO, err, "write offset")
		}
	}
	if err := bw.Flush(); err != nil {
		return wrapError(KindIO, err, "flush primary file")
	}
	if err := primaryFile.Sync(); err != nil {
		return wrapError(KindIO, err, "sync primary file")
	}
	return nil
}

// loadShallow reads the primary file and wires up lazy posting-list stubs
// backed by sidecarPath. It does not read the sidecar eagerly unless
// opts.CompressSidecar is set.
func loadShallow(primaryPath, sidecarPath string, opts Opts) (*Dictionary, *Error) {
	f, err := os.Open(primaryPath)
	if err != nil {
		return nil, wrapError(KindIO, err, "open primary file")
	}
	defer f.Close()
	r := bufio.NewReader(f)

	magic, err := readU16(r)
	if err != nil {
		return nil, wrapError(KindIO, err, "read magic")
	}
	if magic != shallowMagic {
		return nil, newError(KindBadMagic, "primary file magic mismatch")
	}
	version, err := readU16(r)
	if err != nil {
		return nil, wrapError(KindIO, err, "read version")
	}
	if version != formatVersion {
		return nil, newError(KindBadVersion, "primary file version mismatch")
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

	var loader postingListLoader
	if opts.CompressSidecar {
		loader = &eagerLoader{}
	} else {
		sf, err := os.Open(sidecarPath)
		if err != nil {
			return nil, wrapError(KindIO, err, "open sidecar file")
		}
		loader = &seekLoader{f: sf, offsets: make(map[uint32]uint64)}
	}

	hash, err := readGramHashShallow(r, opts.MaxGramSize, opts.MinGramSize, loader)
	if err != nil {
		return nil, wrapError(KindIO, err, "read gram hash")
	}

	idOffsetCount, err := readU32(r)
	if err != nil {
		return nil, wrapError(KindIO, err, "read id->offset count")
	}
	ids := make([]uint32, idOffsetCount)
	offsets := make([]uint64, idOffsetCount)
	for i := uint32(0); i < idOffsetCount; i++ {
		if ids[i], err = readU32(r); err != nil {
			return nil, wrapError(KindIO, err, "read id")
		}
		if offsets[i], err = readU64(r); err != nil {
			return nil, wrapError(KindIO, err, "read offset")
		}
	}

	if sl, ok := loader.(*seekLoader); ok {
		for i, id := range ids {
			sl.offsets[id] = offsets[i]
		}
	} else if el, ok := loader.(*eagerLoader); ok {
		if err := loadEagerSidecar(el, sidecarPath); err != nil {
			return nil, wrapError(KindIO, err, "load compressed sidecar")
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

func loadEagerSidecar(el *eagerLoader, sidecarPath string) error {
	f, err := os.Open(sidecarPath)
	if err != nil {
		return err
	}
	defer f.Close()
	fr := flate.NewReader(f)
	defer fr.Close()

	el.entries = make(map[uint32][]uint32)
	for {
		id, entries, err := readPostingListDeep(fr)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		el.entries[id] = entries
	}
	return nil
}
