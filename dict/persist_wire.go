package dict

import (
	"encoding/binary"
	"io"
	"unicode/utf16"

	"github.com/pkg/errors"
)

const (
	shallowMagic   uint16 = 0xFEEF
	deepMagic      uint16 = 0xFFE2
	formatVersion  uint16 = 0x0001
	maxRecordBytes        = 1 << 30 // sanity cap against corrupt length-prefixed fields
)

var byteOrder = binary.LittleEndian

func writeU16(w io.Writer, v uint16) error {
	var buf [2]byte
	byteOrder.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readU16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return byteOrder.Uint16(buf[:]), nil
}

func writeU32(w io.Writer, v uint32) error {
	var buf [4]byte
	byteOrder.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return byteOrder.Uint32(buf[:]), nil
}

func writeU64(w io.Writer, v uint64) error {
	var buf [8]byte
	byteOrder.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readU64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return byteOrder.Uint64(buf[:]), nil
}

// writeQString writes a length-prefixed UTF-16 string, per SPEC_FULL.md §6's
// StringArray/QString wire convention inherited from the original QChar
// string type. Encoded entries are always plain ASCII (the alphabet Encode
// produces), so this is a single code unit per character for them; original
// entries may need surrogate pairs, handled transparently by
// unicode/utf16.Encode.
func writeQString(w io.Writer, s string) error {
	units := utf16.Encode([]rune(s))
	if err := writeU32(w, uint32(len(units))); err != nil {
		return err
	}
	for _, u := range units {
		if err := writeU16(w, u); err != nil {
			return err
		}
	}
	return nil
}

func readQString(r io.Reader) (string, error) {
	n, err := readU32(r)
	if err != nil {
		return "", err
	}
	if n > maxRecordBytes {
		return "", errors.New("qstring length exceeds sanity bound")
	}
	units := make([]uint16, n)
	for i := range units {
		u, err := readU16(r)
		if err != nil {
			return "", err
		}
		units[i] = u
	}
	return string(utf16.Decode(units)), nil
}

// writeStringArray writes the wire format from SPEC_FULL.md §6: u32 count |
// u32 totalCodeUnits | u32[count] offsets | u32[count] sizes |
// u16[totalCodeUnits] data, where offsets/sizes are expressed in UTF-16 code
// units.
func writeStringArray(w io.Writer, strs []string) error {
	encoded := make([][]uint16, len(strs))
	offsets := make([]uint32, len(strs))
	sizes := make([]uint32, len(strs))
	var total uint32
	for i, s := range strs {
		units := utf16.Encode([]rune(s))
		encoded[i] = units
		offsets[i] = total
		sizes[i] = uint32(len(units))
		total += uint32(len(units))
	}

	if err := writeU32(w, uint32(len(strs))); err != nil {
		return err
	}
	if err := writeU32(w, total); err != nil {
		return err
	}
	for _, o := range offsets {
		if err := writeU32(w, o); err != nil {
			return err
		}
	}
	for _, sz := range sizes {
		if err := writeU32(w, sz); err != nil {
			return err
		}
	}
	for _, units := range encoded {
		for _, u := range units {
			if err := writeU16(w, u); err != nil {
				return err
			}
		}
	}
	return nil
}

func readStringArray(r io.Reader) ([]string, error) {
	count, err := readU32(r)
	if err != nil {
		return nil, err
	}
	if count > maxRecordBytes {
		return nil, errors.New("string array count exceeds sanity bound")
	}
	total, err := readU32(r)
	if err != nil {
		return nil, err
	}
	if total > maxRecordBytes {
		return nil, errors.New("string array code-unit total exceeds sanity bound")
	}
	offsets := make([]uint32, count)
	for i := range offsets {
		if offsets[i], err = readU32(r); err != nil {
			return nil, err
		}
	}
	sizes := make([]uint32, count)
	for i := range sizes {
		if sizes[i], err = readU32(r); err != nil {
			return nil, err
		}
	}
	data := make([]uint16, total)
	for i := range data {
		if data[i], err = readU16(r); err != nil {
			return nil, err
		}
	}

	out := make([]string, count)
	for i := range out {
		start, size := offsets[i], sizes[i]
		out[i] = string(utf16.Decode(data[start : start+size]))
	}
	return out, nil
}

func writeBitSignatures(w io.Writer, sigs []uint64) error {
	if err := writeU32(w, uint32(len(sigs))); err != nil {
		return err
	}
	for _, s := range sigs {
		if err := writeU64(w, s); err != nil {
			return err
		}
	}
	return nil
}

func readBitSignatures(r io.Reader) ([]uint64, error) {
	count, err := readU32(r)
	if err != nil {
		return nil, err
	}
	if count > maxRecordBytes {
		return nil, errors.New("bit signature count exceeds sanity bound")
	}
	sigs := make([]uint64, count)
	for i := range sigs {
		if sigs[i], err = readU64(r); err != nil {
			return nil, err
		}
	}
	return sigs, nil
}
