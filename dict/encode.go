package dict

import (
	"math/bits"
	"strings"
)

// Encode normalizes s to the alphabet this package indexes and searches
// over: ASCII letters (A-Z folded to a-z), ASCII digits, and spaces. Every
// other rune is dropped, including non-ASCII letters and digits.
// Encode is idempotent: Encode(Encode(s)) == Encode(s), since the output
// alphabet is a subset of its own input alphabet and every rune in it is
// already in canonical (lowercased) form.
func Encode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r - 'A' + 'a')
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// BitSignature folds s into a 64-bit character-set mask: bits 0-25 for
// a-z, bit 26 for space, bits 27-36 for 0-9. A-Z set the same bits as
// their lowercase forms and every other rune contributes nothing, so
// BitSignature(s) == BitSignature(Encode(s)) for any s.
func BitSignature(s string) uint64 {
	var sig uint64
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			sig |= 1 << uint(r-'a')
		case r >= 'A' && r <= 'Z':
			sig |= 1 << uint(r-'A')
		case r == ' ':
			sig |= 1 << 26
		case r >= '0' && r <= '9':
			sig |= 1 << uint(27+r-'0')
		}
	}
	return sig
}

// MinBitDistance returns a guaranteed lower bound on the edit distance
// between any two strings with bit signatures a and b. Any single-character
// edit changes the symmetric difference of the two character sets by at
// most two positions, so popcount(a^b)/2 never overstates the true edit
// distance; it is used as a cheap filter before the exact (and more
// expensive) bounded edit-distance routine runs.
func MinBitDistance(a, b uint64) int {
	return bits.OnesCount64(a^b) / 2
}
