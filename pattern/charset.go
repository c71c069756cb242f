package pattern

import (
	"math/bits"
	"strings"
)

// Universe lists every character a character class can match, in expansion order.
const Universe = "abcdefghijklmnopqrstuvwxyz0123456789"

const universeMask CharSet = 1<<len(Universe) - 1

// CharSet is a bit set over Universe.
type CharSet uint64

// Named classes usable as [:v:] and [:c:].
var (
	Vowels     = NewCharSet("aeiou")
	Consonants = NewCharSet("abcdefghijklmnopqrstuvwxyz") &^ Vowels
)

// NamedClass looks up a named class by its tag.
func NamedClass(name string) (CharSet, bool) {
	switch name {
	case "v":
		return Vowels, true
	case "c":
		return Consonants, true
	}

	return 0, false
}

// NewCharSet builds a set from the universe characters in s; others are ignored.
func NewCharSet(s string) CharSet {
	var set CharSet
	for _, r := range s {
		set = set.Add(r)
	}

	return set
}

func charIndex(r rune) int {
	switch {
	case r >= 'a' && r <= 'z':
		return int(r - 'a')
	case r >= '0' && r <= '9':
		return 26 + int(r-'0')
	}

	return -1
}

// Add returns the set with r included. Characters outside Universe are ignored.
func (s CharSet) Add(r rune) CharSet {
	if i := charIndex(r); i >= 0 {
		return s | 1<<i
	}

	return s
}

// AddRange returns the set with every character from lo to hi included.
func (s CharSet) AddRange(lo, hi rune) CharSet {
	for r := lo; r <= hi; r++ {
		s = s.Add(r)
	}

	return s
}

func (s CharSet) Has(r rune) bool {
	i := charIndex(r)
	return i >= 0 && s&(1<<i) != 0
}

// Negate returns the complement of s within Universe.
func (s CharSet) Negate() CharSet {
	return ^s & universeMask
}

func (s CharSet) Len() int {
	return bits.OnesCount64(uint64(s & universeMask))
}

// Chars returns the members of s in Universe order.
func (s CharSet) Chars() []byte {
	chars := make([]byte, 0, s.Len())
	for i := 0; i < len(Universe); i++ {
		if s&(1<<i) != 0 {
			chars = append(chars, Universe[i])
		}
	}

	return chars
}

// String renders the set as a bracket expression with ranges collapsed.
func (s CharSet) String() string {
	chars := s.Chars()

	var b strings.Builder
	b.WriteByte('[')

	for i := 0; i < len(chars); {
		j := i
		for j+1 < len(chars) && chars[j+1] == chars[j]+1 {
			j++
		}

		b.WriteByte(chars[i])

		if j-i >= 2 {
			b.WriteByte('-')
			b.WriteByte(chars[j])
		} else if j > i {
			b.WriteByte(chars[j])
		}

		i = j + 1
	}

	b.WriteByte(']')

	return b.String()
}
