// Package charset implements the Unicode scalar-value set algebra used by
// the grammar's character-class terminals: a reduced, sorted sequence of
// inclusive codepoint ranges supporting union, intersection, difference,
// complement, and membership.
package charset

import (
	"fmt"
	"sort"
	"strings"
)

// MaxCodepoint is the highest valid Unicode scalar value.
const MaxCodepoint rune = 0x10FFFF

// EndOfInput is the reserved sentinel codepoint denoting the end-of-input
// terminal $. It deliberately falls outside the Unicode scalar range so it
// can never collide with a real character literal.
const EndOfInput rune = 0x200000

// Epsilon is the codepoint used as a single-character AST leaf to mean "no
// character" (the empty production), distinct from a literal NUL, which is
// represented as the one-element charset {0}.
const Epsilon rune = 0

// Range is an inclusive, closed codepoint range [Lo, Hi].
type Range struct {
	Lo, Hi rune
}

func (r Range) String() string {
	if r.Lo == r.Hi {
		return fmt.Sprintf("%U", r.Lo)
	}
	return fmt.Sprintf("%U-%U", r.Lo, r.Hi)
}

// Set is an ordered, non-overlapping, non-adjacent sequence of inclusive
// codepoint ranges. The zero value is the empty set. Every exported
// constructor and mutating operation returns a Set in reduced form: ranges
// sorted ascending by Lo, with a strict gap (r[i].Hi+1 < r[i+1].Lo) between
// consecutive ranges.
type Set struct {
	ranges []Range
}

// New builds a reduced Set from the given ranges, in any order, possibly
// overlapping or adjacent.
func New(ranges ...Range) Set {
	s := Set{ranges: append([]Range(nil), ranges...)}
	s.reduce()
	return s
}

// Single returns the one-codepoint set {c}.
func Single(c rune) Set {
	return Set{ranges: []Range{{c, c}}}
}

// Empty returns the empty set.
func Empty() Set {
	return Set{}
}

// Any returns the full codepoint alphabet [0, MaxCodepoint].
func Any() Set {
	return New(Range{0, MaxCodepoint})
}

// reduce sorts s.ranges by Lo and merges overlapping/adjacent ranges in
// place, establishing the Set invariant.
func (s *Set) reduce() {
	if len(s.ranges) < 2 {
		return
	}
	sort.Slice(s.ranges, func(i, j int) bool {
		return s.ranges[i].Lo < s.ranges[j].Lo
	})

	merged := s.ranges[:1]
	for _, r := range s.ranges[1:] {
		last := &merged[len(merged)-1]
		if r.Lo <= last.Hi+1 {
			if r.Hi > last.Hi {
				last.Hi = r.Hi
			}
		} else {
			merged = append(merged, r)
		}
	}
	s.ranges = merged
}

// Ranges returns the reduced ranges making up s, in ascending order. The
// returned slice must not be mutated by the caller.
func (s Set) Ranges() []Range {
	return s.ranges
}

// IsEmpty returns whether s contains no codepoints.
func (s Set) IsEmpty() bool {
	return len(s.ranges) == 0
}

// Contains returns whether c is a member of s.
func (s Set) Contains(c rune) bool {
	ranges := s.ranges
	lo, hi := 0, len(ranges)
	for lo < hi {
		mid := (lo + hi) / 2
		r := ranges[mid]
		switch {
		case c < r.Lo:
			hi = mid
		case c > r.Hi:
			lo = mid + 1
		default:
			return true
		}
	}
	return false
}

// ContainsSet returns whether every codepoint in o is also in s.
func (s Set) ContainsSet(o Set) bool {
	return s.Intersect(o).Equal(o)
}

// Union returns the set of codepoints in s or o (or both).
func (s Set) Union(o Set) Set {
	combined := make([]Range, 0, len(s.ranges)+len(o.ranges))
	combined = append(combined, s.ranges...)
	combined = append(combined, o.ranges...)
	result := Set{ranges: combined}
	result.reduce()
	return result
}

// Complement returns the set of codepoints in [0, MaxCodepoint] not in s.
func (s Set) Complement() Set {
	var out []Range
	next := rune(0)
	for _, r := range s.ranges {
		if r.Lo > next {
			out = append(out, Range{next, r.Lo - 1})
		}
		if r.Hi+1 > next {
			next = r.Hi + 1
		}
	}
	if next <= MaxCodepoint {
		out = append(out, Range{next, MaxCodepoint})
	}
	return Set{ranges: out}
}

// Intersect returns the set of codepoints in both s and o.
//
// Implemented algebraically (a∩b = ¬(¬a ∪ ¬b)) per the charset engine's
// design note that either an algebraic or direct two-pointer-merge
// implementation is acceptable as long as the result stays reduced.
func (s Set) Intersect(o Set) Set {
	return s.Complement().Union(o.Complement()).Complement()
}

// Difference returns the set of codepoints in s but not in o (a−b = a∩¬b).
func (s Set) Difference(o Set) Set {
	return s.Intersect(o.Complement())
}

// Equal returns whether s and o contain exactly the same codepoints.
func (s Set) Equal(o Set) bool {
	if len(s.ranges) != len(o.ranges) {
		return false
	}
	for i := range s.ranges {
		if s.ranges[i] != o.ranges[i] {
			return false
		}
	}
	return true
}

// String renders s as a bracketed list of ranges in ascending order, e.g.
// "[U+0030-U+0039, U+0061-U+007A]" for [0-9a-z].
func (s Set) String() string {
	var sb strings.Builder
	sb.WriteRune('[')
	for i, r := range s.ranges {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(r.String())
	}
	sb.WriteRune(']')
	return sb.String()
}

// Key returns a canonical string form of s suitable for use as a map key in
// an interning table: equal sets always produce equal keys, since s is
// already kept reduced.
func (s Set) Key() string {
	var sb strings.Builder
	for i, r := range s.ranges {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%x-%x", r.Lo, r.Hi)
	}
	return sb.String()
}
