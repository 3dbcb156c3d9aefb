package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Set_ReduceIdempotent(t *testing.T) {
	testCases := []struct {
		name   string
		in     []Range
		expect []Range
	}{
		{
			name:   "already reduced",
			in:     []Range{{'a', 'z'}},
			expect: []Range{{'a', 'z'}},
		},
		{
			name:   "overlapping ranges merge",
			in:     []Range{{'a', 'm'}, {'g', 'z'}},
			expect: []Range{{'a', 'z'}},
		},
		{
			name:   "adjacent ranges merge",
			in:     []Range{{'a', 'm'}, {'n', 'z'}},
			expect: []Range{{'a', 'z'}},
		},
		{
			name:   "disjoint ranges stay separate",
			in:     []Range{{'a', 'c'}, {'x', 'z'}},
			expect: []Range{{'a', 'c'}, {'x', 'z'}},
		},
		{
			name:   "unsorted input gets sorted",
			in:     []Range{{'x', 'z'}, {'a', 'c'}},
			expect: []Range{{'a', 'c'}, {'x', 'z'}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			s := New(tc.in...)
			assert.Equal(tc.expect, s.Ranges())

			// reduce(reduce(c)) = reduce(c)
			s2 := New(s.Ranges()...)
			assert.True(s.Equal(s2))
		})
	}
}

func Test_Set_Complement_Involution(t *testing.T) {
	assert := assert.New(t)

	s := New(Range{'a', 'z'}, Range{'0', '9'})
	comp := s.Complement()
	assert.True(s.Equal(comp.Complement()))
}

func Test_Set_Union_Intersect_Difference(t *testing.T) {
	assert := assert.New(t)

	vowels := New(Range{'a', 'a'}, Range{'e', 'e'}, Range{'i', 'i'}, Range{'o', 'o'}, Range{'u', 'u'})
	lower := New(Range{'a', 'z'})

	consonants := lower.Difference(vowels)
	assert.False(consonants.Contains('a'))
	assert.True(consonants.Contains('b'))

	assert.True(lower.Union(vowels).Equal(lower))
	assert.True(lower.Intersect(vowels).Equal(vowels))
}

func Test_Set_Any_Equals_ComplementOfEmpty(t *testing.T) {
	assert := assert.New(t)
	assert.True(Any().Equal(Empty().Complement()))
}

func Test_Set_Contains(t *testing.T) {
	assert := assert.New(t)

	s := New(Range{'a', 'z'}, Range{'0', '9'})
	assert.True(s.Contains('m'))
	assert.True(s.Contains('5'))
	assert.False(s.Contains('!'))
	assert.False(s.Contains('A'))
}
