package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoarsenRefine(t *testing.T) {
	assert.Equal(t, 0, Coarsen(30, 31))
	assert.Equal(t, 1, Coarsen(31, 31))
	assert.Equal(t, 62, Refine(2, 31))
	assert.Panics(t, func() { Coarsen(1, 0) })
}

func TestCoarsenRange(t *testing.T) {
	for _, tst := range []struct {
		in       Range
		expected Range
	}{
		{in: Range{0, 1}, expected: Range{0, 1}},
		{in: Range{0, 31}, expected: Range{0, 1}},
		{in: Range{0, 32}, expected: Range{0, 2}},
		{in: Range{30, 32}, expected: Range{0, 2}},
		{in: Range{31, 62}, expected: Range{1, 2}},
		{in: Range{61, 62}, expected: Range{1, 2}},
	} {
		t.Run(tst.in.String(), func(t *testing.T) {
			assert.Equal(t, tst.expected, CoarsenRange(tst.in, 31))
		})
	}

	assert.Panics(t, func() { CoarsenRange(Range{3, 3}, 31) })
}

func TestRefineRange(t *testing.T) {
	assert.Equal(t, Range{31, 93}, RefineRange(Range{1, 3}, 31))
	assert.Panics(t, func() { RefineRange(Range{2, 1}, 31) })
}

func TestRange(t *testing.T) {
	assert.Equal(t, 3, Range{2, 5}.Len())
	assert.Equal(t, 0, Range{5, 2}.Len())
	assert.True(t, Range{5, 5}.IsEmpty())
	assert.False(t, Range{4, 5}.IsEmpty())
	assert.Equal(t, "[4,5)", Range{4, 5}.String())
}

func TestConverter(t *testing.T) {
	c := NewConverter(31, 4)
	assert.Equal(t, 124, c.PolyByteLen())

	assert.Equal(t, Range{0, 1}, c.RangeByteToPoly(Range{0, 124}))
	assert.Equal(t, Range{0, 2}, c.RangeByteToPoly(Range{123, 125}))
	assert.Equal(t, Range{1, 2}, c.RangeByteToPoly(Range{124, 125}))

	assert.Equal(t, Range{31, 62}, c.RangeElemToByteClamped(Range{1, 2}, 100))
	assert.Equal(t, Range{31, 50}, c.RangeElemToByteClamped(Range{1, 2}, 50))

	assert.Panics(t, func() { NewConverter(0, 4) })
}

func TestResolve(t *testing.T) {
	c := NewConverter(31, 4)

	// first two bytes of element 0 of polynomial 1
	res := c.Resolve(Range{124, 126})
	assert.Equal(t, Range{4, 5}, res.Elem)
	assert.Equal(t, Range{1, 2}, res.Poly)
	assert.Equal(t, 124, res.PolyStartByte)
	assert.Equal(t, 0, res.OffsetElem)

	// straddling elements 1 and 2 of polynomial 2
	res = c.Resolve(Range{248 + 61, 248 + 63})
	assert.Equal(t, Range{9, 11}, res.Elem)
	assert.Equal(t, Range{2, 3}, res.Poly)
	assert.Equal(t, 1, res.OffsetElem)

	// last byte of polynomial 0 and first byte of polynomial 1
	res = c.Resolve(Range{123, 125})
	assert.Equal(t, 2, res.Poly.Len())
}
