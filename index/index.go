// Package index converts positions between the three domains a payload is
// addressed in: bytes, field elements and polynomials.
package index

import "fmt"

// Range is a half-open interval [Start, End).
type Range struct {
	Start int
	End   int
}

func (r Range) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

func (r Range) IsEmpty() bool {
	return r.End <= r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

func Coarsen(index, denominator int) int {
	if denominator <= 0 {
		panic(fmt.Sprintf("denominator must be positive, got %d", denominator))
	}
	return index / denominator
}

func Refine(index, multiplier int) int {
	return index * multiplier
}

// CoarsenRange maps r one domain down. The last included index is coarsened
// so a range ending on a boundary keeps the unit it touches.
func CoarsenRange(r Range, denominator int) Range {
	if r.IsEmpty() {
		panic(fmt.Sprintf("cannot coarsen empty range %v", r))
	}
	return Range{
		Start: Coarsen(r.Start, denominator),
		End:   Coarsen(r.End-1, denominator) + 1,
	}
}

func RefineRange(r Range, multiplier int) Range {
	if r.IsEmpty() {
		panic(fmt.Sprintf("cannot refine empty range %v", r))
	}
	return Range{
		Start: Refine(r.Start, multiplier),
		End:   Refine(r.End, multiplier),
	}
}

// Converter holds the fixed parameters of a scheme: the number of bytes per
// element and the number of elements per polynomial.
type Converter struct {
	ElemByteCapacity int
	ChunkSize        int
}

func NewConverter(elemByteCapacity, chunkSize int) Converter {
	if elemByteCapacity <= 0 || chunkSize <= 0 {
		panic(fmt.Sprintf("invalid converter parameters: elem byte capacity %d, chunk size %d", elemByteCapacity, chunkSize))
	}
	return Converter{ElemByteCapacity: elemByteCapacity, ChunkSize: chunkSize}
}

// PolyByteLen is the number of payload bytes covered by one polynomial.
func (c Converter) PolyByteLen() int {
	return c.ChunkSize * c.ElemByteCapacity
}

func (c Converter) IndexByteToElem(i int) int {
	return Coarsen(i, c.ElemByteCapacity)
}

func (c Converter) IndexPolyToByte(i int) int {
	return Refine(i, c.PolyByteLen())
}

func (c Converter) RangeByteToElem(r Range) Range {
	return CoarsenRange(r, c.ElemByteCapacity)
}

func (c Converter) RangeElemToByte(r Range) Range {
	return RefineRange(r, c.ElemByteCapacity)
}

// RangeElemToByteClamped is RangeElemToByte with End capped at length, the
// real payload length.
func (c Converter) RangeElemToByteClamped(r Range, length int) Range {
	res := c.RangeElemToByte(r)
	if res.End > length {
		res.End = length
	}
	return res
}

func (c Converter) RangeElemToPoly(r Range) Range {
	return CoarsenRange(r, c.ChunkSize)
}

func (c Converter) RangeByteToPoly(r Range) Range {
	return CoarsenRange(r, c.PolyByteLen())
}

// Resolution is a byte range located inside its polynomial.
type Resolution struct {
	Elem Range
	Poly Range
	// PolyStartByte is the first payload byte of the polynomial.
	PolyStartByte int
	// OffsetElem is the position of Elem.Start inside the polynomial.
	OffsetElem int
}

// Resolve converts a non-empty byte range into the element and polynomial
// domains. Prover and verifier resolve ranges through this function only.
func (c Converter) Resolve(r Range) Resolution {
	elem := c.RangeByteToElem(r)
	poly := c.RangeElemToPoly(elem)
	start := c.IndexPolyToByte(poly.Start)
	return Resolution{
		Elem:          elem,
		Poly:          poly,
		PolyStartByte: start,
		OffsetElem:    elem.Start - c.IndexByteToElem(start),
	}
}
