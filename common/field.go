package common

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// ElemByteCapacity is the number of bytes that fit losslessly into one
// scalar field element.
const ElemByteCapacity = (fr.Bits - 1) / 8

// BytesToField packs data into field elements, ElemByteCapacity bytes per
// element, little-endian. The final element is padded with zero bytes.
// At most limit elements are produced; a negative limit means no limit.
func BytesToField(data []byte, limit int) Vec {
	n := (len(data) + ElemByteCapacity - 1) / ElemByteCapacity
	if limit >= 0 && n > limit {
		n = limit
	}

	res := make(Vec, n)
	for i := 0; i < n; i++ {
		end := (i + 1) * ElemByteCapacity
		if end > len(data) {
			end = len(data)
		}
		res[i] = bytesToElem(data[i*ElemByteCapacity : end])
	}
	return res
}

// BytesToFieldChain packs the concatenation of the given byte slices without
// materializing it where a single slice suffices.
func BytesToFieldChain(parts ...[]byte) Vec {
	if len(parts) == 1 {
		return BytesToField(parts[0], -1)
	}
	var total int
	for _, p := range parts {
		total += len(p)
	}
	buf := make([]byte, 0, total)
	for _, p := range parts {
		buf = append(buf, p...)
	}
	return BytesToField(buf, -1)
}

func bytesToElem(chunk []byte) fr.Element {
	var buf [fr.Bytes]byte
	for i, b := range chunk {
		buf[fr.Bytes-1-i] = b
	}
	var e fr.Element
	e.SetBytes(buf[:])
	return e
}
