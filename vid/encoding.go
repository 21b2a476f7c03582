package vid

import (
	"bytes"
	"encoding/binary"
	"math"
	"vid/common"
	"vid/index"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// Proof encoding: cryptographic elements first, in their canonical fixed
// width form (compressed G1 points, big-endian scalars), each list prefixed
// by its little-endian u64 length. Then the prefix and suffix bytes, each
// prefixed by a u64 length, and finally the range as two u64.

func (p *SmallRangeProof) MarshalBinary() ([]byte, error) {
	w := &writer{}
	w.points(p.Proofs)
	w.bytes(p.PrefixBytes)
	w.bytes(p.SuffixBytes)
	w.rng(p.ChunkRange)
	return w.buf.Bytes(), nil
}

func (p *SmallRangeProof) UnmarshalBinary(data []byte) error {
	r := &reader{data: data}
	var proof SmallRangeProof
	proof.Proofs = r.points()
	proof.PrefixBytes = r.bytes()
	proof.SuffixBytes = r.bytes()
	proof.ChunkRange = r.rng()
	if err := r.done(); err != nil {
		return err
	}
	*p = proof
	return nil
}

func (p *LargeRangeProof) MarshalBinary() ([]byte, error) {
	w := &writer{}
	w.scalars(p.PrefixElems)
	w.scalars(p.SuffixElems)
	w.bytes(p.PrefixBytes)
	w.bytes(p.SuffixBytes)
	w.rng(p.ChunkRange)
	return w.buf.Bytes(), nil
}

func (p *LargeRangeProof) UnmarshalBinary(data []byte) error {
	r := &reader{data: data}
	var proof LargeRangeProof
	proof.PrefixElems = r.scalars()
	proof.SuffixElems = r.scalars()
	proof.PrefixBytes = r.bytes()
	proof.SuffixBytes = r.bytes()
	proof.ChunkRange = r.rng()
	if err := r.done(); err != nil {
		return err
	}
	*p = proof
	return nil
}

func (c *Common) MarshalBinary() ([]byte, error) {
	w := &writer{}
	w.points(c.PolyCommits)
	return w.buf.Bytes(), nil
}

func (c *Common) UnmarshalBinary(data []byte) error {
	r := &reader{data: data}
	commits := r.points()
	if err := r.done(); err != nil {
		return err
	}
	c.PolyCommits = commits
	return nil
}

type writer struct {
	buf bytes.Buffer
}

func (w *writer) u64(n uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], n)
	w.buf.Write(b[:])
}

func (w *writer) points(v common.G1v) {
	w.u64(uint64(len(v)))
	w.buf.Write(v.Bytes())
}

func (w *writer) scalars(v common.Vec) {
	w.u64(uint64(len(v)))
	w.buf.Write(v.Bytes())
}

func (w *writer) bytes(b []byte) {
	w.u64(uint64(len(b)))
	w.buf.Write(b)
}

func (w *writer) rng(r index.Range) {
	w.u64(uint64(r.Start))
	w.u64(uint64(r.End))
}

// reader records the first error and returns zero values afterwards.
type reader struct {
	data []byte
	err  error
}

func (r *reader) next(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n > len(r.data) {
		r.err = malformedf("need %d bytes, %d left", n, len(r.data))
		return nil
	}
	b := r.data[:n]
	r.data = r.data[n:]
	return b
}

func (r *reader) u64() uint64 {
	b := r.next(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// count reads a length prefix for items of the given size and checks enough
// data is left to hold them.
func (r *reader) count(size int) int {
	n := r.u64()
	if r.err != nil {
		return 0
	}
	if n > uint64(len(r.data)/size) {
		r.err = malformedf("length %d exceeds remaining data", n)
		return 0
	}
	return int(n)
}

func (r *reader) points() common.G1v {
	n := r.count(bls12381.SizeOfG1AffineCompressed)
	if r.err != nil || n == 0 {
		return nil
	}
	v := make(common.G1v, n)
	for i := range v {
		if _, err := v[i].SetBytes(r.next(bls12381.SizeOfG1AffineCompressed)); err != nil {
			r.err = malformedf("invalid point %d: %v", i, err)
			return nil
		}
	}
	return v
}

func (r *reader) scalars() common.Vec {
	n := r.count(fr.Bytes)
	if r.err != nil || n == 0 {
		return nil
	}
	v := make(common.Vec, n)
	for i := range v {
		b := r.next(fr.Bytes)
		v[i].SetBytes(b)
		if canonical := v[i].Bytes(); !bytes.Equal(canonical[:], b) {
			r.err = malformedf("non canonical scalar %d", i)
			return nil
		}
	}
	return v
}

func (r *reader) bytes() []byte {
	n := r.count(1)
	if r.err != nil {
		return nil
	}
	return bytes.Clone(r.next(n))
}

func (r *reader) rng() index.Range {
	start, end := r.u64(), r.u64()
	if r.err != nil {
		return index.Range{}
	}
	if start > math.MaxInt || end > math.MaxInt {
		r.err = malformedf("range (%d,%d) overflows", start, end)
		return index.Range{}
	}
	return index.Range{Start: int(start), End: int(end)}
}

func (r *reader) done() error {
	if r.err != nil {
		return r.err
	}
	if len(r.data) != 0 {
		return malformedf("%d trailing bytes", len(r.data))
	}
	return nil
}
