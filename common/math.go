package common

import (
	"bytes"
	"fmt"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

type (
	Vec []fr.Element
	G1v []bls12381.G1Affine
)

func IntToFr(n int) fr.Element {
	var e fr.Element
	e.SetInt64(int64(n))
	return e
}

func RandVec(n int) Vec {
	v := make(Vec, n)
	for i := 0; i < n; i++ {
		if _, err := v[i].SetRandom(); err != nil {
			panic("failed obtaining randomness source")
		}
	}
	return v
}

func (v Vec) Concat(v2 Vec) Vec {
	res := make(Vec, len(v)+len(v2))
	copy(res, v)
	copy(res[len(v):], v2)
	return res
}

// PadTo returns a copy of v extended with zeros to length n.
func (v Vec) PadTo(n int) Vec {
	if len(v) > n {
		panic(fmt.Sprintf("cannot pad vector of length %d to %d", len(v), n))
	}
	res := make(Vec, n)
	copy(res, v)
	return res
}

func (v Vec) Bytes() []byte {
	bb := bytes.Buffer{}
	for i := range v {
		b := v[i].Bytes()
		bb.Write(b[:])
	}
	return bb.Bytes()
}

// Bytes concatenates the compressed encodings of all points.
func (g1v G1v) Bytes() []byte {
	bb := bytes.Buffer{}
	for i := range g1v {
		b := g1v[i].Bytes()
		bb.Write(b[:])
	}
	return bb.Bytes()
}
