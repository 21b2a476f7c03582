package pp

import (
	"bytes"
	"math/big"
	"testing"
	"vid/common"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPP(t *testing.T, N int) *PP {
	pp, err := NewPublicParamsFromSecret(N, big.NewInt(42))
	require.NoError(t, err)
	return pp
}

func TestPublicParams(t *testing.T) {
	pp := newTestPP(t, 5)
	assert.Equal(t, 8, pp.Cardinality())
	assert.Len(t, pp.Digest, 32)
	assert.Greater(t, pp.Size(), 0)

	other := newTestPP(t, 5)
	assert.Equal(t, pp.Digest, other.Digest)

	_, err := NewPublicParamsFromSecret(0, big.NewInt(42))
	assert.Error(t, err)
}

func TestInterpolateEvaluatesOnDomain(t *testing.T) {
	pp := newTestPP(t, 4)
	evals := common.RandVec(3)

	coeffs, err := Interpolate(pp, evals)
	require.NoError(t, err)
	require.Len(t, coeffs, pp.Cardinality())

	points := Points(pp, 0, pp.Cardinality())
	for i := range points {
		y := eval(coeffs, points[i])
		if i < len(evals) {
			assert.True(t, y.Equal(&evals[i]), "point %d", i)
		} else {
			assert.True(t, y.IsZero(), "point %d", i)
		}
	}

	_, err = Interpolate(pp, common.RandVec(5))
	assert.Error(t, err)
}

func TestSinglePointDomain(t *testing.T) {
	pp := newTestPP(t, 1)
	assert.Equal(t, 1, pp.Cardinality())

	evals := common.Vec{common.IntToFr(7)}
	coeffs, err := Interpolate(pp, evals)
	require.NoError(t, err)
	require.Len(t, coeffs, 2)

	C, err := Commit(pp, coeffs)
	require.NoError(t, err)

	points := Points(pp, 0, 1)
	proofs, values, err := MultiOpen(pp, coeffs, points)
	require.NoError(t, err)
	assert.True(t, values[0].Equal(&evals[0]))

	ok, err := Verify(pp, &C, points[0], values[0], &proofs[0])
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPoints(t *testing.T) {
	pp := newTestPP(t, 8)
	all := Points(pp, 0, 8)
	some := Points(pp, 3, 4)
	assert.Equal(t, all[3:7], some)

	one := common.IntToFr(1)
	assert.True(t, all[0].Equal(&one))
	assert.Panics(t, func() { Points(pp, 6, 3) })
}

func TestCommitOpenVerify(t *testing.T) {
	pp := newTestPP(t, 8)
	evals := common.RandVec(8)

	coeffs, err := Interpolate(pp, evals)
	require.NoError(t, err)

	C, err := Commit(pp, coeffs)
	require.NoError(t, err)

	points := Points(pp, 2, 4)
	proofs, values, err := MultiOpen(pp, coeffs, points)
	require.NoError(t, err)
	require.Len(t, proofs, 4)

	for i := range points {
		assert.True(t, values[i].Equal(&evals[2+i]))
		ok, err := Verify(pp, &C, points[i], values[i], &proofs[i])
		assert.NoError(t, err)
		assert.True(t, ok)
	}

	var wrong fr.Element
	wrong.Add(&values[0], &evals[0])
	ok, err := Verify(pp, &C, points[0], wrong, &proofs[0])
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestReadWritePublicParams(t *testing.T) {
	pp := newTestPP(t, 4)

	var buf bytes.Buffer
	_, err := pp.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.Bytes()
	loaded, err := ReadPublicParams(bytes.NewReader(raw), 4)
	require.NoError(t, err)
	assert.Equal(t, pp.Digest, loaded.Digest)

	_, err = ReadPublicParams(bytes.NewReader(raw), 16)
	assert.Error(t, err)
}

func eval(coeffs common.Vec, x fr.Element) fr.Element {
	var y fr.Element
	for i := len(coeffs) - 1; i >= 0; i-- {
		y.Mul(&y, &x)
		y.Add(&y, &coeffs[i])
	}
	return y
}
