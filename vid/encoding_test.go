package vid

import (
	"encoding/binary"
	"testing"
	"vid/index"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProofEncoding(t *testing.T) {
	s := newTestScheme(t)
	payload := randomPayload(t, 2*s.PolyByteLen()-3)
	commit, c, err := s.Commit(payload)
	require.NoError(t, err)

	for _, r := range []index.Range{
		{Start: 0, End: 1},
		{Start: 5, End: 70},
		{Start: s.PolyByteLen(), End: len(payload)},
	} {
		stmt := statement(payload, r, &commit, c)

		small, err := s.SmallRange().PayloadProof(payload, r)
		require.NoError(t, err)
		raw, err := small.MarshalBinary()
		require.NoError(t, err)

		var decodedSmall SmallRangeProof
		require.NoError(t, decodedSmall.UnmarshalBinary(raw))
		assert.Equal(t, small, &decodedSmall)
		ok, err := s.SmallRange().PayloadVerify(stmt, &decodedSmall)
		require.NoError(t, err)
		assert.True(t, ok)

		large, err := s.LargeRange().PayloadProof(payload, r)
		require.NoError(t, err)
		raw, err = large.MarshalBinary()
		require.NoError(t, err)

		var decodedLarge LargeRangeProof
		require.NoError(t, decodedLarge.UnmarshalBinary(raw))
		assert.Equal(t, large, &decodedLarge)
		ok, err = s.LargeRange().PayloadVerify(stmt, &decodedLarge)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestSmallRangeProofLayout(t *testing.T) {
	s := newTestScheme(t)
	payload := randomPayload(t, s.PolyByteLen())

	r := index.Range{Start: 2, End: 40}
	proof, err := s.SmallRange().PayloadProof(payload, r)
	require.NoError(t, err)

	raw, err := proof.MarshalBinary()
	require.NoError(t, err)

	assert.Equal(t, uint64(2), binary.LittleEndian.Uint64(raw[:8]))
	off := 8 + 2*48
	assert.Equal(t, proof.Proofs.Bytes(), raw[8:off])
	assert.Equal(t, uint64(2), binary.LittleEndian.Uint64(raw[off:]))
	off += 8 + 2
	assert.Equal(t, uint64(22), binary.LittleEndian.Uint64(raw[off:]))
	off += 8 + 22
	assert.Equal(t, uint64(2), binary.LittleEndian.Uint64(raw[off:]))
	assert.Equal(t, uint64(40), binary.LittleEndian.Uint64(raw[off+8:]))
	assert.Len(t, raw, off+16)
}

func TestMalformedProofEncoding(t *testing.T) {
	s := newTestScheme(t)
	payload := randomPayload(t, s.PolyByteLen())
	large, err := s.LargeRange().PayloadProof(payload, index.Range{Start: 40, End: 50})
	require.NoError(t, err)
	raw, err := large.MarshalBinary()
	require.NoError(t, err)

	var decoded LargeRangeProof
	assert.ErrorIs(t, decoded.UnmarshalBinary(raw[:len(raw)-1]), ErrMalformedProof)
	assert.ErrorIs(t, decoded.UnmarshalBinary(append(raw, 0)), ErrMalformedProof)

	// scalar above the modulus
	nonCanonical := append([]byte(nil), raw...)
	for i := 8; i < 8+32; i++ {
		nonCanonical[i] = 0xff
	}
	assert.ErrorIs(t, decoded.UnmarshalBinary(nonCanonical), ErrMalformedProof)

	// huge length prefix
	huge := append([]byte(nil), raw...)
	binary.LittleEndian.PutUint64(huge, 1<<60)
	assert.ErrorIs(t, decoded.UnmarshalBinary(huge), ErrMalformedProof)

	var small SmallRangeProof
	garbage := make([]byte, 8+48)
	binary.LittleEndian.PutUint64(garbage, 1)
	for i := 8; i < len(garbage); i++ {
		garbage[i] = 0xff
	}
	assert.ErrorIs(t, small.UnmarshalBinary(garbage), ErrMalformedProof)
}

func TestCommonEncoding(t *testing.T) {
	s := newTestScheme(t)
	payload := randomPayload(t, 3*s.PolyByteLen())
	commit, c, err := s.Commit(payload)
	require.NoError(t, err)

	raw, err := c.MarshalBinary()
	require.NoError(t, err)

	var decoded Common
	require.NoError(t, decoded.UnmarshalBinary(raw))
	assert.Equal(t, c.PolyCommits, decoded.PolyCommits)
	assert.NoError(t, s.checkCommonCommitConsistency(&decoded, &commit))
}
