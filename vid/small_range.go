package vid

import (
	"bytes"
	"vid/common"
	"vid/index"
	"vid/pp"
)

// SmallRangeProof holds one KZG opening proof per element a range touches.
// PrefixBytes and SuffixBytes are the bytes of the first and last touched
// elements that fall outside ChunkRange.
type SmallRangeProof struct {
	Proofs      common.G1v
	PrefixBytes []byte
	SuffixBytes []byte
	ChunkRange  index.Range
}

// SmallRangeProver produces and checks SmallRangeProofs.
type SmallRangeProver struct {
	*Scheme
}

var _ PayloadProver[*SmallRangeProof] = (*SmallRangeProver)(nil)

func (p *SmallRangeProver) PayloadProof(payload []byte, r index.Range) (*SmallRangeProof, error) {
	res, rangeElemByte, err := p.resolvePayloadRange(payload, r)
	if err != nil {
		return nil, err
	}

	// TODO: cache interpolated polynomials per payload so repeated
	// requests against the same chunk skip the inverse FFT.
	poly, err := p.polynomial(p.chunkElems(payload, res.Poly.Start))
	if err != nil {
		return nil, err
	}

	proofs, _, err := pp.MultiOpen(p.pp, poly, p.points(res))
	if err != nil {
		return nil, err
	}

	p.logger.Debug().
		Stringer("range", r).
		Int("poly", res.Poly.Start).
		Int("offset_elem", res.OffsetElem).
		Int("elems", res.Elem.Len()).
		Msg("built small range proof")

	return &SmallRangeProof{
		Proofs:      proofs,
		PrefixBytes: bytes.Clone(payload[rangeElemByte.Start:r.Start]),
		SuffixBytes: bytes.Clone(payload[r.End:rangeElemByte.End]),
		ChunkRange:  r,
	}, nil
}

func (p *SmallRangeProver) PayloadVerify(stmt Statement, proof *SmallRangeProof) (bool, error) {
	if proof == nil {
		return false, argumentf("missing proof")
	}
	res, err := p.resolveStatement(&stmt, proof.ChunkRange)
	if err != nil {
		return false, err
	}

	dataElems := common.BytesToFieldChain(proof.PrefixBytes, stmt.PayloadSubslice, proof.SuffixBytes)
	points := p.points(res)

	if len(dataElems) != len(proof.Proofs) {
		return false, argumentf("data len %d differs from proof len %d", len(dataElems), len(proof.Proofs))
	}
	if len(dataElems) != len(points) {
		return false, argumentf("data len %d differs from point count %d", len(dataElems), len(points))
	}

	polyCommit, err := p.commitAt(stmt.Common, res.Poly.Start)
	if err != nil {
		return false, err
	}

	for i := range points {
		ok, err := pp.Verify(p.pp, &polyCommit, points[i], dataElems[i], &proof.Proofs[i])
		if err != nil {
			return false, err
		}
		if !ok {
			p.logger.Debug().Stringer("range", proof.ChunkRange).Int("elem", res.Elem.Start+i).Msg("opening proof rejected")
			return false, nil
		}
	}
	return true, nil
}
