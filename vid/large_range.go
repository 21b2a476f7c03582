package vid

import (
	"bytes"
	"vid/common"
	"vid/index"
	"vid/pp"
)

// LargeRangeProof carries the elements of a polynomial before and after the
// touched region. Together with the claimed bytes they rebuild the whole
// polynomial, whose commitment the verifier recomputes.
type LargeRangeProof struct {
	PrefixElems common.Vec
	SuffixElems common.Vec
	PrefixBytes []byte
	SuffixBytes []byte
	ChunkRange  index.Range
}

// LargeRangeProver produces and checks LargeRangeProofs. Verification needs
// no pairing.
type LargeRangeProver struct {
	*Scheme
}

var _ PayloadProver[*LargeRangeProof] = (*LargeRangeProver)(nil)

func (p *LargeRangeProver) PayloadProof(payload []byte, r index.Range) (*LargeRangeProof, error) {
	res, rangeElemByte, err := p.resolvePayloadRange(payload, r)
	if err != nil {
		return nil, err
	}

	elems := p.chunkElems(payload, res.Poly.Start)
	suffixStart := min(res.OffsetElem+res.Elem.Len(), len(elems))

	p.logger.Debug().
		Stringer("range", r).
		Int("poly", res.Poly.Start).
		Int("prefix_elems", res.OffsetElem).
		Int("suffix_elems", len(elems)-suffixStart).
		Msg("built large range proof")

	return &LargeRangeProof{
		PrefixElems: append(common.Vec(nil), elems[:res.OffsetElem]...),
		SuffixElems: append(common.Vec(nil), elems[suffixStart:]...),
		PrefixBytes: bytes.Clone(payload[rangeElemByte.Start:r.Start]),
		SuffixBytes: bytes.Clone(payload[r.End:rangeElemByte.End]),
		ChunkRange:  r,
	}, nil
}

func (p *LargeRangeProver) PayloadVerify(stmt Statement, proof *LargeRangeProof) (bool, error) {
	if proof == nil {
		return false, argumentf("missing proof")
	}
	res, err := p.resolveStatement(&stmt, proof.ChunkRange)
	if err != nil {
		return false, err
	}

	polyCommit, err := p.commitAt(stmt.Common, res.Poly.Start)
	if err != nil {
		return false, err
	}

	elems := proof.PrefixElems.
		Concat(common.BytesToFieldChain(proof.PrefixBytes, stmt.PayloadSubslice, proof.SuffixBytes)).
		Concat(proof.SuffixElems)
	poly, err := p.polynomial(elems)
	if err != nil {
		return false, err
	}
	rebuilt, err := pp.Commit(p.pp, poly)
	if err != nil {
		return false, err
	}

	if !rebuilt.Equal(&polyCommit) {
		p.logger.Debug().Stringer("range", proof.ChunkRange).Int("poly", res.Poly.Start).Msg("rebuilt commitment mismatch")
		return false, nil
	}
	return true, nil
}
