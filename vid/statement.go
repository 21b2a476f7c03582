package vid

import (
	"vid/common"
	"vid/index"
	"vid/pp"
)

// Statement is what a verifier holds: a claimed payload subslice, the byte
// range it claims to occupy, and the payload commitment.
type Statement struct {
	PayloadSubslice []byte
	Range           index.Range
	Commit          *Commit
	Common          *Common
}

// PayloadProver proves and verifies that a payload byte range has a claimed
// value. PayloadVerify returns an error for malformed or inconsistent input
// and false for a well formed proof that does not verify.
type PayloadProver[P any] interface {
	PayloadProof(payload []byte, r index.Range) (P, error)
	PayloadVerify(stmt Statement, proof P) (bool, error)
}

func checkRangeNonemptyAndInsidePayload(payload []byte, r index.Range) error {
	if r.IsEmpty() {
		return argumentf("empty range (%d..%d)", r.Start, r.End)
	}
	if r.Start < 0 || r.End > len(payload) {
		return argumentf("range (%d..%d) out of bounds for payload len %d", r.Start, r.End, len(payload))
	}
	return nil
}

// TODO: lift the single polynomial restriction by proving each spanned
// polynomial and concatenating the proofs.
func checkRangePoly(rangePoly index.Range) error {
	if rangePoly.Len() != 1 {
		return argumentf("request spans %d polynomials, expect 1", rangePoly.Len())
	}
	return nil
}

func checkStmtProofConsistency(stmt *Statement, proofRange index.Range) error {
	if stmt.Range.IsEmpty() {
		return argumentf("empty range (%d,%d)", stmt.Range.Start, stmt.Range.End)
	}
	if stmt.Range.Start < 0 {
		return argumentf("negative range start %d", stmt.Range.Start)
	}
	if len(stmt.PayloadSubslice) != stmt.Range.Len() {
		return argumentf("payload_subslice length %d inconsistent with range length %d", len(stmt.PayloadSubslice), stmt.Range.Len())
	}
	if stmt.Range != proofRange {
		return argumentf("statement range (%d,%d) differs from proof range (%d,%d)",
			stmt.Range.Start, stmt.Range.End, proofRange.Start, proofRange.End)
	}
	return nil
}

func (s *Scheme) checkCommonCommitConsistency(c *Common, commit *Commit) error {
	if c == nil || commit == nil {
		return argumentf("statement is missing common or commit")
	}
	if *commit != s.polyCommitsHash(c.PolyCommits) {
		return argumentf("common inconsistent with commit")
	}
	return nil
}

// resolveStatement runs the checks shared by both verifiers, in order:
// statement against proof, polynomial span, common against commit.
func (s *Scheme) resolveStatement(stmt *Statement, proofRange index.Range) (index.Resolution, error) {
	if err := checkStmtProofConsistency(stmt, proofRange); err != nil {
		return index.Resolution{}, err
	}
	res := s.conv.Resolve(proofRange)
	if err := checkRangePoly(res.Poly); err != nil {
		return index.Resolution{}, err
	}
	if err := s.checkCommonCommitConsistency(stmt.Common, stmt.Commit); err != nil {
		return index.Resolution{}, err
	}
	return res, nil
}

func (s *Scheme) resolvePayloadRange(payload []byte, r index.Range) (index.Resolution, index.Range, error) {
	if err := checkRangeNonemptyAndInsidePayload(payload, r); err != nil {
		return index.Resolution{}, index.Range{}, err
	}
	res := s.conv.Resolve(r)
	rangeElemByte := s.conv.RangeElemToByteClamped(res.Elem, len(payload))
	if err := checkRangePoly(res.Poly); err != nil {
		return index.Resolution{}, index.Range{}, err
	}
	return res, rangeElemByte, nil
}

func (s *Scheme) points(res index.Resolution) common.Vec {
	return pp.Points(s.pp, res.OffsetElem, res.Elem.Len())
}
