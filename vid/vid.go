// Package vid commits to payloads chunk by chunk and proves that a byte range
// of a committed payload has a claimed value.
//
// A payload is packed into field elements and split into groups of chunkSize
// elements. Each group is interpolated over the evaluation domain and
// committed with KZG. The public commitment is a hash over the list of
// per-polynomial commitments.
//
// Two proof kinds are provided:
//
//   - SmallRangeProof: KZG opening proofs for every element a range touches.
//     Cheap for short ranges such as a single transaction, but needs a
//     pairing to verify.
//   - LargeRangeProof: the rest of the polynomial, enough for the verifier to
//     recompute the polynomial commitment. Needs no pairing, which makes it
//     suitable for verification inside a circuit.
package vid

import (
	"encoding/hex"
	"fmt"
	"vid/common"
	"vid/index"
	"vid/pp"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/kzg"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// CommitSize is the length of the payload fingerprint.
const CommitSize = 32

// Commit is the short public commitment to a payload.
type Commit [CommitSize]byte

func (c Commit) String() string {
	return hex.EncodeToString(c[:])
}

func CommitFromHex(s string) (Commit, error) {
	var c Commit
	b, err := hex.DecodeString(s)
	if err != nil {
		return c, errors.Wrap(err, "invalid commit encoding")
	}
	if len(b) != CommitSize {
		return c, fmt.Errorf("commit must be %d bytes, got %d", CommitSize, len(b))
	}
	copy(c[:], b)
	return c, nil
}

// Common is the list of per-polynomial commitments, in payload order.
type Common struct {
	PolyCommits common.G1v
}

// Scheme holds the fixed parameters payloads are committed and proved with.
// It is immutable and safe for concurrent use.
type Scheme struct {
	chunkSize int
	pp        *pp.PP
	conv      index.Converter
	hasher    Hasher
	logger    zerolog.Logger
}

type Option func(*Scheme)

func WithHasher(h Hasher) Option {
	return func(s *Scheme) {
		s.hasher = h
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Scheme) {
		s.logger = logger
	}
}

// New creates a scheme committing to chunkSize elements per polynomial.
// The evaluation domain of params must hold at least chunkSize points.
func New(chunkSize int, params *pp.PP, opts ...Option) (*Scheme, error) {
	if chunkSize <= 0 {
		return nil, argumentf("payload chunk size must be positive, got %d", chunkSize)
	}
	if params == nil {
		return nil, argumentf("missing public parameters")
	}
	if params.Cardinality() < chunkSize {
		return nil, argumentf("payload chunk size %d exceeds evaluation domain size %d", chunkSize, params.Cardinality())
	}

	s := &Scheme{
		chunkSize: chunkSize,
		pp:        params,
		conv:      index.NewConverter(common.ElemByteCapacity, chunkSize),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.hasher == nil {
		s.hasher, _ = HasherByName(SHA256)
	}
	if size := s.hasher().Size(); size != CommitSize {
		return nil, argumentf("hasher digest size %d, expect %d", size, CommitSize)
	}

	return s, nil
}

func (s *Scheme) ChunkSize() int {
	return s.chunkSize
}

// PolyByteLen is the number of payload bytes each polynomial covers.
func (s *Scheme) PolyByteLen() int {
	return s.conv.PolyByteLen()
}

func (s *Scheme) SmallRange() *SmallRangeProver {
	return &SmallRangeProver{s}
}

func (s *Scheme) LargeRange() *LargeRangeProver {
	return &LargeRangeProver{s}
}

// Commit computes the commitment list of payload and its fingerprint.
func (s *Scheme) Commit(payload []byte) (Commit, *Common, error) {
	polyLen := s.conv.PolyByteLen()
	numPolys := (len(payload) + polyLen - 1) / polyLen
	commits := make(common.G1v, numPolys)

	var g errgroup.Group
	g.SetLimit(pp.Parallelism())
	for i := 0; i < numPolys; i++ {
		i := i
		g.Go(func() error {
			poly, err := s.polynomial(s.chunkElems(payload, i))
			if err != nil {
				return err
			}
			commits[i], err = pp.Commit(s.pp, poly)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Commit{}, nil, err
	}

	s.logger.Debug().Int("payload_len", len(payload)).Int("polynomials", numPolys).Msg("committed to payload")

	return s.polyCommitsHash(commits), &Common{PolyCommits: commits}, nil
}

// chunkElems packs the bytes of polynomial i.
func (s *Scheme) chunkElems(payload []byte, i int) common.Vec {
	start := s.conv.IndexPolyToByte(i)
	end := min(start+s.conv.PolyByteLen(), len(payload))
	return common.BytesToField(payload[start:end], s.chunkSize)
}

// polynomial interpolates elems over the evaluation domain. Missing trailing
// elements are zero.
func (s *Scheme) polynomial(elems common.Vec) (common.Vec, error) {
	if len(elems) > s.chunkSize {
		return nil, argumentf("polynomial of %d elements exceeds chunk size %d", len(elems), s.chunkSize)
	}
	return pp.Interpolate(s.pp, elems)
}

func (s *Scheme) polyCommitsHash(commits common.G1v) Commit {
	h := s.hasher()
	h.Write(commits.Bytes())
	var c Commit
	copy(c[:], h.Sum(nil))
	return c
}

func (s *Scheme) commitAt(c *Common, poly int) (kzg.Digest, error) {
	if poly >= len(c.PolyCommits) {
		return kzg.Digest{}, argumentf("polynomial index %d out of bounds for %d commitments", poly, len(c.PolyCommits))
	}
	return c.PolyCommits[poly], nil
}
