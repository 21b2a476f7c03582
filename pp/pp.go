package pp

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"math/big"
	"runtime"
	"vid/common"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/fft"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/kzg"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ParallelismEnabled controls whether independent openings and commitments
// run concurrently.
var ParallelismEnabled = true

// Parallelism is the number of concurrent tasks MultiOpen and callers
// committing to several polynomials should use.
func Parallelism() int {
	if !ParallelismEnabled {
		return 1
	}
	return runtime.NumCPU()
}

// PP holds the KZG structured reference string together with the radix-2
// evaluation domain polynomials are interpolated over. It is immutable after
// construction and safe for concurrent use.
type PP struct {
	Digest []byte
	N      int
	SRS    *kzg.SRS
	Domain *fft.Domain
}

// NewPublicParams samples a fresh secret. The secret is discarded, so the
// result is only as trustworthy as the machine that produced it.
func NewPublicParams(N int) (*PP, error) {
	α, err := rand.Int(rand.Reader, fr.Modulus())
	if err != nil {
		return nil, errors.Wrap(err, "failed obtaining randomness source")
	}
	return NewPublicParamsFromSecret(N, α)
}

// NewPublicParamsFromSecret builds public parameters for polynomials
// interpolated over N points from a known secret. Meant for tests.
func NewPublicParamsFromSecret(N int, α *big.Int) (*PP, error) {
	if N <= 0 {
		return nil, fmt.Errorf("domain size must be positive, got %d", N)
	}
	domain := fft.NewDomain(uint64(N))
	srs, err := kzg.NewSRS(srsSize(domain), α)
	if err != nil {
		return nil, errors.Wrap(err, "failed generating SRS")
	}
	return newPP(N, srs, domain), nil
}

// ReadPublicParams loads an SRS previously written with WriteTo.
func ReadPublicParams(r io.Reader, N int) (*PP, error) {
	if N <= 0 {
		return nil, fmt.Errorf("domain size must be positive, got %d", N)
	}
	var srs kzg.SRS
	if _, err := srs.ReadFrom(r); err != nil {
		return nil, errors.Wrap(err, "failed reading SRS")
	}
	domain := fft.NewDomain(uint64(N))
	if need := srsSize(domain); uint64(len(srs.Pk.G1)) < need {
		return nil, fmt.Errorf("SRS has %d G1 powers but the domain needs %d", len(srs.Pk.G1), need)
	}
	return newPP(N, &srs, domain), nil
}

func (pp *PP) WriteTo(w io.Writer) (int64, error) {
	return pp.SRS.WriteTo(w)
}

func newPP(N int, srs *kzg.SRS, domain *fft.Domain) *PP {
	pp := &PP{N: N, SRS: srs, Domain: domain}
	pp.SetupDigest()
	return pp
}

func srsSize(domain *fft.Domain) uint64 {
	if domain.Cardinality < 2 {
		return 2
	}
	return domain.Cardinality
}

// Cardinality is the number of points of the evaluation domain, N rounded
// up to a power of two.
func (pp *PP) Cardinality() int {
	return int(pp.Domain.Cardinality)
}

func (pp *PP) Size() int {
	return len(pp.SRS.Pk.G1)*bls12381.SizeOfG1AffineCompressed + len(pp.SRS.Vk.G2)*bls12381.SizeOfG2AffineCompressed
}

func (pp *PP) SetupDigest() {
	h := sha256.New()
	h.Write(common.G1v(pp.SRS.Pk.G1).Bytes())
	for i := 0; i < len(pp.SRS.Vk.G2); i++ {
		b := pp.SRS.Vk.G2[i].Bytes()
		h.Write(b[:])
	}
	pp.Digest = h.Sum(nil)
}

// Points returns n consecutive evaluation domain points starting at offset.
func Points(pp *PP, offset, n int) common.Vec {
	if offset < 0 || n < 0 || offset+n > pp.Cardinality() {
		panic(fmt.Sprintf("points [%d,%d) outside domain of size %d", offset, offset+n, pp.Cardinality()))
	}
	res := make(common.Vec, n)
	if n == 0 {
		return res
	}
	res[0].Exp(pp.Domain.Generator, big.NewInt(int64(offset)))
	for i := 1; i < n; i++ {
		res[i].Mul(&res[i-1], &pp.Domain.Generator)
	}
	return res
}

// Interpolate returns the coefficients of the polynomial that takes the
// given values on the first len(evals) domain points and zero on the rest.
// The result has one coefficient per SRS power, so a single point domain
// still yields a polynomial kzg can open.
func Interpolate(pp *PP, evals common.Vec) (common.Vec, error) {
	if len(evals) > pp.Cardinality() {
		return nil, fmt.Errorf("%d evaluations exceed domain of size %d", len(evals), pp.Cardinality())
	}
	coeffs := evals.PadTo(pp.Cardinality())
	pp.Domain.FFTInverse(coeffs, fft.DIF)
	fft.BitReverse(coeffs)
	return coeffs.PadTo(int(srsSize(pp.Domain))), nil
}

func Commit(pp *PP, coeffs common.Vec) (kzg.Digest, error) {
	digest, err := kzg.Commit(coeffs, pp.SRS.Pk)
	if err != nil {
		return kzg.Digest{}, errors.Wrap(err, "failed committing to polynomial")
	}
	return digest, nil
}

// MultiOpen computes one opening proof per point.
func MultiOpen(pp *PP, coeffs common.Vec, points common.Vec) (common.G1v, common.Vec, error) {
	proofs := make(common.G1v, len(points))
	evals := make(common.Vec, len(points))

	var g errgroup.Group
	g.SetLimit(Parallelism())
	for i := range points {
		i := i
		g.Go(func() error {
			π, err := kzg.Open(coeffs, points[i], pp.SRS.Pk)
			if err != nil {
				return errors.Wrapf(err, "failed opening polynomial at point %d", i)
			}
			proofs[i] = π.H
			evals[i] = π.ClaimedValue
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return proofs, evals, nil
}

// Verify checks that π opens C to eval at point. A proof that does not
// verify yields false and no error.
func Verify(pp *PP, C *kzg.Digest, point, eval fr.Element, π *bls12381.G1Affine) (bool, error) {
	proof := kzg.OpeningProof{H: *π, ClaimedValue: eval}
	err := kzg.Verify(C, &proof, point, pp.SRS.Vk)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, kzg.ErrVerifyOpeningProof) {
		return false, nil
	}
	return false, errors.Wrap(err, "failed verifying opening proof")
}
