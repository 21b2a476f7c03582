package main

import (
	"os"
	"vid/index"
	"vid/store"
	"vid/vid"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	subsliceFile string
	commitHex    string
)

var errInvalidProof = errors.New("proof does not verify")

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify that claimed bytes occupy a range of a committed payload",
	Long: "Verify that claimed bytes occupy a range of a committed payload.\n" +
		"The commitment list is read from the store. Without --proof the archived proof is used.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := store.ParseKind(proofKind)
		if err != nil {
			return err
		}
		commit, err := vid.CommitFromHex(commitHex)
		if err != nil {
			return err
		}
		subslice, err := os.ReadFile(subsliceFile)
		if err != nil {
			return errors.Wrap(err, "failed reading claimed subslice")
		}
		s, err := loadScheme()
		if err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		common, err := st.GetCommon(commit)
		if err != nil {
			return errors.Wrapf(err, "no commitment list for %s", commit)
		}

		r := index.Range{Start: rangeStart, End: rangeEnd}
		stmt := vid.Statement{
			PayloadSubslice: subslice,
			Range:           r,
			Commit:          &commit,
			Common:          common,
		}

		ok, err := verify(s, st, stmt, kind)
		if err != nil {
			return err
		}
		if !ok {
			logger.Warn().Stringer("commit", commit).Stringer("range", r).Stringer("kind", kind).Msg("invalid proof")
			return errInvalidProof
		}
		logger.Info().Stringer("commit", commit).Stringer("range", r).Stringer("kind", kind).Msg("valid proof")
		return nil
	},
}

func verify(s *vid.Scheme, st *store.Store, stmt vid.Statement, kind store.Kind) (bool, error) {
	if kind == store.SmallRange {
		var proof *vid.SmallRangeProof
		if err := loadProof(&proof, func() (*vid.SmallRangeProof, error) {
			return st.GetSmallRangeProof(*stmt.Commit, stmt.Range)
		}); err != nil {
			return false, err
		}
		return s.SmallRange().PayloadVerify(stmt, proof)
	}

	var proof *vid.LargeRangeProof
	if err := loadProof(&proof, func() (*vid.LargeRangeProof, error) {
		return st.GetLargeRangeProof(*stmt.Commit, stmt.Range)
	}); err != nil {
		return false, err
	}
	return s.LargeRange().PayloadVerify(stmt, proof)
}

type decodable[T any] interface {
	*T
	UnmarshalBinary([]byte) error
}

// loadProof reads the proof from --proof when given, from the archive
// otherwise.
func loadProof[T any, P decodable[T]](dst *P, archived func() (P, error)) error {
	if proofFile == "" {
		proof, err := archived()
		if err != nil {
			return errors.Wrap(err, "no archived proof")
		}
		*dst = proof
		return nil
	}

	raw, err := os.ReadFile(proofFile)
	if err != nil {
		return errors.Wrap(err, "failed reading proof")
	}
	proof := P(new(T))
	if err := proof.UnmarshalBinary(raw); err != nil {
		return err
	}
	*dst = proof
	return nil
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVar(&subsliceFile, "subslice", "", "The claimed bytes.")
	verifyCmd.Flags().StringVar(&commitHex, "commit", "", "The payload commitment, hex encoded.")
	verifyCmd.Flags().StringVar(&proofFile, "proof", "", "The encoded proof. Defaults to the archived one.")
	addRangeFlags(verifyCmd)
	verifyCmd.MarkFlagRequired("subslice")
	verifyCmd.MarkFlagRequired("commit")
}
