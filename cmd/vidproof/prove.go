package main

import (
	"encoding"
	"os"
	"vid/index"
	"vid/store"
	"vid/vid"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	rangeStart int
	rangeEnd   int
	proofKind  string
	proofFile  string
)

var proveCmd = &cobra.Command{
	Use:   "prove",
	Short: "Prove a byte range of a payload",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := store.ParseKind(proofKind)
		if err != nil {
			return err
		}
		payload, err := os.ReadFile(payloadFile)
		if err != nil {
			return errors.Wrap(err, "failed reading payload")
		}
		s, err := loadScheme()
		if err != nil {
			return err
		}
		commit, common, err := s.Commit(payload)
		if err != nil {
			return err
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.PutCommon(commit, common); err != nil {
			return err
		}

		r := index.Range{Start: rangeStart, End: rangeEnd}
		proof, err := prove(s, st, commit, kind, payload, r)
		if err != nil {
			return err
		}

		raw, err := proof.MarshalBinary()
		if err != nil {
			return err
		}
		if proofFile != "" {
			if err := os.WriteFile(proofFile, raw, 0644); err != nil {
				return errors.Wrap(err, "failed writing proof")
			}
		}

		logger.Info().
			Stringer("commit", commit).
			Stringer("range", r).
			Stringer("kind", kind).
			Int("size", len(raw)).
			Msg("proved")
		return nil
	},
}

func prove(s *vid.Scheme, st *store.Store, commit vid.Commit, kind store.Kind, payload []byte, r index.Range) (encoding.BinaryMarshaler, error) {
	if kind == store.SmallRange {
		proof, err := s.SmallRange().PayloadProof(payload, r)
		if err != nil {
			return nil, err
		}
		return proof, st.PutSmallRangeProof(commit, proof)
	}
	proof, err := s.LargeRange().PayloadProof(payload, r)
	if err != nil {
		return nil, err
	}
	return proof, st.PutLargeRangeProof(commit, proof)
}

func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&rangeStart, "start", 0, "First byte of the range.")
	cmd.Flags().IntVar(&rangeEnd, "end", 0, "One past the last byte of the range.")
	cmd.Flags().StringVar(&proofKind, "kind", "small", "Proof kind: small (pairing based) or large (commitment rebuild).")
	cmd.MarkFlagRequired("end")
}

func init() {
	rootCmd.AddCommand(proveCmd)
	proveCmd.Flags().StringVar(&payloadFile, "payload", "", "The full payload.")
	proveCmd.Flags().StringVar(&proofFile, "proof", "", "Where to write the encoded proof.")
	addRangeFlags(proveCmd)
	proveCmd.MarkFlagRequired("payload")
}
