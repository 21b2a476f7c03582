package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var payloadFile string

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Commit to a payload and archive its commitment list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		logger.Info().Int("payload_len", len(payload)).Int("polynomials", len(common.PolyCommits)).Msg("committed")
		fmt.Println(commit)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(commitCmd)
	commitCmd.Flags().StringVar(&payloadFile, "payload", "", "The payload to commit to.")
	commitCmd.MarkFlagRequired("payload")
}
