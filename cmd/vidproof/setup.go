package main

import (
	"os"
	"vid/pp"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Generate a KZG reference string for the configured chunk size",
	Long: "Generate a KZG reference string for the configured chunk size.\n" +
		"The secret is sampled locally and discarded: use a ceremony output in production.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := pp.NewPublicParams(conf.ChunkSize)
		if err != nil {
			return err
		}

		f, err := os.OpenFile(conf.SRSFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return errors.Wrap(err, "failed creating SRS file")
		}
		defer f.Close()

		if _, err := params.WriteTo(f); err != nil {
			return errors.Wrap(err, "failed writing SRS")
		}

		logger.Info().
			Str("file", conf.SRSFile).
			Int("domain", params.Cardinality()).
			Hex("digest", params.Digest).
			Msg("wrote reference string")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
