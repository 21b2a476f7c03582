package main

import (
	"fmt"
	"os"
	"vid/config"
	"vid/pp"
	"vid/store"
	"vid/vid"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configFile string

	conf   *config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:          "vidproof",
	Short:        "Commit to payloads and prove or verify payload byte ranges",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if conf, err = config.Load(configFile); err != nil {
			return err
		}
		logger = conf.Logger()
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.HelpFunc()(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML configuration file.")
}

func loadScheme() (*vid.Scheme, error) {
	f, err := os.Open(conf.SRSFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed opening SRS file, run setup first")
	}
	defer f.Close()

	params, err := pp.ReadPublicParams(f, conf.ChunkSize)
	if err != nil {
		return nil, err
	}
	hasher, err := vid.HasherByName(conf.Hasher)
	if err != nil {
		return nil, err
	}
	return vid.New(conf.ChunkSize, params, vid.WithHasher(hasher), vid.WithLogger(logger))
}

func openStore() (*store.Store, error) {
	db, err := store.NewDB(conf.StorePath)
	if err != nil {
		return nil, err
	}
	return store.New(db), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
