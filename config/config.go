// Package config loads the parameters of a proving or verifying node.
package config

import (
	"os"
	"vid/vid"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// ChunkSize is the number of field elements per polynomial.
	ChunkSize int `yaml:"chunk_size"`
	// Hasher fingerprints the commitment list: sha256, sha3-256 or blake2b-256.
	Hasher string `yaml:"hasher"`
	// SRSFile holds the KZG reference string. It must cover the evaluation
	// domain of ChunkSize points.
	SRSFile   string `yaml:"srs_file"`
	StorePath string `yaml:"store_path"`
	LogLevel  string `yaml:"log_level"`
}

func Default() *Config {
	return &Config{
		ChunkSize: 4,
		Hasher:    vid.SHA256,
		SRSFile:   "srs.bin",
		StorePath: "vidstore",
		LogLevel:  "info",
	}
}

// Load reads a YAML file on top of the defaults. An empty path yields the
// defaults.
func Load(path string) (*Config, error) {
	conf := Default()
	if path == "" {
		return conf, conf.Validate()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed reading config")
	}
	if err := yaml.Unmarshal(raw, conf); err != nil {
		return nil, errors.Wrapf(err, "failed parsing %s", path)
	}
	return conf, conf.Validate()
}

func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return errors.Errorf("chunk_size must be positive, got %d", c.ChunkSize)
	}
	if _, err := vid.HasherByName(c.Hasher); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, errors.Wrapf(err, "invalid log_level %q", c.LogLevel)
	}
	return level, nil
}

func (c *Config) Logger() zerolog.Logger {
	level, err := c.Level()
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}
