package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Sources names the optional inputs of Load. Empty paths are skipped.
type Sources struct {
	File    string // YAML config file
	EnvFile string // dotenv file; missing file is not an error
}

// Load builds a Config from defaults, the YAML file, the dotenv file and
// finally the environment. Variables already set in the environment win
// over the dotenv file.
func Load(src Sources) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if src.File != "" {
		f, err := os.Open(src.File)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if err := DecodeStrict(f, cfg); err != nil {
			return nil, err
		}
	}

	if src.EnvFile != "" {
		if err := godotenv.Load(src.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	applyEnv(cfg, os.LookupEnv)
	return cfg, nil
}

// DecodeStrict decodes YAML from a reader and rejects unknown fields.
func DecodeStrict(r io.Reader, out any) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvDBHost); ok && v != "" {
		cfg.DocStore.Host = v
	}
	if v, ok := lookup(EnvDBPort); ok && v != "" {
		cfg.DocStore.Port = v
	}
	if v, ok := lookup(EnvDBDatabase); ok && v != "" {
		cfg.DocStore.Database = v
	}
}
