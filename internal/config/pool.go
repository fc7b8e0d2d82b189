package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/casperid/humanid/internal/humanid"
)

// PoolFile is the YAML layout of HUMANID_POOL_FILE.
type PoolFile struct {
	Syllables []string            `yaml:"syllables"`
	Markov    map[string][]string `yaml:"markov"`
}

// LoadPool parses a syllable pool file. An empty path returns nil tables so
// the deployed defaults apply.
func LoadPool(path string) (PoolFile, error) {
	if path == "" {
		return PoolFile{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return PoolFile{}, fmt.Errorf("read pool file: %w", err)
	}
	var pool PoolFile
	if err := yaml.Unmarshal(data, &pool); err != nil {
		return PoolFile{}, fmt.Errorf("parse pool file %s: %w", path, err)
	}
	return pool, nil
}

// Deriver builds the deriver described by the configuration.
func (c HumanIDConfig) Deriver() (*humanid.Deriver, error) {
	pool, err := LoadPool(c.PoolFile)
	if err != nil {
		return nil, err
	}
	return humanid.NewDeriver(humanid.Config{
		Syllables:     pool.Syllables,
		Markov:        pool.Markov,
		SeedMode:      c.SeedMode,
		WordMode:      c.WordMode,
		Segments:      c.Segments,
		WordLength:    c.WordLength,
		ShortIDLength: c.ShortIDLength,
	})
}
