// Package humanid derives stable, pronounceable identifiers from wallet
// addresses. Derivation is pure: it reads only its input and the deriver's
// immutable tables, so a Deriver is safe for concurrent use.
package humanid

import (
	"fmt"
	"strings"
)

const (
	DefaultSegments      = 4
	DefaultWordLength    = 2
	DefaultShortIDLength = 20

	internalPrefixLength = 8
)

// Result bundles everything derived from one wallet.
type Result struct {
	ShortID    string   `json:"short_id"`
	Segments   []string `json:"segments"`
	HumanID    string   `json:"human_id"`
	InternalID string   `json:"internal_id"`
}

// Config describes a Deriver. Zero values fall back to the defaults.
type Config struct {
	Syllables     []string
	Markov        map[string][]string
	SeedMode      SeedMode
	WordMode      WordMode
	Segments      int
	WordLength    int
	ShortIDLength int
}

// Deriver turns wallets into identifiers using a fixed syllable pool.
type Deriver struct {
	syllables []string
	markov    map[string][]string
	seedMode  SeedMode
	wordMode  WordMode
	defaults  params
}

type params struct {
	segments      int
	wordLength    int
	shortIDLength int
}

// Option overrides a length for a single derivation.
type Option func(*params)

// WithSegments sets the number of hyphen-separated segments.
func WithSegments(n int) Option { return func(p *params) { p.segments = n } }

// WithWordLength sets the number of syllables per segment.
func WithWordLength(n int) Option { return func(p *params) { p.wordLength = n } }

// WithShortIDLength sets the maximum short ID length.
func WithShortIDLength(n int) Option { return func(p *params) { p.shortIDLength = n } }

var defaultDeriver = mustDeriver(Config{})

// Default returns the deriver built from the deployed constants.
func Default() *Deriver { return defaultDeriver }

// Derive runs the default deriver.
func Derive(wallet string, opts ...Option) (Result, error) {
	return defaultDeriver.Derive(wallet, opts...)
}

// NewDeriver validates cfg and copies its tables so later mutation by the
// caller cannot change issued identifiers.
func NewDeriver(cfg Config) (*Deriver, error) {
	syllables := cfg.Syllables
	if len(syllables) == 0 {
		syllables = DefaultSyllables
	}
	for _, s := range syllables {
		if !isLowerAlpha(s) {
			return nil, fmt.Errorf("syllable %q: must be non-empty lowercase ascii letters", s)
		}
	}

	markov := cfg.Markov
	if markov == nil {
		markov = DefaultMarkov
	}
	table := make(map[string][]string, len(markov))
	for from, to := range markov {
		for _, s := range to {
			if !isLowerAlpha(s) {
				return nil, fmt.Errorf("markov transition %s -> %q: must be non-empty lowercase ascii letters", from, s)
			}
		}
		table[from] = append([]string(nil), to...)
	}

	switch cfg.SeedMode {
	case SeedUnsigned, SeedLegacySigned:
	default:
		return nil, fmt.Errorf("unknown seed mode %d", cfg.SeedMode)
	}
	switch cfg.WordMode {
	case FlatWords, MarkovWords:
	default:
		return nil, fmt.Errorf("unknown word mode %d", cfg.WordMode)
	}

	d := &Deriver{
		syllables: append([]string(nil), syllables...),
		markov:    table,
		seedMode:  cfg.SeedMode,
		wordMode:  cfg.WordMode,
		defaults: params{
			segments:      orDefault(cfg.Segments, DefaultSegments),
			wordLength:    orDefault(cfg.WordLength, DefaultWordLength),
			shortIDLength: orDefault(cfg.ShortIDLength, DefaultShortIDLength),
		},
	}
	if err := d.defaults.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func mustDeriver(cfg Config) *Deriver {
	d, err := NewDeriver(cfg)
	if err != nil {
		panic(err)
	}
	return d
}

// Segments returns the default segment count.
func (d *Deriver) Segments() int { return d.defaults.segments }

// Derive computes the identifiers for wallet.
func (d *Deriver) Derive(wallet string, opts ...Option) (Result, error) {
	p := d.defaults
	for _, opt := range opts {
		opt(&p)
	}
	if err := p.validate(); err != nil {
		return Result{}, err
	}

	digest, err := Digest(wallet)
	if err != nil {
		return Result{}, err
	}

	shortID, err := EncodeShortID(digest[:], p.shortIDLength)
	if err != nil {
		return Result{}, err
	}

	segments := make([]string, 0, p.segments)
	for i := 0; i < p.segments; i++ {
		if w := d.synthesizeWord(digest[:], i, p.wordLength); w != "" {
			segments = append(segments, w)
		}
	}
	humanID := strings.Join(segments, "-")

	prefix := shortID
	if len(prefix) > internalPrefixLength {
		prefix = prefix[:internalPrefixLength]
	}

	return Result{
		ShortID:    shortID,
		Segments:   segments,
		HumanID:    humanID,
		InternalID: prefix + "-" + humanID,
	}, nil
}

func (p params) validate() error {
	if p.segments <= 0 {
		return invalid("segments", "must be positive")
	}
	if p.wordLength <= 0 {
		return invalid("word length", "must be positive")
	}
	if p.shortIDLength <= 0 {
		return invalid("short id length", "must be positive")
	}
	return nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func isLowerAlpha(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}
