package humanid

import "strings"

// WordMode selects how syllables are chained into a segment.
type WordMode int

const (
	// FlatWords samples every syllable independently from the pool.
	FlatWords WordMode = iota
	// MarkovWords walks the transition table, falling back to the flat pool for
	// syllables without outgoing transitions. Produces different identifiers
	// than FlatWords for the same wallet.
	MarkovWords
)

func (m WordMode) String() string {
	switch m {
	case MarkovWords:
		return "markov"
	default:
		return "flat"
	}
}

func (d *Deriver) synthesizeWord(digest []byte, segmentIndex, syllableCount int) string {
	seq := newSequence(digest, segmentIndex*4, d.seedMode)

	var b strings.Builder
	b.Grow(syllableCount * 2)
	prev := MarkovStart
	for i := 0; i < syllableCount; i++ {
		pool := d.syllables
		if d.wordMode == MarkovWords {
			if next, ok := d.markov[prev]; ok && len(next) > 0 {
				pool = next
			}
		}
		syl := seq.choice(pool)
		b.WriteString(syl)
		if syl != "" {
			prev = syl
		}
	}
	return b.String()
}
