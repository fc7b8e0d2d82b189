package humanid

const (
	lcgMultiplier = 1664525
	lcgIncrement  = 1013904223
	lcgModulus    = 1 << 32
)

// SeedMode selects how the 4-byte seed window is turned into the generator state.
type SeedMode int

const (
	// SeedUnsigned reads the window as an unsigned little-endian uint32.
	SeedUnsigned SeedMode = iota
	// SeedLegacySigned sign-extends the top byte of the window the way the first
	// deployment did. A negative state stays negative under the update rule and
	// maps to an empty syllable, so segments may come out empty and get dropped.
	// Only use it to reproduce identifiers issued by that deployment.
	SeedLegacySigned
)

func (m SeedMode) String() string {
	switch m {
	case SeedLegacySigned:
		return "legacy"
	default:
		return "unsigned"
	}
}

// sequence is a linear congruential generator seeded from a digest window.
// It is deterministic and must never be used where unpredictability matters.
type sequence struct {
	state  int64
	signed bool
}

func newSequence(digest []byte, offset int, mode SeedMode) *sequence {
	n := len(digest)
	start := offset % n
	if start < 0 {
		start += n
	}
	var seed uint32
	for i := 0; i < 4; i++ {
		seed |= uint32(digest[(start+i)%n]) << (8 * i)
	}
	s := &sequence{state: int64(seed), signed: mode == SeedLegacySigned}
	if s.signed && seed >= 1<<31 {
		s.state -= lcgModulus
	}
	return s
}

// next advances the generator. In signed mode the remainder keeps the sign of
// the dividend, matching truncated division.
func (s *sequence) next() int64 {
	s.state = (lcgMultiplier*s.state + lcgIncrement) % lcgModulus
	return s.state
}

// choice returns pool[next() mod len(pool)]. A negative index, reachable only in
// signed mode, selects nothing.
func (s *sequence) choice(pool []string) string {
	i := s.next() % int64(len(pool))
	if i < 0 {
		return ""
	}
	return pool[i]
}
