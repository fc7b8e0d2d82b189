package humanid

import "testing"

func TestSequenceUpdateRule(t *testing.T) {
	digest, err := Digest("hello")
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	seq := newSequence(digest[:], 0, SeedUnsigned)
	if seq.state != 0xba4df22c {
		t.Fatalf("unexpected seed %#x", seq.state)
	}
	for _, want := range []int64{1731053467, 896325694, 1865196165} {
		if got := seq.next(); got != want {
			t.Fatalf("expected %d, got %d", want, got)
		}
	}
}

func TestSequenceWindowWraps(t *testing.T) {
	digest := make([]byte, DigestSize)
	digest[30], digest[31], digest[0], digest[1] = 0x01, 0x02, 0x03, 0x04

	seq := newSequence(digest, 30, SeedUnsigned)
	if seq.state != 0x04030201 {
		t.Fatalf("expected wrapped seed 0x04030201, got %#x", seq.state)
	}
	if again := newSequence(digest, 30+DigestSize, SeedUnsigned); again.state != seq.state {
		t.Fatalf("offset should be taken modulo digest length")
	}
}

func TestSequenceLegacySignExtension(t *testing.T) {
	digest := make([]byte, DigestSize)
	digest[3] = 0x80

	if s := newSequence(digest, 0, SeedUnsigned); s.state != 0x80000000 {
		t.Fatalf("unsigned seed: %#x", s.state)
	}
	legacy := newSequence(digest, 0, SeedLegacySigned)
	if legacy.state != -0x80000000 {
		t.Fatalf("legacy seed: %d", legacy.state)
	}
	if got := legacy.choice([]string{"ba", "ke"}); got != "" {
		t.Fatalf("negative state should select nothing, got %q", got)
	}
}

func TestSequenceOffsetsDiffer(t *testing.T) {
	digest, _ := Digest(scenarioWallet)
	seen := map[int64]int{}
	for i := 0; i < 8; i++ {
		s := newSequence(digest[:], i*4, SeedUnsigned)
		if prev, ok := seen[s.state]; ok {
			t.Fatalf("segments %d and %d share a seed", prev, i)
		}
		seen[s.state] = i
	}
}

func TestChoiceSingleElement(t *testing.T) {
	digest, _ := Digest("x")
	seq := newSequence(digest[:], 0, SeedUnsigned)
	for i := 0; i < 10; i++ {
		if got := seq.choice([]string{"lo"}); got != "lo" {
			t.Fatalf("expected lo, got %q", got)
		}
	}
}
