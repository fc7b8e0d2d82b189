package wallet

import (
	"strings"
	"testing"
)

func TestLooksLikeFullKey(t *testing.T) {
	hex64 := strings.Repeat("ab", 32)
	cases := map[string]bool{
		hex64:                          true,
		"0x" + hex64:                   true,
		"01" + hex64:                   true,
		strings.Repeat("F", 68):        true,
		strings.Repeat("f", 63):        false,
		strings.Repeat("f", 69):        false,
		"0x" + strings.Repeat("g", 64): false,
		"account-hash-" + hex64:        false,
		"":                             false,
	}
	for in, want := range cases {
		if got := LooksLikeFullKey(in); got != want {
			t.Fatalf("LooksLikeFullKey(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLooksLikeAccountHash(t *testing.T) {
	if !LooksLikeAccountHash("account-hash-0123") {
		t.Fatalf("expected account hash")
	}
	if LooksLikeAccountHash("Account-Hash-0123") || LooksLikeAccountHash("") {
		t.Fatalf("unexpected account hash match")
	}
}

func TestLegacyAccountHash(t *testing.T) {
	key := "0203f0c8b9d7a4e1c2b3a4f5e6d7c8b9a0f1e2d3c4b5a6978877665544332211aa"
	if got := LegacyAccountHash(key); got != "account-hash-0203f0c8b9d7a4e1" {
		t.Fatalf("unexpected legacy hash %s", got)
	}
	if got := LegacyAccountHash("abc"); got != "account-hash-abc" {
		t.Fatalf("unexpected legacy hash for short key %s", got)
	}
}

func TestClassify(t *testing.T) {
	cases := map[string]Kind{
		strings.Repeat("ab", 33):       KindFullKey,
		strings.Repeat("ea", 32):       KindFullKey,
		"account-hash-0011":            KindAccountHash,
		"bato-kali-masu-rivo":          KindHumanID,
		"bato":                         KindHumanID,
		"QX7K9P2M-bato-kali-masu-rivo": KindOther,
		"":                             KindOther,
	}
	for in, want := range cases {
		if got := Classify(in); got != want {
			t.Fatalf("Classify(%q) = %s, want %s", in, got, want)
		}
	}
}
