package humanid

import "testing"

func TestEncodeShortID(t *testing.T) {
	digest, _ := Digest("hello")

	full, err := EncodeShortID(digest[:], 100)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if full != "LPJNULWOW4M6DSQXBNINHSWHLWFP0JECWQZYPOLMCQ" {
		t.Fatalf("unexpected full encoding %s", full)
	}
	for _, c := range full {
		if c == '+' || c == '/' || c == '=' || (c >= 'a' && c <= 'z') {
			t.Fatalf("unexpected character %q in %s", c, full)
		}
	}

	short, err := EncodeShortID(digest[:], 8)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if short != "LPJNULWO" {
		t.Fatalf("expected LPJNULWO, got %s", short)
	}

	if _, err := EncodeShortID(digest[:], 0); err == nil {
		t.Fatalf("expected error for zero length")
	}
}

func TestLooksLikeHumanID(t *testing.T) {
	cases := map[string]bool{
		"bato-kali-masu-rivo": true,
		"bato":                true,
		"":                    false,
		"-bato":               false,
		"bato-":               false,
		"bato--kali":          false,
		"Bato-kali":           false,
		"bato-k4li":           false,
		"bato_kali":           false,
	}
	for in, want := range cases {
		if got := LooksLikeHumanID(in); got != want {
			t.Fatalf("LooksLikeHumanID(%q) = %v, want %v", in, got, want)
		}
	}
}
