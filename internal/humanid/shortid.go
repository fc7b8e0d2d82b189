package humanid

import (
	"encoding/base64"
	"strings"
)

var shortIDStripper = strings.NewReplacer("+", "", "/", "", "=", "")

// EncodeShortID renders a digest as an uppercase alphanumeric key of at most
// length characters. Output shorter than length is returned as is, never padded.
func EncodeShortID(digest []byte, length int) (string, error) {
	if length <= 0 {
		return "", invalid("short id length", "must be positive")
	}
	s := shortIDStripper.Replace(base64.StdEncoding.EncodeToString(digest))
	if len(s) > length {
		s = s[:length]
	}
	return strings.ToUpper(s), nil
}
