package humanid

import "crypto/sha256"

// DigestSize is the length of a wallet digest in bytes.
const DigestSize = sha256.Size

// Digest hashes the UTF-8 bytes of a wallet string. The wallet is not parsed.
func Digest(wallet string) ([DigestSize]byte, error) {
	if wallet == "" {
		return [DigestSize]byte{}, invalid("wallet", "must be a non-empty string")
	}
	return sha256.Sum256([]byte(wallet)), nil
}
