// Package wallet classifies the address strings callers send us. Addresses
// are opaque: nothing here checks key validity.
package wallet

import (
	"regexp"
	"strings"

	"github.com/casperid/humanid/internal/humanid"
)

const (
	// AccountHashPrefix marks the truncated account-hash form.
	AccountHashPrefix = "account-hash-"

	legacyAccountHashKeyChars = 16
)

var fullKeyPattern = regexp.MustCompile(`^[0-9a-fA-F]{64,68}$`)

// Kind is the shape of a lookup query.
type Kind string

const (
	KindFullKey     Kind = "full_key"
	KindAccountHash Kind = "account_hash"
	KindHumanID     Kind = "human_id"
	KindOther       Kind = "other"
)

// LooksLikeFullKey reports whether s is 64-68 hex characters after an
// optional 0x prefix.
func LooksLikeFullKey(s string) bool {
	return fullKeyPattern.MatchString(strings.TrimPrefix(s, "0x"))
}

// LooksLikeAccountHash reports whether s uses the account-hash- form.
func LooksLikeAccountHash(s string) bool {
	return strings.HasPrefix(s, AccountHashPrefix)
}

// LegacyAccountHash returns the truncated account-hash key that early records
// stored in place of a full public key.
func LegacyAccountHash(fullKey string) string {
	key := fullKey
	if len(key) > legacyAccountHashKeyChars {
		key = key[:legacyAccountHashKeyChars]
	}
	return AccountHashPrefix + key
}

// Classify decides how a lookup query should be resolved. Full keys win over
// human IDs because a hex string without digits is still a valid key.
func Classify(query string) Kind {
	switch {
	case LooksLikeFullKey(query):
		return KindFullKey
	case LooksLikeAccountHash(query):
		return KindAccountHash
	case humanid.LooksLikeHumanID(query):
		return KindHumanID
	default:
		return KindOther
	}
}
