package identity

import "time"

// Identity is the persisted binding between a wallet and its human ID.
type Identity struct {
	Wallet    string
	HumanID   string
	ShortID   string
	CreatedAt time.Time
}

// Source tells a caller where a resolved identity came from.
type Source string

const (
	// SourceStored means the binding was already persisted.
	SourceStored Source = "stored"
	// SourceCreated means the binding was derived and persisted by this call.
	SourceCreated Source = "created"
	// SourceMigrated means a legacy account-hash record was rebound to the full key.
	SourceMigrated Source = "migrated"
	// SourceDerived means the binding was computed but not persisted.
	SourceDerived Source = "derived"
	// SourceScanned means the wallet was found by re-deriving stored wallets.
	SourceScanned Source = "scanned"
)

// Resolution is an identity plus its provenance.
type Resolution struct {
	Identity
	Source Source
}

// Persisted reports whether the identity is backed by a stored record.
func (r Resolution) Persisted() bool {
	return r.Source != SourceDerived
}
