package identity

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no binding matches the lookup key.
	ErrNotFound = errors.New("identity not found")
	// ErrWalletExists is returned by Save when the wallet is already bound.
	ErrWalletExists = errors.New("wallet already has a human id")
	// ErrHumanIDTaken is returned by Save when the human ID belongs to another wallet.
	ErrHumanIDTaken = errors.New("human id already assigned")
)

// CollisionAmbiguityError reports a derived human ID that is bound to a
// different wallet when no disambiguation step is left to try.
type CollisionAmbiguityError struct {
	Wallet  string
	HumanID string
	BoundTo string
}

func (e *CollisionAmbiguityError) Error() string {
	if e.HumanID == "" {
		return fmt.Sprintf("wallet %s derives no usable human id", e.Wallet)
	}
	return fmt.Sprintf("human id %s for wallet %s is already bound to %s", e.HumanID, e.Wallet, e.BoundTo)
}
