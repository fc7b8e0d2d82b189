package identity

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu       sync.RWMutex
	byWallet map[string]Identity
	byHuman  map[string]string
}

// NewMemoryRepository builds an in-memory identity store for tests and development.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byWallet: make(map[string]Identity),
		byHuman:  make(map[string]string),
	}
}

func (r *memoryRepository) FindByWallet(_ context.Context, wallet string) (Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byWallet[wallet]
	if !ok {
		return Identity{}, ErrNotFound
	}
	return id, nil
}

func (r *memoryRepository) FindByHumanID(_ context.Context, humanID string) (Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wallet, ok := r.byHuman[humanID]
	if !ok {
		return Identity{}, ErrNotFound
	}
	return r.byWallet[wallet], nil
}

func (r *memoryRepository) Save(_ context.Context, identity Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byWallet[identity.Wallet]; exists {
		return ErrWalletExists
	}
	if _, taken := r.byHuman[identity.HumanID]; taken {
		return ErrHumanIDTaken
	}
	r.byWallet[identity.Wallet] = identity
	r.byHuman[identity.HumanID] = identity.Wallet
	return nil
}

func (r *memoryRepository) Rebind(_ context.Context, oldWallet string, identity Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.byWallet[oldWallet]
	if !ok {
		return ErrNotFound
	}
	if identity.Wallet != oldWallet {
		if _, exists := r.byWallet[identity.Wallet]; exists {
			return ErrWalletExists
		}
	}
	if owner, taken := r.byHuman[identity.HumanID]; taken && owner != oldWallet {
		return ErrHumanIDTaken
	}
	delete(r.byWallet, oldWallet)
	delete(r.byHuman, old.HumanID)
	identity.CreatedAt = old.CreatedAt
	r.byWallet[identity.Wallet] = identity
	r.byHuman[identity.HumanID] = identity.Wallet
	return nil
}

func (r *memoryRepository) Scan(_ context.Context, fn func(wallet string) (bool, error)) error {
	r.mu.RLock()
	records := make([]Identity, 0, len(r.byWallet))
	for _, id := range r.byWallet {
		records = append(records, id)
	}
	r.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].Wallet < records[j].Wallet
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	for _, id := range records {
		more, err := fn(id.Wallet)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
	return nil
}
