package identity

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	walletKeyPrefix  = "humanid:v1:wallet:"
	humanIDKeyPrefix = "humanid:v1:human:"
)

type cachedIdentity struct {
	Wallet    string    `json:"wallet"`
	HumanID   string    `json:"human_id"`
	ShortID   string    `json:"short_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CachedRepository is a read-through Redis cache in front of another
// Repository. Bindings never change once stored, so entries are only
// invalidated by Rebind. Cache failures fall back to the inner store.
type CachedRepository struct {
	inner  Repository
	cache  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedRepository wraps inner with a Redis cache.
func NewCachedRepository(inner Repository, cache *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedRepository {
	return &CachedRepository{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

// FindByWallet serves the binding from cache when present.
func (r *CachedRepository) FindByWallet(ctx context.Context, wallet string) (Identity, error) {
	return r.readThrough(ctx, walletKeyPrefix+wallet, func() (Identity, error) {
		return r.inner.FindByWallet(ctx, wallet)
	})
}

// FindByHumanID serves the binding from cache when present.
func (r *CachedRepository) FindByHumanID(ctx context.Context, humanID string) (Identity, error) {
	return r.readThrough(ctx, humanIDKeyPrefix+humanID, func() (Identity, error) {
		return r.inner.FindByHumanID(ctx, humanID)
	})
}

// Save writes to the inner store, then primes the cache.
func (r *CachedRepository) Save(ctx context.Context, identity Identity) error {
	if err := r.inner.Save(ctx, identity); err != nil {
		return err
	}
	r.store(ctx, identity)
	return nil
}

// Rebind writes to the inner store and evicts the old entries.
func (r *CachedRepository) Rebind(ctx context.Context, oldWallet string, identity Identity) error {
	old, oldErr := r.inner.FindByWallet(ctx, oldWallet)
	if err := r.inner.Rebind(ctx, oldWallet, identity); err != nil {
		return err
	}
	keys := []string{walletKeyPrefix + oldWallet}
	if oldErr == nil {
		keys = append(keys, humanIDKeyPrefix+old.HumanID)
	}
	if err := r.cache.Del(ctx, keys...).Err(); err != nil {
		r.warn("identity cache evict failed", oldWallet, err)
	}
	return nil
}

// Scan always reads the inner store.
func (r *CachedRepository) Scan(ctx context.Context, fn func(wallet string) (bool, error)) error {
	return r.inner.Scan(ctx, fn)
}

func (r *CachedRepository) readThrough(ctx context.Context, key string, load func() (Identity, error)) (Identity, error) {
	raw, err := r.cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached cachedIdentity
		if err := json.Unmarshal(raw, &cached); err == nil {
			return Identity(cached), nil
		}
		r.warn("identity cache entry corrupt", key, err)
	case !errors.Is(err, redis.Nil):
		r.warn("identity cache read failed", key, err)
	}

	id, err := load()
	if err != nil {
		return Identity{}, err
	}
	r.store(ctx, id)
	return id, nil
}

func (r *CachedRepository) store(ctx context.Context, id Identity) {
	payload, err := json.Marshal(cachedIdentity(id))
	if err != nil {
		r.warn("identity cache encode failed", id.Wallet, err)
		return
	}
	_, err = r.cache.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, walletKeyPrefix+id.Wallet, payload, r.ttl)
		pipe.Set(ctx, humanIDKeyPrefix+id.HumanID, payload, r.ttl)
		return nil
	})
	if err != nil {
		r.warn("identity cache write failed", id.Wallet, err)
	}
}

func (r *CachedRepository) warn(msg, key string, err error) {
	if r.logger == nil {
		return
	}
	r.logger.Warn(msg, slog.String("key", key), slog.Any("error", err))
}
