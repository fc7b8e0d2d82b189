package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/casperid/humanid/internal/logging"
)

type countingRepository struct {
	Repository
	walletReads int
	humanReads  int
}

func (r *countingRepository) FindByWallet(ctx context.Context, wallet string) (Identity, error) {
	r.walletReads++
	return r.Repository.FindByWallet(ctx, wallet)
}

func (r *countingRepository) FindByHumanID(ctx context.Context, humanID string) (Identity, error) {
	r.humanReads++
	return r.Repository.FindByHumanID(ctx, humanID)
}

func setupCache(t *testing.T) (*CachedRepository, *countingRepository, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	inner := &countingRepository{Repository: NewMemoryRepository()}
	return NewCachedRepository(inner, client, time.Hour, logging.Discard()), inner, mr
}

func TestCachedRepositoryServesReadsFromCache(t *testing.T) {
	repo, inner, mr := setupCache(t)
	ctx := context.Background()

	id := Identity{Wallet: fullKey, HumanID: "sune-vimi-bari-rula", ShortID: "OQ0DOXNWS8V1GB9VXMAU", CreatedAt: time.Now().UTC()}
	if err := repo.Save(ctx, id); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists(walletKeyPrefix+fullKey) || !mr.Exists(humanIDKeyPrefix+id.HumanID) {
		t.Fatalf("expected save to prime both cache keys")
	}

	got, err := repo.FindByWallet(ctx, fullKey)
	if err != nil {
		t.Fatalf("find by wallet: %v", err)
	}
	if got.HumanID != id.HumanID || !got.CreatedAt.Equal(id.CreatedAt) {
		t.Fatalf("unexpected cached identity %+v", got)
	}
	if _, err := repo.FindByHumanID(ctx, id.HumanID); err != nil {
		t.Fatalf("find by human id: %v", err)
	}
	if inner.walletReads != 0 || inner.humanReads != 0 {
		t.Fatalf("expected cache hits, inner reads wallet=%d human=%d", inner.walletReads, inner.humanReads)
	}
	if ttl := mr.TTL(walletKeyPrefix + fullKey); ttl != time.Hour {
		t.Fatalf("expected ttl 1h, got %v", ttl)
	}
}

func TestCachedRepositoryReadThroughAndMiss(t *testing.T) {
	repo, inner, mr := setupCache(t)
	ctx := context.Background()

	if _, err := repo.FindByWallet(ctx, "unknown"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if mr.Exists(walletKeyPrefix + "unknown") {
		t.Fatalf("misses must not be cached")
	}

	if err := inner.Repository.Save(ctx, Identity{Wallet: "w1", HumanID: "bato"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := repo.FindByWallet(ctx, "w1"); err != nil {
		t.Fatalf("find: %v", err)
	}
	if _, err := repo.FindByWallet(ctx, "w1"); err != nil {
		t.Fatalf("find again: %v", err)
	}
	if inner.walletReads != 2 {
		t.Fatalf("expected one miss and one load, got %d inner reads", inner.walletReads)
	}
}

func TestCachedRepositoryRebindEvicts(t *testing.T) {
	repo, _, mr := setupCache(t)
	ctx := context.Background()

	if err := repo.Save(ctx, Identity{Wallet: "account-hash-00", HumanID: "bato"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Rebind(ctx, "account-hash-00", Identity{Wallet: fullKey, HumanID: "kali"}); err != nil {
		t.Fatalf("rebind: %v", err)
	}
	if mr.Exists(walletKeyPrefix+"account-hash-00") || mr.Exists(humanIDKeyPrefix+"bato") {
		t.Fatalf("expected old entries evicted")
	}
	if _, err := repo.FindByHumanID(ctx, "bato"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected old human id gone, got %v", err)
	}
	got, err := repo.FindByWallet(ctx, fullKey)
	if err != nil || got.HumanID != "kali" {
		t.Fatalf("expected rebound identity, got %+v %v", got, err)
	}
}

func TestCachedRepositoryFailsOpen(t *testing.T) {
	repo, _, mr := setupCache(t)
	ctx := context.Background()

	if err := repo.Save(ctx, Identity{Wallet: "w1", HumanID: "bato"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	mr.Close()

	got, err := repo.FindByWallet(ctx, "w1")
	if err != nil {
		t.Fatalf("expected fallback to inner store, got %v", err)
	}
	if got.HumanID != "bato" {
		t.Fatalf("unexpected identity %+v", got)
	}
}

func TestServiceWithCachedRepository(t *testing.T) {
	repo, _, _ := setupCache(t)
	svc := NewService(repo, nil, Options{})
	ctx := context.Background()

	created, err := svc.Resolve(ctx, fullKey)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	res, err := svc.Lookup(ctx, created.HumanID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if res.Wallet != fullKey {
		t.Fatalf("expected %s, got %s", fullKey, res.Wallet)
	}
}
