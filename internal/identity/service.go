package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/casperid/humanid/internal/humanid"
	"github.com/casperid/humanid/internal/metrics"
	"github.com/casperid/humanid/internal/notification"
	"github.com/casperid/humanid/internal/wallet"
)

// Policy decides what happens when a derived human ID is bound to another wallet.
type Policy string

const (
	// PolicyExtend re-derives with one more segment until MaxSegments.
	PolicyExtend Policy = "extend"
	// PolicyReject fails with CollisionAmbiguityError.
	PolicyReject Policy = "reject"

	defaultMaxSegments = 8
	maxSaveAttempts    = 3
)

// Options tunes a Service. Nil collaborators are skipped.
type Options struct {
	Policy       Policy
	MaxSegments  int
	ScanFallback bool
	Notifier     notification.Notifier
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
}

// Service resolves wallets to human IDs and back, persisting bindings so a
// wallet's human ID never changes once assigned.
type Service struct {
	repo    Repository
	deriver *humanid.Deriver
	opts    Options
	now     func() time.Time
}

// NewService creates an identity resolver.
func NewService(repo Repository, deriver *humanid.Deriver, opts Options) *Service {
	if deriver == nil {
		deriver = humanid.Default()
	}
	if opts.Policy == "" {
		opts.Policy = PolicyExtend
	}
	if opts.MaxSegments < deriver.Segments() {
		opts.MaxSegments = max(defaultMaxSegments, deriver.Segments())
	}
	return &Service{repo: repo, deriver: deriver, opts: opts, now: time.Now}
}

// MaxSegments is the largest segment count the service derives.
func (s *Service) MaxSegments() int { return s.opts.MaxSegments }

// Derive computes identifiers without touching the store.
func (s *Service) Derive(walletAddr string, opts ...humanid.Option) (humanid.Result, error) {
	res, err := s.deriver.Derive(walletAddr, opts...)
	s.opts.Metrics.Derived(err)
	return res, err
}

// Resolve returns the human ID bound to walletAddr, creating the binding on
// first use. A full key whose truncated account-hash record exists takes over
// that record instead of creating a second one.
func (s *Service) Resolve(ctx context.Context, walletAddr string) (Resolution, error) {
	if walletAddr == "" {
		return Resolution{}, &humanid.InvalidInputError{Field: "wallet", Reason: "must be a non-empty string"}
	}

	existing, err := s.repo.FindByWallet(ctx, walletAddr)
	if err == nil {
		return s.resolved(Resolution{Identity: existing, Source: SourceStored}), nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Resolution{}, fmt.Errorf("find wallet: %w", err)
	}

	if wallet.LooksLikeFullKey(walletAddr) {
		res, ok, err := s.migrateLegacy(ctx, walletAddr)
		if err != nil {
			return Resolution{}, err
		}
		if ok {
			return s.resolved(res), nil
		}
	}

	res, err := s.create(ctx, walletAddr)
	if err != nil {
		return Resolution{}, err
	}
	return s.resolved(res), nil
}

// Lookup answers a query that may be a wallet, an account hash, or a human ID.
// The only write it performs is migrating a legacy account-hash record to the
// queried full key; an unknown wallet gets its derived identity with
// SourceDerived.
func (s *Service) Lookup(ctx context.Context, query string) (Resolution, error) {
	if query == "" {
		return Resolution{}, &humanid.InvalidInputError{Field: "query", Reason: "must be a non-empty string"}
	}

	if wallet.Classify(query) == wallet.KindHumanID {
		res, err := s.ReverseLookup(ctx, query)
		if err == nil || !errors.Is(err, ErrNotFound) {
			return res, err
		}
	}

	existing, err := s.repo.FindByWallet(ctx, query)
	if err == nil {
		return s.resolved(Resolution{Identity: existing, Source: SourceStored}), nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Resolution{}, fmt.Errorf("find wallet: %w", err)
	}
	switch wallet.Classify(query) {
	case wallet.KindHumanID:
		return Resolution{}, ErrNotFound
	case wallet.KindFullKey:
		res, ok, err := s.migrateLegacy(ctx, query)
		if err != nil {
			return Resolution{}, err
		}
		if ok {
			return s.resolved(res), nil
		}
		// Lost a migration race; the winner's record is under the full key now.
		if existing, err := s.repo.FindByWallet(ctx, query); err == nil {
			return s.resolved(Resolution{Identity: existing, Source: SourceStored}), nil
		}
	}

	derived, err := s.Derive(query)
	if err != nil {
		return Resolution{}, err
	}
	return s.resolved(Resolution{Identity: s.identityFor(query, derived), Source: SourceDerived}), nil
}

// ReverseLookup finds the wallet bound to humanID. Without an index hit it can
// re-derive every stored wallet, which is only acceptable for small stores.
func (s *Service) ReverseLookup(ctx context.Context, humanID string) (Resolution, error) {
	existing, err := s.repo.FindByHumanID(ctx, humanID)
	if err == nil {
		return s.resolved(Resolution{Identity: existing, Source: SourceStored}), nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Resolution{}, fmt.Errorf("find human id: %w", err)
	}
	if !s.opts.ScanFallback {
		return Resolution{}, ErrNotFound
	}

	var (
		found   Resolution
		matched bool
		scanned int
	)
	err = s.repo.Scan(ctx, func(walletAddr string) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		scanned++
		derived, err := s.deriver.Derive(walletAddr)
		if err != nil {
			return true, nil
		}
		if derived.HumanID != humanID {
			return true, nil
		}
		stored, err := s.repo.FindByWallet(ctx, walletAddr)
		if err != nil {
			return false, err
		}
		switch stored.HumanID {
		case "":
			// Row written before human IDs were stored.
			found = Resolution{Identity: s.identityFor(walletAddr, derived), Source: SourceScanned}
		case humanID:
			found = Resolution{Identity: stored, Source: SourceStored}
		default:
			// Bound to another human ID, e.g. an extended one after a collision.
			return true, nil
		}
		matched = true
		return false, nil
	})
	s.opts.Metrics.Scanned(scanned)
	if err != nil {
		return Resolution{}, fmt.Errorf("scan wallets: %w", err)
	}
	if !matched {
		return Resolution{}, ErrNotFound
	}
	return s.resolved(found), nil
}

func (s *Service) create(ctx context.Context, walletAddr string) (Resolution, error) {
	var lastErr error
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		id, err := s.assign(ctx, walletAddr, "")
		if err != nil {
			return Resolution{}, err
		}

		err = s.repo.Save(ctx, id)
		switch {
		case err == nil:
			return Resolution{Identity: id, Source: SourceCreated}, nil
		case errors.Is(err, ErrWalletExists):
			// Lost the race for this wallet; the first writer's record wins.
			winner, err := s.repo.FindByWallet(ctx, walletAddr)
			if err != nil {
				return Resolution{}, fmt.Errorf("find wallet after conflict: %w", err)
			}
			return Resolution{Identity: winner, Source: SourceStored}, nil
		case errors.Is(err, ErrHumanIDTaken):
			lastErr = err
			continue
		default:
			return Resolution{}, fmt.Errorf("save identity: %w", err)
		}
	}
	return Resolution{}, fmt.Errorf("save identity for %s: %w", walletAddr, lastErr)
}

func (s *Service) migrateLegacy(ctx context.Context, fullKey string) (Resolution, bool, error) {
	legacyKey := wallet.LegacyAccountHash(fullKey)
	if _, err := s.repo.FindByWallet(ctx, legacyKey); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Resolution{}, false, nil
		}
		return Resolution{}, false, fmt.Errorf("find legacy record: %w", err)
	}

	id, err := s.assign(ctx, fullKey, legacyKey)
	if err != nil {
		return Resolution{}, false, err
	}
	if err := s.repo.Rebind(ctx, legacyKey, id); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrWalletExists) {
			// Another caller migrated or created it first.
			return Resolution{}, false, nil
		}
		return Resolution{}, false, fmt.Errorf("rebind legacy record: %w", err)
	}
	s.notify(ctx, notification.Message{
		Kind:    notification.KindLegacyMigration,
		Wallet:  fullKey,
		HumanID: id.HumanID,
		Body:    "rebound from " + legacyKey,
	})

	migrated, err := s.repo.FindByWallet(ctx, fullKey)
	if err != nil {
		return Resolution{}, false, fmt.Errorf("find migrated record: %w", err)
	}
	return Resolution{Identity: migrated, Source: SourceMigrated}, true, nil
}

// assign derives a human ID for walletAddr that is free in the store, or owned
// by walletAddr or by the record being rebound.
func (s *Service) assign(ctx context.Context, walletAddr, rebinding string) (Identity, error) {
	var last *CollisionAmbiguityError
	for n := s.deriver.Segments(); n <= s.opts.MaxSegments; n++ {
		derived, err := s.Derive(walletAddr, humanid.WithSegments(n))
		if err != nil {
			return Identity{}, err
		}
		if derived.HumanID == "" {
			last = &CollisionAmbiguityError{Wallet: walletAddr}
			continue
		}

		owner, err := s.repo.FindByHumanID(ctx, derived.HumanID)
		if errors.Is(err, ErrNotFound) || (err == nil && (owner.Wallet == walletAddr || owner.Wallet == rebinding)) {
			return s.identityFor(walletAddr, derived), nil
		}
		if err != nil {
			return Identity{}, fmt.Errorf("find human id: %w", err)
		}

		s.opts.Metrics.Collision()
		s.notify(ctx, notification.Message{
			Kind:    notification.KindHumanIDCollision,
			Wallet:  walletAddr,
			HumanID: derived.HumanID,
			Body:    "already bound to " + owner.Wallet,
		})
		last = &CollisionAmbiguityError{Wallet: walletAddr, HumanID: derived.HumanID, BoundTo: owner.Wallet}
		if s.opts.Policy == PolicyReject {
			return Identity{}, last
		}
	}
	if last == nil {
		last = &CollisionAmbiguityError{Wallet: walletAddr}
	}
	return Identity{}, last
}

func (s *Service) identityFor(walletAddr string, derived humanid.Result) Identity {
	return Identity{
		Wallet:    walletAddr,
		HumanID:   derived.HumanID,
		ShortID:   derived.ShortID,
		CreatedAt: s.now().UTC(),
	}
}

func (s *Service) resolved(res Resolution) Resolution {
	s.opts.Metrics.Resolved(string(res.Source))
	if s.opts.Logger != nil {
		s.opts.Logger.Debug("identity resolved",
			slog.String("wallet", res.Wallet),
			slog.String("human_id", res.HumanID),
			slog.String("source", string(res.Source)),
		)
	}
	return res
}

func (s *Service) notify(ctx context.Context, msg notification.Message) {
	if s.opts.Notifier == nil {
		return
	}
	if err := s.opts.Notifier.Send(ctx, msg); err != nil && s.opts.Logger != nil {
		s.opts.Logger.Warn("notification failed", slog.String("kind", msg.Kind), slog.Any("error", err))
	}
}
