package identity

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	uniqueViolation   = "23505"
	walletConstraint  = "wallet_identities_pkey"
	humanIDConstraint = "wallet_identities_human_id_key"
	identityColumns   = `wallet, human_id, short_id, created_at`
)

// Repository persists wallet to human ID bindings. Implementations must make
// Save atomic per wallet so concurrent first resolutions yield one record.
type Repository interface {
	FindByWallet(ctx context.Context, wallet string) (Identity, error)
	FindByHumanID(ctx context.Context, humanID string) (Identity, error)
	// Save inserts identity, failing with ErrWalletExists or ErrHumanIDTaken.
	Save(ctx context.Context, identity Identity) error
	// Rebind moves the record stored under oldWallet to identity.
	Rebind(ctx context.Context, oldWallet string, identity Identity) error
	// Scan calls fn with every stored wallet until fn returns false or an error.
	Scan(ctx context.Context, fn func(wallet string) (bool, error)) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed identity repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindByWallet fetches the binding for a wallet.
func (r *PostgresRepository) FindByWallet(ctx context.Context, wallet string) (Identity, error) {
	return r.findOne(ctx, `SELECT `+identityColumns+` FROM wallet_identities WHERE wallet = $1`, wallet)
}

// FindByHumanID fetches the binding for a human ID.
func (r *PostgresRepository) FindByHumanID(ctx context.Context, humanID string) (Identity, error) {
	return r.findOne(ctx, `SELECT `+identityColumns+` FROM wallet_identities WHERE human_id = $1`, humanID)
}

func (r *PostgresRepository) findOne(ctx context.Context, query, arg string) (Identity, error) {
	var (
		id        Identity
		createdAt time.Time
	)
	if err := r.db.QueryRow(ctx, query, arg).Scan(&id.Wallet, &id.HumanID, &id.ShortID, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Identity{}, ErrNotFound
		}
		return Identity{}, err
	}
	id.CreatedAt = createdAt.UTC()
	return id, nil
}

// Save inserts a new binding. The primary key on wallet settles races.
func (r *PostgresRepository) Save(ctx context.Context, identity Identity) error {
	_, err := r.db.Exec(ctx, `INSERT INTO wallet_identities (`+identityColumns+`)
        VALUES ($1, $2, $3, $4)`, identity.Wallet, identity.HumanID, identity.ShortID, identity.CreatedAt.UTC())
	return mapConstraintError(err)
}

// Rebind rewrites the record of oldWallet in place.
func (r *PostgresRepository) Rebind(ctx context.Context, oldWallet string, identity Identity) error {
	cmd, err := r.db.Exec(ctx, `UPDATE wallet_identities SET wallet = $1, human_id = $2, short_id = $3
        WHERE wallet = $4`, identity.Wallet, identity.HumanID, identity.ShortID, oldWallet)
	if err != nil {
		return mapConstraintError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Scan streams wallets in creation order.
func (r *PostgresRepository) Scan(ctx context.Context, fn func(wallet string) (bool, error)) error {
	rows, err := r.db.Query(ctx, `SELECT wallet FROM wallet_identities ORDER BY created_at, wallet`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var wallet string
		if err := rows.Scan(&wallet); err != nil {
			return err
		}
		more, err := fn(wallet)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
	return rows.Err()
}

func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case walletConstraint:
		return ErrWalletExists
	case humanIDConstraint:
		return ErrHumanIDTaken
	default:
		return err
	}
}
