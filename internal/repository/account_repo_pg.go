package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"membership-api/internal/domain"
)

const accountColumns = `id, email, password_hash, first_name, last_name, phone,
		membership_id, membership_level, points, created_at, updated_at`

// pgxPool es el subconjunto de pgxpool.Pool que usa el repositorio.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgAccountRepository implementa AccountRepository usando pgxpool.
type PgAccountRepository struct {
	pool pgxPool
}

func NewPgAccountRepository(pool pgxPool) *PgAccountRepository {
	return &PgAccountRepository{pool: pool}
}

func (r *PgAccountRepository) Create(ctx context.Context, email, passwordHash string) (domain.Account, error) {
	const query = `
		INSERT INTO users (id, email, password_hash, membership_level, points, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	acc := newAccount(email, passwordHash)
	_, err := r.pool.Exec(ctx, query,
		acc.ID,
		acc.Email,
		acc.PasswordHash,
		acc.MembershipLevel,
		acc.Points,
		acc.CreatedAt,
		acc.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.Account{}, oops.Code("ACCOUNT_DUPLICATE_EMAIL").
				With("constraint", pgErr.ConstraintName).
				Wrap(ErrDuplicateEmail)
		}
		return domain.Account{}, oops.Code("ACCOUNT_CREATE_FAILED").With("id", acc.ID).Wrap(storeFailure(err))
	}
	return acc, nil
}

func (r *PgAccountRepository) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users WHERE email = $1`
	acc, err := scanAccount(r.pool.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Account{}, ErrNotFound
	}
	if err != nil {
		return domain.Account{}, oops.Code("ACCOUNT_GET_FAILED").With("by", "email").Wrap(storeFailure(err))
	}
	return acc, nil
}

func (r *PgAccountRepository) FindByID(ctx context.Context, id string) (domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users WHERE id = $1`
	acc, err := scanAccount(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Account{}, ErrNotFound
	}
	if err != nil {
		return domain.Account{}, oops.Code("ACCOUNT_GET_FAILED").With("id", id).Wrap(storeFailure(err))
	}
	return acc, nil
}

func (r *PgAccountRepository) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (domain.Account, error) {
	if err := update.validate(); err != nil {
		return domain.Account{}, err
	}
	if update.IsEmpty() {
		return r.FindByID(ctx, id)
	}
	query := `
		UPDATE users SET
			first_name = COALESCE($2, first_name),
			last_name = COALESCE($3, last_name),
			phone = COALESCE($4, phone),
			membership_id = COALESCE($5, membership_id),
			membership_level = COALESCE($6, membership_level),
			points = COALESCE($7, points),
			updated_at = $8
		WHERE id = $1
		RETURNING ` + accountColumns
	acc, err := scanAccount(r.pool.QueryRow(ctx, query,
		id,
		update.FirstName,
		update.LastName,
		update.Phone,
		update.MembershipID,
		update.MembershipLevel,
		update.Points,
		time.Now().UTC().Truncate(time.Microsecond),
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Account{}, ErrNotFound
	}
	if err != nil {
		return domain.Account{}, oops.Code("ACCOUNT_UPDATE_FAILED").With("id", id).Wrap(storeFailure(err))
	}
	return acc, nil
}

func scanAccount(row pgx.Row) (domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.FirstName,
		&a.LastName,
		&a.Phone,
		&a.MembershipID,
		&a.MembershipLevel,
		&a.Points,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return domain.Account{}, err
	}
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, nil
}
