package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/samber/oops"

	"membership-api/internal/domain"
)

// SQLiteAccountRepository implementa AccountRepository sobre SQLite para desarrollo local.
type SQLiteAccountRepository struct {
	db *sqlx.DB
}

func NewSQLiteAccountRepository(db *sqlx.DB) *SQLiteAccountRepository {
	return &SQLiteAccountRepository{db: db}
}

func (r *SQLiteAccountRepository) Create(ctx context.Context, email, passwordHash string) (domain.Account, error) {
	const query = `
		INSERT INTO users (id, email, password_hash, membership_level, points, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	acc := newAccount(email, passwordHash)
	_, err := r.db.ExecContext(ctx, query,
		acc.ID,
		acc.Email,
		acc.PasswordHash,
		acc.MembershipLevel,
		acc.Points,
		acc.CreatedAt,
		acc.UpdatedAt,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return domain.Account{}, oops.Code("ACCOUNT_DUPLICATE_EMAIL").Wrap(ErrDuplicateEmail)
		}
		return domain.Account{}, oops.Code("ACCOUNT_CREATE_FAILED").With("id", acc.ID).Wrap(storeFailure(err))
	}
	return acc, nil
}

func (r *SQLiteAccountRepository) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	var acc domain.Account
	err := r.db.GetContext(ctx, &acc, `SELECT `+accountColumns+` FROM users WHERE email = ?`, email)
	return r.result(acc, err, "find by email")
}

func (r *SQLiteAccountRepository) FindByID(ctx context.Context, id string) (domain.Account, error) {
	var acc domain.Account
	err := r.db.GetContext(ctx, &acc, `SELECT `+accountColumns+` FROM users WHERE id = ?`, id)
	return r.result(acc, err, "find by id")
}

func (r *SQLiteAccountRepository) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (domain.Account, error) {
	if err := update.validate(); err != nil {
		return domain.Account{}, err
	}
	if update.IsEmpty() {
		return r.FindByID(ctx, id)
	}
	query := `
		UPDATE users SET
			first_name = COALESCE(?, first_name),
			last_name = COALESCE(?, last_name),
			phone = COALESCE(?, phone),
			membership_id = COALESCE(?, membership_id),
			membership_level = COALESCE(?, membership_level),
			points = COALESCE(?, points),
			updated_at = ?
		WHERE id = ?
		RETURNING ` + accountColumns
	var acc domain.Account
	err := r.db.GetContext(ctx, &acc, query,
		update.FirstName,
		update.LastName,
		update.Phone,
		update.MembershipID,
		update.MembershipLevel,
		update.Points,
		time.Now().UTC().Truncate(time.Microsecond),
		id,
	)
	return r.result(acc, err, "update profile")
}

func (r *SQLiteAccountRepository) result(acc domain.Account, err error, operation string) (domain.Account, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, ErrNotFound
	}
	if err != nil {
		return domain.Account{}, oops.Code("ACCOUNT_QUERY_FAILED").With("operation", operation).Wrap(storeFailure(err))
	}
	acc.CreatedAt = acc.CreatedAt.UTC()
	acc.UpdatedAt = acc.UpdatedAt.UTC()
	return acc, nil
}
