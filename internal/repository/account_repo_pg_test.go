package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"membership-api/internal/domain"
)

var accountColumnNames = []string{
	"id", "email", "password_hash", "first_name", "last_name", "phone",
	"membership_id", "membership_level", "points", "created_at", "updated_at",
}

func strPtr(s string) *string { return &s }

func TestPgAccountRepository_Create(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "successful insert",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs(pgxmock.AnyArg(), "a@x.com", "hash", domain.DefaultMembershipLevel, 0, pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "unique violation maps to duplicate email",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs(pgxmock.AnyArg(), "a@x.com", "hash", domain.DefaultMembershipLevel, 0, pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"})
			},
			wantErr: ErrDuplicateEmail,
		},
		{
			name: "other failures map to store error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs(pgxmock.AnyArg(), "a@x.com", "hash", domain.DefaultMembershipLevel, 0, pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: ErrStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewPgAccountRepository(mock)
			acc, err := repo.Create(context.Background(), "a@x.com", "hash")

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				if errors.Is(tt.wantErr, ErrDuplicateEmail) {
					assert.NotErrorIs(t, err, ErrStore)
				}
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, acc.ID)
				assert.Equal(t, "a@x.com", acc.Email)
				assert.Equal(t, "hash", acc.PasswordHash)
				assert.Equal(t, domain.DefaultMembershipLevel, acc.MembershipLevel)
				assert.Zero(t, acc.Points)
				assert.True(t, acc.CreatedAt.Equal(acc.UpdatedAt), "timestamps must match at creation")
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestPgAccountRepository_FindByEmail(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(accountColumnNames).
					AddRow("u1", "a@x.com", "hash", strPtr("Ada"), (*string)(nil), (*string)(nil),
						(*string)(nil), "Gold", 40, created, created)
				mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
					WithArgs("a@x.com").
					WillReturnRows(rows)
			},
		},
		{
			name: "missing row maps to not found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
					WithArgs("a@x.com").
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
					WithArgs("a@x.com").
					WillReturnError(errors.New("connection reset"))
			},
			wantErr: ErrStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewPgAccountRepository(mock)
			acc, err := repo.FindByEmail(context.Background(), "a@x.com")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "u1", acc.ID)
				assert.Equal(t, "hash", acc.PasswordHash)
				require.NotNil(t, acc.FirstName)
				assert.Equal(t, "Ada", *acc.FirstName)
				assert.Nil(t, acc.LastName)
				assert.Equal(t, "Gold", acc.MembershipLevel)
				assert.Equal(t, 40, acc.Points)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestPgAccountRepository_FindByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	repo := NewPgAccountRepository(mock)
	_, err = repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgAccountRepository_UpdateProfile(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	updated := created.Add(time.Hour)

	t.Run("applies provided fields", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		first := strPtr("Grace")
		rows := pgxmock.NewRows(accountColumnNames).
			AddRow("u1", "a@x.com", "hash", first, (*string)(nil), (*string)(nil),
				(*string)(nil), "Bronze", 0, created, updated)
		mock.ExpectQuery(`UPDATE users SET`).
			WithArgs("u1", first, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnRows(rows)

		repo := NewPgAccountRepository(mock)
		acc, err := repo.UpdateProfile(context.Background(), "u1", ProfileUpdate{FirstName: first})
		require.NoError(t, err)
		require.NotNil(t, acc.FirstName)
		assert.Equal(t, "Grace", *acc.FirstName)
		assert.True(t, acc.UpdatedAt.After(acc.CreatedAt))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown id", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`UPDATE users SET`).
			WithArgs("missing", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(pgx.ErrNoRows)

		repo := NewPgAccountRepository(mock)
		_, err = repo.UpdateProfile(context.Background(), "missing", ProfileUpdate{Phone: strPtr("555")})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty update reads without writing", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		rows := pgxmock.NewRows(accountColumnNames).
			AddRow("u1", "a@x.com", "hash", (*string)(nil), (*string)(nil), (*string)(nil),
				(*string)(nil), "Bronze", 0, created, created)
		mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
			WithArgs("u1").
			WillReturnRows(rows)

		repo := NewPgAccountRepository(mock)
		acc, err := repo.UpdateProfile(context.Background(), "u1", ProfileUpdate{})
		require.NoError(t, err)
		assert.True(t, acc.UpdatedAt.Equal(created))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown membership level is rejected before the write", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgAccountRepository(mock)
		_, err = repo.UpdateProfile(context.Background(), "u1", ProfileUpdate{MembershipLevel: strPtr("Diamond")})
		assert.ErrorIs(t, err, ErrInvalidUpdate)
		assert.NoError(t, mock.ExpectationsWereMet(), "no query expected")
	})
}

func TestProfileUpdate_Validate(t *testing.T) {
	negative := -1
	tests := []struct {
		name    string
		update  ProfileUpdate
		wantErr bool
	}{
		{name: "empty", update: ProfileUpdate{}},
		{name: "known level", update: ProfileUpdate{MembershipLevel: strPtr(domain.MembershipPlatinum)}},
		{name: "unknown level", update: ProfileUpdate{MembershipLevel: strPtr("gold")}, wantErr: true},
		{name: "negative points", update: ProfileUpdate{Points: &negative}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.update.validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidUpdate)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
