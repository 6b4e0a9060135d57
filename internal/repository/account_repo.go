package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"membership-api/internal/domain"
)

var (
	ErrNotFound       = errors.New("account not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrStore          = errors.New("account store failure")
	ErrInvalidUpdate  = errors.New("invalid profile update")
)

// AccountRepository define el contrato de persistencia para cuentas.
// La unicidad del email la garantiza el almacenamiento, no el llamador.
type AccountRepository interface {
	Create(ctx context.Context, email, passwordHash string) (domain.Account, error)
	FindByEmail(ctx context.Context, email string) (domain.Account, error)
	FindByID(ctx context.Context, id string) (domain.Account, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (domain.Account, error)
}

// ProfileUpdate lista los campos opcionales a modificar; nil deja el valor actual.
type ProfileUpdate struct {
	FirstName       *string
	LastName        *string
	Phone           *string
	MembershipID    *string
	MembershipLevel *string
	Points          *int
}

// validate rechaza niveles de membresia fuera del catalogo antes de escribir.
func (u ProfileUpdate) validate() error {
	if u.MembershipLevel != nil && !domain.IsValidMembershipLevel(*u.MembershipLevel) {
		return fmt.Errorf("%w: unknown membership level %q", ErrInvalidUpdate, *u.MembershipLevel)
	}
	if u.Points != nil && *u.Points < 0 {
		return fmt.Errorf("%w: points must not be negative", ErrInvalidUpdate)
	}
	return nil
}

// IsEmpty indica que no hay campos a modificar; updated_at no avanza en ese caso.
func (u ProfileUpdate) IsEmpty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Phone == nil &&
		u.MembershipID == nil && u.MembershipLevel == nil && u.Points == nil
}

func newAccount(email, passwordHash string) domain.Account {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return domain.Account{
		ID:              uuid.NewString(),
		Email:           email,
		PasswordHash:    passwordHash,
		MembershipLevel: domain.DefaultMembershipLevel,
		Points:          0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func storeFailure(err error) error {
	return fmt.Errorf("%w: %w", ErrStore, err)
}
