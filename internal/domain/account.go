package domain

import "time"

// Niveles de membresia disponibles.
const (
	MembershipBronze   = "Bronze"
	MembershipSilver   = "Silver"
	MembershipGold     = "Gold"
	MembershipPlatinum = "Platinum"
)

// DefaultMembershipLevel es el nivel asignado a cuentas nuevas.
const DefaultMembershipLevel = MembershipBronze

// Account es la identidad persistida (email + credencial + perfil).
type Account struct {
	ID              string    `json:"id" db:"id"`
	Email           string    `json:"email" db:"email"`
	PasswordHash    string    `json:"-" db:"password_hash"`
	FirstName       *string   `json:"first_name,omitempty" db:"first_name"`
	LastName        *string   `json:"last_name,omitempty" db:"last_name"`
	Phone           *string   `json:"phone,omitempty" db:"phone"`
	MembershipID    *string   `json:"membership_id,omitempty" db:"membership_id"`
	MembershipLevel string    `json:"membership_level" db:"membership_level"`
	Points          int       `json:"points" db:"points"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Profile es la vista publica de una cuenta, sin credenciales.
type Profile struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	FirstName       *string   `json:"first_name"`
	LastName        *string   `json:"last_name"`
	Phone           *string   `json:"phone"`
	MembershipID    *string   `json:"membership_id"`
	MembershipLevel string    `json:"membership_level"`
	Points          int       `json:"points"`
	CreatedAt       time.Time `json:"created_at"`
}

// Profile proyecta la cuenta a su vista publica.
func (a Account) Profile() Profile {
	return Profile{
		ID:              a.ID,
		Email:           a.Email,
		FirstName:       a.FirstName,
		LastName:        a.LastName,
		Phone:           a.Phone,
		MembershipID:    a.MembershipID,
		MembershipLevel: a.MembershipLevel,
		Points:          a.Points,
		CreatedAt:       a.CreatedAt,
	}
}

func IsValidMembershipLevel(level string) bool {
	switch level {
	case MembershipBronze, MembershipSilver, MembershipGold, MembershipPlatinum:
		return true
	}
	return false
}
