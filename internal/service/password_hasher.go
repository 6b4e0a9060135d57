package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher genera y verifica hashes de contraseñas.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify devuelve (false, nil) ante una contraseña incorrecta y error solo si el hash es invalido.
	Verify(password, hash string) (bool, error)
}

// BcryptHasher implementa PasswordHasher con bcrypt; el costo queda codificado en el hash.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHash, err)
	}
	return string(hashBytes), nil
}

func (h *BcryptHasher) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %w", ErrVerify, err)
}

// Cost expone el factor de trabajo configurado.
func (h *BcryptHasher) Cost() int {
	return h.cost
}
