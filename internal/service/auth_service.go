package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"membership-api/internal/repository"
)

// DefaultPasswordMinLength es el largo minimo de contraseña aceptado al registrar.
const DefaultPasswordMinLength = 6

var (
	ErrValidation         = errors.New("validation failed")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrHash               = errors.New("password hash failed")
	ErrVerify             = errors.New("password hash malformed")
	ErrTokenIssue         = errors.New("token issue failed")
)

// fieldError es un ErrValidation con un mensaje apto para el cliente.
type fieldError struct {
	msg string
}

func validationError(msg string) error {
	return &fieldError{msg: msg}
}

func (e *fieldError) Error() string { return e.msg }

func (e *fieldError) Unwrap() error { return ErrValidation }

// TokenIssuer emite tokens de acceso para una cuenta.
type TokenIssuer interface {
	Issue(accountID, email string) (string, error)
}

// AuthResult es la respuesta de registro y login.
type AuthResult struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// AuthService coordina registro y login componiendo store, hasher y tokens.
type AuthService struct {
	logger            *zap.Logger
	accounts          repository.AccountRepository
	hasher            PasswordHasher
	tokens            TokenIssuer
	minPasswordLength int

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	logger *zap.Logger,
	accounts repository.AccountRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	minPasswordLength int,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if minPasswordLength <= 0 {
		minPasswordLength = DefaultPasswordMinLength
	}
	return &AuthService{
		logger:            logger,
		accounts:          accounts,
		hasher:            hasher,
		tokens:            tokens,
		minPasswordLength: minPasswordLength,
	}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (AuthResult, error) {
	if s.accounts == nil || s.hasher == nil || s.tokens == nil {
		return AuthResult{}, errors.New("auth service not configured")
	}

	// El email se guarda y busca tal cual llega; solo se rechaza si esta en blanco.
	if strings.TrimSpace(email) == "" || password == "" {
		return AuthResult{}, validationError("Email and password are required")
	}
	if utf8.RuneCountInString(password) < s.minPasswordLength {
		return AuthResult{}, validationError(fmt.Sprintf("Password must be at least %d characters long", s.minPasswordLength))
	}

	// Chequeo optimista; la garantia real es el indice unico del store.
	_, err := s.accounts.FindByEmail(ctx, email)
	if err == nil {
		return AuthResult{}, ErrEmailExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return AuthResult{}, fmt.Errorf("check existing account: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return AuthResult{}, err
	}

	account, err := s.accounts.Create(ctx, email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			s.logger.Info("register lost duplicate email race")
		}
		return AuthResult{}, fmt.Errorf("create account: %w", err)
	}

	token, err := s.tokens.Issue(account.ID, account.Email)
	if err != nil {
		// La cuenta queda creada sin token; el usuario puede hacer login.
		s.logger.Error("token issue after register failed", zap.String("user_id", account.ID), zap.Error(err))
		return AuthResult{}, err
	}

	return AuthResult{Token: token, UserID: account.ID, Email: account.Email}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	if s.accounts == nil || s.hasher == nil || s.tokens == nil {
		return AuthResult{}, errors.New("auth service not configured")
	}

	if strings.TrimSpace(email) == "" || password == "" {
		return AuthResult{}, validationError("Email and password are required")
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.burnVerify(password)
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("find account: %w", err)
	}

	ok, err := s.hasher.Verify(password, account.PasswordHash)
	if err != nil {
		return AuthResult{}, err
	}
	if !ok {
		return AuthResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.ID, account.Email)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: token, UserID: account.ID, Email: account.Email}, nil
}

// burnVerify iguala el costo de CPU entre email inexistente y contraseña incorrecta.
func (s *AuthService) burnVerify(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("membership-api-timing-guard")
		if err != nil {
			s.logger.Warn("timing guard hash failed", zap.Error(err))
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(password, s.dummyHash)
	}
}
