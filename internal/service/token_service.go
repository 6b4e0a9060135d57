package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL es la vida util de un token de acceso.
const DefaultTokenTTL = 24 * time.Hour

// TokenService emite y valida tokens JWT firmados con HMAC.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// Claims son los datos de identidad firmados en cada token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// UserID devuelve el id de la cuenta (claim sub).
func (c Claims) UserID() string {
	return c.Subject
}

func NewTokenService(secret string, ttl time.Duration, issuer string) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}
}

// WithClock reemplaza el reloj usado para emitir y validar.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	cp := *s
	cp.now = now
	return &cp
}

func (s *TokenService) Issue(accountID, email string) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("%w: signing secret not configured", ErrTokenIssue)
	}
	// Precision de segundos, igual que los NumericDate del token.
	now := s.now().UTC().Truncate(time.Second)
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenIssue, err)
	}
	return signed, nil
}

// Verify valida firma, emisor y expiracion. Un iat futuro no invalida el token.
// Cualquier fallo se reporta como ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (Claims, error) {
	if len(s.secret) == 0 || strings.TrimSpace(tokenString) == "" {
		return Claims{}, ErrInvalidToken
	}
	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return Claims{}, errors.Join(ErrInvalidToken, err)
	}
	if strings.TrimSpace(claims.Subject) == "" || strings.TrimSpace(claims.Email) == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
