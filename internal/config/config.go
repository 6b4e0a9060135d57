package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"golang.org/x/crypto/bcrypt"
)

// minSecretLength evita secretos HMAC triviales.
const minSecretLength = 16

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort           string        `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL        string        `env:"DATABASE_URL,required"`
	JWTSecret          string        `env:"JWT_SECRET,required"`
	JWTIssuer          string        `env:"JWT_ISSUER" envDefault:"membership-api"`
	TokenTTL           time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	PasswordMinLength  int           `env:"PASSWORD_MIN_LENGTH" envDefault:"6"`
	BcryptCost         int           `env:"BCRYPT_COST" envDefault:"12"`
	RedisAddr          string        `env:"REDIS_ADDR"`
	RedisPassword      string        `env:"REDIS_PASSWORD"`
	RedisDB            int           `env:"REDIS_DB" envDefault:"0"`
	AccountCacheTTL    time.Duration `env:"ACCOUNT_CACHE_TTL" envDefault:"5m"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rechaza combinaciones que dejarian el servicio inseguro o inutilizable.
func (c *Config) Validate() error {
	if len(strings.TrimSpace(c.JWTSecret)) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLength)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.PasswordMinLength < 1 {
		return errors.New("PASSWORD_MIN_LENGTH must be positive")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.Driver() == "" {
		return errors.New("DATABASE_URL must be a postgres:// or sqlite: url")
	}
	return nil
}

// Driver deduce el backend de almacenamiento desde DATABASE_URL.
func (c *Config) Driver() string {
	switch {
	case strings.HasPrefix(c.DatabaseURL, "postgres://"), strings.HasPrefix(c.DatabaseURL, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(c.DatabaseURL, "sqlite:"), strings.HasPrefix(c.DatabaseURL, "file:"):
		return "sqlite"
	}
	return ""
}

// SQLitePath devuelve el DSN para go-sqlite3 (sin el prefijo sqlite:).
func (c *Config) SQLitePath() string {
	return strings.TrimPrefix(c.DatabaseURL, "sqlite:")
}
