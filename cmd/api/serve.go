package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"membership-api/internal/config"
	apihttp "membership-api/internal/http"
	"membership-api/internal/metrics"
	"membership-api/internal/service"
)

// NewServeCmd crea el subcomando serve.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long:  `Apply pending migrations and serve the account API on HTTP_PORT.`,
		RunE:  runServe,
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return oops.Code("LOGGER_INIT_FAILED").Wrap(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("db connect", zap.Error(err))
		return err
	}
	defer store.close()

	if err := store.migrate(ctx); err != nil {
		logger.Error("db migrate", zap.Error(err))
		return oops.Code("MIGRATION_FAILED").Wrap(err)
	}

	router, closeCache, err := buildRouter(ctx, cfg, logger, store)
	if err != nil {
		return err
	}
	defer closeCache()

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.String("driver", cfg.Driver()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openProfileCache conecta el cache de perfiles en Redis si REDIS_ADDR esta definido.
// El closer devuelto nunca es nil y libera el cliente al apagar el servidor.
func openProfileCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.ProfileCache, func()) {
	noop := func() {}
	if cfg.RedisAddr == "" {
		return nil, noop
	}
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctxPing).Err(); err != nil {
		logger.Warn("redis ping failed, profile cache disabled", zap.Error(err))
		_ = redisClient.Close()
		return nil, noop
	}
	closeClient := func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", zap.Error(err))
		}
	}
	return service.NewRedisProfileCache(redisClient, cfg.AccountCacheTTL), closeClient
}

// buildRouter cablea servicios y handlers; el secreto y el store se inyectan una sola vez.
// El closer devuelto cierra los clientes abiertos aqui y debe llamarse al terminar.
func buildRouter(ctx context.Context, cfg *config.Config, logger *zap.Logger, store *storage) (http.Handler, func(), error) {
	cache, closeCache := openProfileCache(ctx, cfg, logger)

	m := metrics.New()
	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL, cfg.JWTIssuer)
	authSvc := service.NewAuthService(logger, store.accounts, hasher, tokens, cfg.PasswordMinLength)
	profileSvc := service.NewProfileService(logger, store.accounts, cache)

	router, err := apihttp.NewRouter(
		logger,
		apihttp.NewAuthHandler(logger, authSvc, m),
		apihttp.NewProfileHandler(logger, profileSvc),
		tokens,
		apihttp.RouterOptions{
			Metrics:        m,
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Ping:           store.ping,
		},
	)
	if err != nil {
		closeCache()
		return nil, nil, err
	}
	return router, closeCache, nil
}
