package http

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"membership-api/internal/metrics"
	"membership-api/internal/service"
)

// RouterOptions agrupa dependencias opcionales del router.
type RouterOptions struct {
	Metrics        *metrics.Metrics
	AllowedOrigins []string
	// Ping verifica la base de datos en /healthz; nil responde siempre ok.
	Ping func(ctx context.Context) error
}

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	authH *AuthHandler,
	profileH *ProfileHandler,
	tokens *service.TokenService,
	opts RouterOptions,
) (*gin.Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	doc, err := BuildOpenAPIDocument()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), metricsMiddleware(opts.Metrics), corsMiddleware(opts.AllowedOrigins))

	r.GET("/", rootHandler)
	r.GET("/healthz", healthHandler(opts.Ping))
	r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	r.GET("/api-docs/openapi.json", openAPIHandler(doc))
	r.GET("/swagger-ui", swaggerUIHandler)

	auth := r.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)

	profile := r.Group("/profile", JWTAuthMiddleware(tokens, opts.Metrics))
	profile.GET("", profileH.GetProfile)
	profile.PUT("", profileH.UpdateProfile)

	return r, nil
}

func rootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "membership-api",
		"version": apiVersion,
		"endpoints": []string{
			"POST /auth/register",
			"POST /auth/login",
			"GET /profile",
			"PUT /profile",
			"GET /api-docs/openapi.json",
			"GET /swagger-ui",
			"GET /healthz",
			"GET /metrics",
		},
	})
}

func healthHandler(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				writeError(c, http.StatusServiceUnavailable, codeInternal, "Database unavailable")
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// metricsMiddleware etiqueta por ruta registrada, no por path, para acotar cardinalidad.
func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// corsMiddleware permite los origenes configurados ("*" = cualquiera) y responde preflights con 204.
func corsMiddleware(allowed []string) gin.HandlerFunc {
	allowAll := len(allowed) == 0 || slices.Contains(allowed, "*")
	return func(c *gin.Context) {
		h := c.Writer.Header()
		if origin := c.GetHeader("Origin"); origin != "" {
			switch {
			case allowAll:
				h.Set("Access-Control-Allow-Origin", "*")
			case slices.Contains(allowed, origin):
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
		}
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		if requested := c.GetHeader("Access-Control-Request-Headers"); requested != "" {
			h.Set("Access-Control-Allow-Headers", requested)
		} else {
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
