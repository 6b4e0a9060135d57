package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"membership-api/internal/metrics"
	"membership-api/internal/service"
)

// AuthRequest es el cuerpo de register y login.
type AuthRequest struct {
	Email    string `json:"email" jsonschema:"example=a@x.com"`
	Password string `json:"password" jsonschema:"example=secret1"`
}

// AuthHandler expone registro y login.
type AuthHandler struct {
	logger  *zap.Logger
	auth    *service.AuthService
	metrics *metrics.Metrics
}

// NewAuthHandler crea una instancia de AuthHandler con dependencias necesarias.
func NewAuthHandler(logger *zap.Logger, auth *service.AuthService, m *metrics.Metrics) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		logger:  logger,
		auth:    auth,
		metrics: m,
	}
}

// Register maneja POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		h.metrics.RecordAuth("register", metrics.OutcomeValidation)
		writeError(c, http.StatusBadRequest, codeValidation, "Invalid request body")
		return
	}

	res, err := h.auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		mapped := respondError(c, h.logger, "register", err)
		h.metrics.RecordAuth("register", outcomeFor(mapped.code))
		return
	}

	h.logger.Info("account registered", zap.String("user_id", res.UserID))
	h.metrics.RecordAuth("register", metrics.OutcomeSuccess)
	c.JSON(http.StatusCreated, res)
}

// Login maneja POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		h.metrics.RecordAuth("login", metrics.OutcomeValidation)
		writeError(c, http.StatusBadRequest, codeValidation, "Invalid request body")
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		mapped := respondError(c, h.logger, "login", err)
		h.metrics.RecordAuth("login", outcomeFor(mapped.code))
		return
	}

	h.metrics.RecordAuth("login", metrics.OutcomeSuccess)
	c.JSON(http.StatusOK, res)
}
