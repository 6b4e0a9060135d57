package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"membership-api/internal/metrics"
	"membership-api/internal/repository"
	"membership-api/internal/service"
)

// Codigos de error expuestos al cliente.
const (
	codeValidation         = "validation_error"
	codeEmailExists        = "email_exists"
	codeInvalidCredentials = "invalid_credentials"
	codeInvalidToken       = "invalid_token"
	codeNotFound           = "not_found"
	codeDatabase           = "database_error"
	codeHash               = "hash_error"
	codeToken              = "token_error"
	codeInternal           = "internal_error"
)

// ErrorResponse es el cuerpo de toda respuesta de error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: code, Message: message})
}

// apiError traduce un error de servicio a status, codigo y mensaje publico.
type apiError struct {
	status  int
	code    string
	message string
}

func classifyError(err error) apiError {
	switch {
	case errors.Is(err, service.ErrValidation):
		return apiError{http.StatusBadRequest, codeValidation, err.Error()}
	case errors.Is(err, repository.ErrInvalidUpdate):
		return apiError{http.StatusBadRequest, codeValidation, "Invalid profile update"}
	case errors.Is(err, service.ErrEmailExists), errors.Is(err, repository.ErrDuplicateEmail):
		return apiError{http.StatusConflict, codeEmailExists, "Email already exists"}
	case errors.Is(err, service.ErrInvalidCredentials):
		return apiError{http.StatusUnauthorized, codeInvalidCredentials, "Invalid email or password"}
	case errors.Is(err, service.ErrInvalidToken):
		return apiError{http.StatusUnauthorized, codeInvalidToken, "Invalid or expired token"}
	case errors.Is(err, repository.ErrNotFound):
		return apiError{http.StatusNotFound, codeNotFound, "Account not found"}
	case errors.Is(err, service.ErrHash), errors.Is(err, service.ErrVerify):
		return apiError{http.StatusInternalServerError, codeHash, "Password processing failed"}
	case errors.Is(err, service.ErrTokenIssue):
		return apiError{http.StatusInternalServerError, codeToken, "Could not issue token"}
	case errors.Is(err, repository.ErrStore):
		return apiError{http.StatusInternalServerError, codeDatabase, "Database error"}
	default:
		return apiError{http.StatusInternalServerError, codeInternal, "Internal error"}
	}
}

// outcomeFor reduce el codigo de error a la etiqueta de metricas.
func outcomeFor(code string) string {
	switch code {
	case codeValidation:
		return metrics.OutcomeValidation
	case codeEmailExists:
		return metrics.OutcomeEmailExists
	case codeInvalidCredentials:
		return metrics.OutcomeInvalidCredentials
	case codeInvalidToken:
		return metrics.OutcomeInvalidToken
	}
	return metrics.OutcomeError
}

// respondError escribe el error mapeado; los 5xx se loguean con el detalle interno.
func respondError(c *gin.Context, logger *zap.Logger, operation string, err error) apiError {
	mapped := classifyError(err)
	if mapped.status >= http.StatusInternalServerError {
		logger.Error(operation+" failed", zap.String("code", mapped.code), zap.Error(err))
	}
	writeError(c, mapped.status, mapped.code, mapped.message)
	return mapped
}
