package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"membership-api/internal/metrics"
	"membership-api/internal/service"
)

const authClaimsKey = "auth_claims"

// JWTAuthMiddleware valida el bearer token y guarda los claims en el contexto.
// Ausente, malformado, ajeno o expirado responden igual: 401 invalid_token.
func JWTAuthMiddleware(tokens *service.TokenService, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokens == nil {
			writeError(c, http.StatusInternalServerError, codeInternal, "Token verification not configured")
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if len(header) < len("Bearer ") || !strings.EqualFold(header[:len("Bearer ")], "bearer ") {
			m.RecordAuth("verify", metrics.OutcomeInvalidToken)
			writeError(c, http.StatusUnauthorized, codeInvalidToken, "Missing bearer token")
			return
		}

		claims, err := tokens.Verify(strings.TrimSpace(header[len("Bearer "):]))
		if err != nil {
			m.RecordAuth("verify", metrics.OutcomeInvalidToken)
			writeError(c, http.StatusUnauthorized, codeInvalidToken, "Invalid or expired token")
			return
		}

		c.Set(authClaimsKey, claims)
		c.Next()
	}
}

// GetAuthClaims obtiene claims de JWT desde el contexto.
func GetAuthClaims(c *gin.Context) (service.Claims, bool) {
	val, ok := c.Get(authClaimsKey)
	if !ok {
		return service.Claims{}, false
	}
	claims, ok := val.(service.Claims)
	return claims, ok
}
