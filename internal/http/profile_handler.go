package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"membership-api/internal/service"
)

// UpdateProfileRequest lista los campos editables; los ausentes no se modifican.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// ProfileHandler expone el perfil de la cuenta autenticada.
type ProfileHandler struct {
	logger   *zap.Logger
	profiles *service.ProfileService
}

func NewProfileHandler(logger *zap.Logger, profiles *service.ProfileService) *ProfileHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileHandler{logger: logger, profiles: profiles}
}

// GetProfile maneja GET /profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, codeInvalidToken, "Invalid or expired token")
		return
	}

	profile, err := h.profiles.Get(c.Request.Context(), claims.UserID())
	if err != nil {
		respondError(c, h.logger, "get profile", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile maneja PUT /profile.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, codeInvalidToken, "Invalid or expired token")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid profile update request", zap.Error(err))
		writeError(c, http.StatusBadRequest, codeValidation, "Invalid request body")
		return
	}

	profile, err := h.profiles.Update(c.Request.Context(), claims.UserID(), service.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		respondError(c, h.logger, "update profile", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
