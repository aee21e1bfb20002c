package handler

import (
	"net/http"

	"github.com/doorline/leadcapture-api/internal/domain"
	"github.com/doorline/leadcapture-api/internal/service"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login godoc
// @Summary Log in
// @Description Exchanges the configured user or admin credentials for a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.LoginResponse
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError "Invalid email or password"
// @Failure 429 {object} domain.APIError
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err, "Failed to log in")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Me godoc
// @Summary Get current identity
// @Description Returns the authenticated identity and the screen it lands on
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.Identity
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	me, err := h.authService.Me(r.Context())
	if err != nil {
		handleError(w, h.logger, err, "Failed to resolve identity")
		return
	}
	respondJSON(w, http.StatusOK, me)
}
