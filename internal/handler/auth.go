package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/16880444c/V4/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authSvc *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// loginRequest is the POST /v1/auth/login request body.
type loginRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
}

// loginResponse is the POST /v1/auth/login response body.
type loginResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Login handles POST /v1/auth/login.
// Checks the shared access password and returns a signed JWT.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "name and password are required")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "name and password are required")
		return
	}

	role, err := h.authSvc.Authenticate(req.Password)
	if err != nil {
		slog.Debug("login failed", "name", name, "error", err)
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid password")
		return
	}

	token, err := h.authSvc.SignToken(name, role)
	if err != nil {
		slog.Error("login: failed to sign token", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "authentication failed")
		return
	}

	slog.Info("user logged in",
		"event", "user_login",
		"name", name,
		"role", role,
	)

	writeJSON(w, http.StatusOK, loginResponse{
		Token: token,
		Name:  name,
		Role:  role,
	})
}
