package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ekverified/app-backend/logging"
	"github.com/ekverified/app-backend/models"
	"github.com/ekverified/app-backend/services"
)

type LoginRequest struct {
	Email string `json:"email"`
	Pin   string `json:"pin"`
}

type LoginResponse struct {
	User  models.Member `json:"user"`
	Token string        `json:"token"`
}

type LoginHandler struct {
	AuthService *services.AuthService
}

func NewLoginHandler(authService *services.AuthService) *LoginHandler {
	return &LoginHandler{AuthService: authService}
}

// Login exchanges an email/PIN pair for a session token.
func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request format"})
		return
	}

	user, token, err := h.AuthService.Authenticate(r.Context(), req.Email, req.Pin)
	if err != nil {
		writeError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: LOGIN_SUCCESS, Description: Member %s logged in", user.Email)
	writeJSON(w, http.StatusOK, LoginResponse{User: user, Token: token})
}
