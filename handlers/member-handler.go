package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ekverified/app-backend/middleware"
	"github.com/ekverified/app-backend/services"
)

type MemberHandler struct {
	AuthService *services.AuthService
}

func NewMemberHandler(authService *services.AuthService) *MemberHandler {
	return &MemberHandler{AuthService: authService}
}

// Register is the public signup route; new members always start with the
// plain member role.
func (h *MemberHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request format"})
		return
	}

	member, err := h.AuthService.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, member)
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.AuthService.ListMembers(r.Context(), r.URL.Query().Get("role"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	var req struct {
		Name   string `json:"name"`
		NewPin string `json:"newPin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request format"})
		return
	}

	claims := middleware.ClaimsFrom(r)
	if err := h.AuthService.UpdateProfile(r.Context(), claims, email, req.Name, req.NewPin); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *MemberHandler) Promote(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request format"})
		return
	}

	claims := middleware.ClaimsFrom(r)
	if err := h.AuthService.Promote(r.Context(), claims.Role, email, req.Role); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *MemberHandler) ResetPin(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	claims := middleware.ClaimsFrom(r)
	if err := h.AuthService.ResetPin(r.Context(), claims.Role, email); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *MemberHandler) Remove(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	claims := middleware.ClaimsFrom(r)
	if err := h.AuthService.RemoveMember(r.Context(), claims.Role, email); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
