package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ekverified/app-backend/middleware"
	"github.com/ekverified/app-backend/services"
)

type NotificationHandler struct {
	NotificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{NotificationService: notificationService}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	notifs, err := h.NotificationService.List(r.Context(), r.URL.Query().Get("member"), middleware.ClaimsFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notifs)
}

func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
		Member  string `json:"member"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request format"})
		return
	}

	if err := h.NotificationService.Notify(r.Context(), req.Member, req.Message); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.NotificationService.MarkRead(r.Context(), id, middleware.ClaimsFrom(r)); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
