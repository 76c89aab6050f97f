package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ekverified/app-backend/middleware"
	"github.com/ekverified/app-backend/services"
)

type PollHandler struct {
	PollService *services.PollService
}

func NewPollHandler(pollService *services.PollService) *PollHandler {
	return &PollHandler{PollService: pollService}
}

func (h *PollHandler) List(w http.ResponseWriter, r *http.Request) {
	polls, err := h.PollService.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, polls)
}

func (h *PollHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string   `json:"question"`
		Options  []string `json:"options"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request format"})
		return
	}

	poll, err := h.PollService.Create(r.Context(), req.Question, req.Options)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, poll)
}

// Vote records the caller's single vote on a poll. The voter identity comes
// from the session token, not the body.
func (h *PollHandler) Vote(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		OptionIndex int `json:"optionIndex"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request format"})
		return
	}

	claims := middleware.ClaimsFrom(r)
	poll, err := h.PollService.Vote(r.Context(), id, claims.Email, req.OptionIndex)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, poll)
}

func (h *PollHandler) Close(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	poll, err := h.PollService.Close(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, poll)
}
