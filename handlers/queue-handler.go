package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ekverified/app-backend/middleware"
	"github.com/ekverified/app-backend/services"
)

type QueueHandler struct {
	QueueService *services.QueueService
}

func NewQueueHandler(queueService *services.QueueService) *QueueHandler {
	return &QueueHandler{QueueService: queueService}
}

func (h *QueueHandler) List(w http.ResponseWriter, r *http.Request) {
	queue, err := h.QueueService.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, queue)
}

func (h *QueueHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type   string          `json:"type"`
		Data   json.RawMessage `json:"data"`
		Author string          `json:"author"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request format"})
		return
	}

	claims := middleware.ClaimsFrom(r)
	item, err := h.QueueService.Submit(r.Context(), claims, req.Type, req.Data, req.Author)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

func (h *QueueHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		Signature string `json:"signature"`
	}
	// An empty body is fine; the signature is optional.
	_ = json.NewDecoder(r.Body).Decode(&req)

	claims := middleware.ClaimsFrom(r)
	item, err := h.QueueService.Approve(r.Context(), claims, id, req.Signature)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}
