package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ekverified/app-backend/middleware"
	"github.com/ekverified/app-backend/services"
)

type LoanHandler struct {
	LoanService *services.LoanService
}

func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{LoanService: loanService}
}

func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount  float64 `json:"amount"`
		Purpose string  `json:"purpose"`
		Member  string  `json:"member"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request format"})
		return
	}

	loan, err := h.LoanService.Create(r.Context(), req.Amount, req.Purpose, req.Member)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": loan.ID})
}

func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	loans, err := h.LoanService.List(r.Context(), r.URL.Query().Get("member"), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loans)
}

// UpdateStatus advances the approval workflow; the service enforces who may
// take which transition.
func (h *LoanHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request format"})
		return
	}

	claims := middleware.ClaimsFrom(r)
	loan, err := h.LoanService.UpdateStatus(r.Context(), claims, id, req.Status, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loan)
}
