package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ekverified/app-backend/middleware"
	"github.com/ekverified/app-backend/models"
	"github.com/ekverified/app-backend/services"
)

// RecordHandler serves the collections without their own workflow: news,
// welfare, transactions, approved reports, logs and signatures.
type RecordHandler struct {
	RecordService *services.RecordService
}

func NewRecordHandler(recordService *services.RecordService) *RecordHandler {
	return &RecordHandler{RecordService: recordService}
}

func (h *RecordHandler) ListNews(w http.ResponseWriter, r *http.Request) {
	news, err := h.RecordService.ListNews(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, news)
}

func (h *RecordHandler) PostNews(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request format"})
		return
	}

	claims := middleware.ClaimsFrom(r)
	entry, err := h.RecordService.AddNews(r.Context(), req.Text, claims.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (h *RecordHandler) ListWelfare(w http.ResponseWriter, r *http.Request) {
	claims, err := h.RecordService.ListWelfare(r.Context(), r.URL.Query().Get("member"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, claims)
}

func (h *RecordHandler) SubmitWelfare(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type   string  `json:"type"`
		Amount float64 `json:"amount"`
		Member string  `json:"member"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request format"})
		return
	}

	claim, err := h.RecordService.SubmitWelfare(r.Context(), req.Type, req.Amount, req.Member)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, claim)
}

func (h *RecordHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txns, err := h.RecordService.ListTransactions(r.Context(), r.URL.Query().Get("member"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txns)
}

func (h *RecordHandler) PostTransaction(w http.ResponseWriter, r *http.Request) {
	var txn models.Transaction
	if err := json.NewDecoder(r.Body).Decode(&txn); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request format"})
		return
	}

	saved, err := h.RecordService.AddTransaction(r.Context(), txn)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, saved)
}

func (h *RecordHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.RecordService.ListReports(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (h *RecordHandler) PostReport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
		File string `json:"file"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request format"})
		return
	}

	claims := middleware.ClaimsFrom(r)
	report, err := h.RecordService.AddReport(r.Context(), req.Text, req.File, claims.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, report)
}

func (h *RecordHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.RecordService.ListLogs(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (h *RecordHandler) PostLog(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action  string `json:"action"`
		Details string `json:"details"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request format"})
		return
	}

	claims := middleware.ClaimsFrom(r)
	entry, err := h.RecordService.AddLog(r.Context(), req.Action, claims.Name, req.Details)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (h *RecordHandler) ListSignatures(w http.ResponseWriter, r *http.Request) {
	sigs, err := h.RecordService.Signatures(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sigs)
}

func (h *RecordHandler) UpsertSignature(w http.ResponseWriter, r *http.Request) {
	role := mux.Vars(r)["role"]

	var req struct {
		Signature string `json:"signature"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request format"})
		return
	}

	if err := h.RecordService.UpsertSignature(r.Context(), role, req.Signature); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
