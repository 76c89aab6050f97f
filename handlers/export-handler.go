package handlers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ekverified/app-backend/services"
)

type ExportHandler struct {
	ExportService *services.ExportService
}

func NewExportHandler(exportService *services.ExportService) *ExportHandler {
	return &ExportHandler{ExportService: exportService}
}

// Export streams a collection as a CSV attachment.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	exportType := mux.Vars(r)["type"]

	data, err := h.ExportService.Export(r.Context(), exportType)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", exportType))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
