package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"office-backend/internal/services"
	"office-backend/pkg/utils"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(s *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: s}
}

// ClaimSheetCSV downloads a distribution's claims as CSV
func (h *ReportHandler) ClaimSheetCSV(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid distribution ID")
		return
	}

	data, err := h.Service.ClaimSheetCSV(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="claims-%d.csv"`, id))
	w.Write(data)
}

// ClaimSheetPDF downloads a distribution's claims as a printable sheet
func (h *ReportHandler) ClaimSheetPDF(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid distribution ID")
		return
	}

	data, err := h.Service.ClaimSheetPDF(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="claims-%d.pdf"`, id))
	w.Write(data)
}
