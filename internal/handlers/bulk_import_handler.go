package handlers

import (
	"encoding/csv"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"office-backend/internal/archive"
	"office-backend/internal/cache"
	"office-backend/internal/middleware"
	"office-backend/internal/models"
	"office-backend/internal/services"
	"office-backend/internal/timeutil"
	"office-backend/pkg/utils"
)

const maxImportSize = 5 << 20 // 5 MB

type BulkImportHandler struct {
	Service  *services.BulkImportService
	Archiver *archive.Uploader // nil when archiving is disabled
}

func NewBulkImportHandler(s *services.BulkImportService, archiver *archive.Uploader) *BulkImportHandler {
	return &BulkImportHandler{Service: s, Archiver: archiver}
}

// Upload accepts a multipart CSV of employee ids and records a claim per
// row. The response always carries the full per-row outcome; HTTP status is
// 200 even when some rows failed, because partial success is the normal
// case for this endpoint.
func (h *BulkImportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	goodiesType := strings.TrimSpace(r.FormValue("goodies_type"))
	if goodiesType == "" {
		utils.Error(w, http.StatusBadRequest, "goodies_type is required")
		return
	}

	date, err := timeutil.ParseInIST(timeutil.DateLayout, r.FormValue("distribution_date"))
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "distribution_date must be in YYYY-MM-DD format")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	// Read one byte past the limit so an oversized file is rejected instead
	// of being truncated mid-row.
	raw, err := io.ReadAll(io.LimitReader(file, maxImportSize+1))
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Failed to read file")
		return
	}
	if len(raw) > maxImportSize {
		utils.Error(w, http.StatusRequestEntityTooLarge, "File exceeds the 5 MB limit")
		return
	}

	rows, err := parseImportCSV(raw)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	actorID, _ := middleware.GetEmployeeIDFromContext(r.Context())
	actorOffice, _ := middleware.GetOfficeIDFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())
	email, _ := middleware.GetEmailFromContext(r.Context())
	log.Printf("[BulkImport] %s uploaded %s (%d bytes, %d rows)", email, header.Filename, len(raw), len(rows))

	ic := &services.ImportContext{
		GoodiesType:      goodiesType,
		DistributionDate: date,
		ActorID:          actorID,
		ActorOfficeID:    actorOffice,
		CrossOffice:      role == models.RoleSuperAdmin,
	}

	result, err := h.Service.ProcessRows(r.Context(), ic, rows)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// The batch may have created distributions and drained stock, so the
	// cached listings for every touched office are stale now.
	for _, officeID := range result.Offices {
		cache.InvalidateDistributions(r.Context(), officeID)
	}

	// Keep the original bytes for audit, best effort
	h.Archiver.StoreImportFile(r.Context(), header.Filename, raw)

	utils.JSON(w, http.StatusOK, result)
}

// parseImportCSV reads the upload into rows. The first line must be a
// header naming an employee_id column; an office_id column is optional.
// Cell-level problems are left to the service so they fail individual rows.
func parseImportCSV(raw []byte) ([]models.ImportRow, error) {
	reader := csv.NewReader(strings.NewReader(string(raw)))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.New("file is empty or not valid CSV")
	}

	empCol, officeCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "employee_id", "employeeid", "emp_id":
			empCol = i
		case "office_id", "officeid":
			officeCol = i
		}
	}
	if empCol < 0 {
		return nil, errors.New("missing employee_id column")
	}

	var rows []models.ImportRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A malformed line still counts as a row so the caller's totals
			// match the file; the empty employee id fails it downstream.
			rows = append(rows, models.ImportRow{})
			continue
		}

		row := models.ImportRow{}
		if empCol < len(record) {
			row.EmployeeID = strings.TrimSpace(record[empCol])
		}
		if officeCol >= 0 && officeCol < len(record) {
			row.OfficeID = strings.TrimSpace(record[officeCol])
		}
		rows = append(rows, row)
	}
	return rows, nil
}
