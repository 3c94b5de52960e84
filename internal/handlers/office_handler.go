package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"office-backend/internal/cache"
	"office-backend/internal/models"
	"office-backend/internal/repositories"
	"office-backend/internal/services"
	"office-backend/pkg/utils"
)

type OfficeHandler struct {
	Offices   *repositories.OfficeRepository
	Employees *services.EmployeeService
}

func NewOfficeHandler(offices *repositories.OfficeRepository, employees *services.EmployeeService) *OfficeHandler {
	return &OfficeHandler{Offices: offices, Employees: employees}
}

func (h *OfficeHandler) ListOffices(w http.ResponseWriter, r *http.Request) {
	offices, err := h.Offices.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if offices == nil {
		offices = []*models.Office{}
	}
	utils.JSON(w, http.StatusOK, offices)
}

func (h *OfficeHandler) CreateOffice(w http.ResponseWriter, r *http.Request) {
	var office models.Office
	if err := json.NewDecoder(r.Body).Decode(&office); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if office.Name == "" {
		utils.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := h.Offices.Create(r.Context(), &office); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, office)
}

// ListOfficeEmployees serves an office roster, cached briefly since it is
// read on every distribution form load.
func (h *OfficeHandler) ListOfficeEmployees(w http.ResponseWriter, r *http.Request) {
	officeID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid office ID")
		return
	}

	if data, ok := cache.GetCachedRoster(r.Context(), officeID); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
		return
	}

	employees, err := h.Employees.ListByOffice(r.Context(), officeID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if employees == nil {
		employees = []*models.Employee{}
	}

	payload, err := json.Marshal(employees)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	cache.CacheRoster(r.Context(), officeID, payload)

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}
