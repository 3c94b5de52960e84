package handlers

import (
	"encoding/json"
	"net/http"

	"office-backend/internal/middleware"
	"office-backend/internal/services"
	"office-backend/pkg/utils"
)

type TOTPHandler struct {
	Service *services.TOTPService
}

func NewTOTPHandler(s *services.TOTPService) *TOTPHandler {
	return &TOTPHandler{Service: s}
}

// Setup starts 2FA enrollment for the authenticated admin
func (h *TOTPHandler) Setup(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.GetEmployeeIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Employee ID not found in context")
		return
	}

	setup, err := h.Service.GenerateSetup(r.Context(), employeeID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, setup)
}

// Enable verifies the first code and activates 2FA
func (h *TOTPHandler) Enable(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.GetEmployeeIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Employee ID not found in context")
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.Enable(r.Context(), employeeID, req.Code); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "enabled"})
}
