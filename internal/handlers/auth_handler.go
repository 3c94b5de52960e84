package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"office-backend/internal/models"
	"office-backend/internal/services"
	"office-backend/pkg/utils"
)

type AuthHandler struct {
	Employees *services.EmployeeService
	TOTP      *services.TOTPService
}

func NewAuthHandler(employees *services.EmployeeService, totp *services.TOTPService) *AuthHandler {
	return &AuthHandler{Employees: employees, TOTP: totp}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.Employees.Signup(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.Employees.Login(r.Context(), &req)
	if err != nil {
		if models.IsValidation(err) {
			// Credential failures are always 401, not 400
			log.Printf("[Auth] Failed login for %s from %s", req.Email, getIPAddress(r))
			utils.Error(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

// TOTPVerify completes a two-step login
func (h *AuthHandler) TOTPVerify(w http.ResponseWriter, r *http.Request) {
	var req models.TOTPVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.TOTP.VerifyLogin(r.Context(), req.TempToken, req.Code)
	if err != nil {
		if models.IsValidation(err) {
			utils.Error(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

// getIPAddress extracts the client IP, honoring reverse-proxy headers
func getIPAddress(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	return r.RemoteAddr
}
