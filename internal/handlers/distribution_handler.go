package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"office-backend/internal/cache"
	"office-backend/internal/middleware"
	"office-backend/internal/models"
	"office-backend/internal/monitoring"
	"office-backend/internal/services"
	"office-backend/pkg/utils"
)

type DistributionHandler struct {
	Distributions *services.DistributionService
	Claims        *services.ClaimService
}

func NewDistributionHandler(distributions *services.DistributionService, claims *services.ClaimService) *DistributionHandler {
	return &DistributionHandler{Distributions: distributions, Claims: claims}
}

func (h *DistributionHandler) CreateDistribution(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDistributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	actorID, ok := middleware.GetEmployeeIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Employee ID not found in context")
		return
	}

	dist, err := h.Distributions.CreateDistribution(r.Context(), &req, actorID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	cache.InvalidateDistributions(r.Context(), dist.OfficeID)
	utils.JSON(w, http.StatusCreated, dist)
}

func (h *DistributionHandler) ListDistributions(w http.ResponseWriter, r *http.Request) {
	officeID := 0
	if s := r.URL.Query().Get("office_id"); s != "" {
		var err error
		officeID, err = strconv.Atoi(s)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid office_id")
			return
		}
	}

	if data, ok := cache.GetCachedDistributions(r.Context(), officeID); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
		return
	}

	distributions, err := h.Distributions.List(r.Context(), officeID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if distributions == nil {
		distributions = []*models.Distribution{}
	}

	payload, err := json.Marshal(distributions)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	cache.CacheDistributions(r.Context(), officeID, payload)

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

func (h *DistributionHandler) GetDistribution(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid distribution ID")
		return
	}

	dist, err := h.Distributions.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, dist)
}

func (h *DistributionHandler) DeleteDistribution(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid distribution ID")
		return
	}

	dist, err := h.Distributions.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.Distributions.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	cache.InvalidateDistributions(r.Context(), dist.OfficeID)
	utils.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *DistributionHandler) ListClaims(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid distribution ID")
		return
	}

	claims, err := h.Claims.ListClaims(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if claims == nil {
		claims = []*models.ClaimRecord{}
	}
	utils.JSON(w, http.StatusOK, claims)
}

// ListEligible returns the employees currently allowed to claim
func (h *DistributionHandler) ListEligible(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid distribution ID")
		return
	}

	employees, err := h.Distributions.ListEligible(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if employees == nil {
		employees = []*models.Employee{}
	}
	utils.JSON(w, http.StatusOK, employees)
}

// SelfClaim lets the authenticated employee claim their own unit
func (h *DistributionHandler) SelfClaim(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid distribution ID")
		return
	}

	employeeID, ok := middleware.GetEmployeeIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Employee ID not found in context")
		return
	}

	claim, err := h.Claims.Claim(r.Context(), id, employeeID, models.ViaSelf, nil)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.afterClaim(r, claim)
	utils.JSON(w, http.StatusCreated, claim)
}

// MarkClaim lets an admin record a claim on an employee's behalf
func (h *DistributionHandler) MarkClaim(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid distribution ID")
		return
	}

	var req models.MarkClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	adminID, ok := middleware.GetEmployeeIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Employee ID not found in context")
		return
	}

	claim, err := h.Claims.Claim(r.Context(), id, req.EmployeeID, models.ViaAdmin, &adminID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.afterClaim(r, claim)
	utils.JSON(w, http.StatusCreated, claim)
}

// DeleteClaim reverses a claim and returns its unit to stock
func (h *DistributionHandler) DeleteClaim(w http.ResponseWriter, r *http.Request) {
	claimID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid claim ID")
		return
	}

	claim, err := h.Claims.Get(r.Context(), claimID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.Claims.Unclaim(r.Context(), claimID); err != nil {
		writeServiceError(w, err)
		return
	}

	if dist, err := h.Distributions.Get(r.Context(), claim.DistributionID); err == nil {
		cache.InvalidateDistributions(r.Context(), dist.OfficeID)
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// afterClaim invalidates count caches and feeds the live dashboard
func (h *DistributionHandler) afterClaim(r *http.Request, claim *models.ClaimRecord) {
	if dist, err := h.Distributions.Get(r.Context(), claim.DistributionID); err == nil {
		cache.InvalidateDistributions(r.Context(), dist.OfficeID)
		monitoring.PublishClaim(monitoring.ClaimEvent{
			DistributionID: claim.DistributionID,
			GoodiesType:    dist.GoodiesType,
			EmployeeID:     claim.EmployeeID,
			EmployeeName:   claim.EmployeeName,
			Via:            claim.Via,
			Remaining:      dist.RemainingCount,
		})
	}
}
