package handlers

import (
	"errors"
	"net/http"

	"office-backend/internal/models"
	"office-backend/pkg/utils"
)

// writeServiceError maps engine errors onto HTTP statuses. Unknown errors
// become 500 without leaking internals.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case models.IsValidation(err):
		utils.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNotFound):
		utils.Error(w, http.StatusNotFound, "not found")
	case errors.Is(err, models.ErrNotEligible):
		utils.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrAlreadyClaimed), errors.Is(err, models.ErrOutOfStock):
		utils.Error(w, http.StatusConflict, err.Error())
	default:
		utils.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
