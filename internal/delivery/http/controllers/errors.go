package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"donationtracker/internal/delivery/http/helpers"
	"donationtracker/internal/domain"
)

const msgPermissionDenied = "You do not have permission to perform this action."

// pathID reads a positive integer path value. Anything else is reported as not found.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil && id > 0
}

// writeServiceError maps a service error to its HTTP response and logs unexpected ones.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, notFound)
	case errors.Is(err, domain.ErrInvalidPage):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "Invalid page.")
	case errors.Is(err, domain.ErrAmountNotPositive):
		helpers.WriteValidationError(w, helpers.FieldErrors{"amount": {msgAmountNotPositive}})
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, msgPermissionDenied)
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
	}
}
