package controllers

import (
	"log/slog"
	"net/http"

	"donationtracker/internal/delivery/http/helpers"
	"donationtracker/internal/delivery/http/middleware"
	"donationtracker/internal/domain"
)

type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// GetProfile godoc
// @Summary Get the current user's profile
// @Description Returns id, username, email, the derived role (admin, hr or employee) and lowercase group names.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ProfileSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /user/ [get]
func (c *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "Authentication credentials were not provided.")
		return
	}
	profile, err := c.Service.GetProfile(r.Context(), user)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, profile)
}
