package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "donationtracker/internal/delivery/http/helpers"
	"donationtracker/internal/domain"
)

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// ObtainToken godoc
// @Summary Obtain a token pair
// @Description Exchange username and password for an access token (5 minutes) and a refresh token (1 day). Inactive accounts cannot log in.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body TokenRequest true "Credentials"
// @Success 200 {object} controllers.TokenSuccessResponse "data contains access and refresh"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or validation_error"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /token/ [post]
func (c *AuthController) ObtainToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	pair, err := c.Service.ObtainToken(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "No active account found with the given credentials")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal error")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, TokenPairResponse{Access: pair.Access, Refresh: pair.Refresh})
}

// RefreshToken godoc
// @Summary Refresh the access token
// @Description Exchange a refresh token for a new access token. Access tokens are rejected.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RefreshRequest true "Refresh token"
// @Success 200 {object} controllers.RefreshSuccessResponse "data contains access"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or validation_error"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /token/refresh/ [post]
func (c *AuthController) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	access, err := c.Service.RefreshToken(r.Context(), req.Refresh)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "Token is invalid or expired")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal error")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, AccessResponse{Access: access})
}
