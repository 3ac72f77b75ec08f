package controllers

import "donationtracker/internal/delivery/http/helpers"

// TokenRequest is the request body for POST /token/.
type TokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest is the request body for POST /token/refresh/.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// AccessResponse is the payload of a successful refresh.
type AccessResponse struct {
	Access string `json:"access"`
}

// TokenSuccessResponse is the success response envelope for POST /token/ (200).
type TokenSuccessResponse struct {
	Data  TokenPairResponse `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// TokenPairResponse carries the access and refresh tokens.
type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RefreshSuccessResponse is the success response envelope for POST /token/refresh/ (200).
type RefreshSuccessResponse struct {
	Data  AccessResponse    `json:"data"`
	Error *helpers.APIError `json:"error"`
}
