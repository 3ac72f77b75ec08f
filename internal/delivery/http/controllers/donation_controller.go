package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"donationtracker/internal/delivery/http/helpers"
	"donationtracker/internal/delivery/http/middleware"
	"donationtracker/internal/domain"
)

type DonationController struct {
	Logger  *slog.Logger
	Service domain.DonationService
}

func NewDonationController(logger *slog.Logger, svc domain.DonationService) *DonationController {
	return &DonationController{
		Logger:  logger,
		Service: svc,
	}
}

// ListDonations godoc
// @Summary List an event's donations
// @Description Donations to the event, newest first. search matches the donor's username or email (case-insensitive).
// @Tags donations
// @Produce json
// @Security BearerAuth
// @Param event_id path int true "Event ID"
// @Param search query string false "Substring of donor username or email"
// @Param page query int false "1-indexed page"
// @Param page_size query int false "Page size (default 10, max 100)"
// @Success 200 {object} controllers.DonationListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown event or invalid page)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{event_id}/donations/ [get]
func (c *DonationController) ListDonations(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(r, "event_id")
	if !ok {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		return
	}
	params, err := helpers.ParsePagination(r)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	donations, total, err := c.Service.ListDonations(r.Context(), eventID, search, params)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	results := make([]DonationResponse, 0, len(donations))
	for _, d := range donations {
		results = append(results, newDonationResponse(d))
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, helpers.NewPage(r, params, total, results))
}

// CreateDonation godoc
// @Summary Donate to an event
// @Description Records a donation by the caller. The amount must be greater than zero with at most two decimal places. A confirmation email is sent when the caller has an email address; a failed email does not fail the request.
// @Tags donations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event_id path int true "Event ID"
// @Param donation body DonationRequest true "Amount"
// @Success 201 {object} controllers.DonationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or validation_error"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{event_id}/donations/ [post]
func (c *DonationController) CreateDonation(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "Authentication credentials were not provided.")
		return
	}
	eventID, ok := pathID(r, "event_id")
	if !ok {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		return
	}
	var req DonationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	donation, err := c.Service.CreateDonation(r.Context(), user, eventID, req.amount)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, newDonationResponse(donation))
}

// Summary godoc
// @Summary Donation summary
// @Description Per-event donation count and total, newest event first. status is Completed for events before today and Upcoming otherwise. page_size=all returns every event.
// @Tags donations
// @Produce json
// @Security BearerAuth
// @Param search query string false "Substring of the event title"
// @Param page query int false "1-indexed page"
// @Param page_size query string false "Page size (default 10) or all"
// @Success 200 {object} controllers.SummarySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /donations/summary/ [get]
func (c *DonationController) Summary(w http.ResponseWriter, r *http.Request) {
	params, err := helpers.ParseSummaryParams(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	rows, total, err := c.Service.Summary(r.Context(), search, params)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, newSummaryResponse(rows, total))
}
