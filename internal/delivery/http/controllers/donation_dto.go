package controllers

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"

	"donationtracker/internal/delivery/http/helpers"
	"donationtracker/internal/domain"

	"github.com/shopspring/decimal"
)

// Limits of a donation amount: NUMERIC(10,2).
const (
	amountMaxDigits      = 10
	amountDecimalPlaces  = 2
	msgInvalidNumber     = "A valid number is required."
	msgAmountNotPositive = "Amount must be greater than zero."
)

// DonationRequest is the request body for POST /events/{event_id}/donations/.
// The event comes from the path and the donor from the token; both are ignored in the body.
type DonationRequest struct {
	Amount json.RawMessage `json:"amount" swaggertype:"number" example:"50.00"`

	amount decimal.Decimal
}

// Validate implements helpers.Validator.
func (d *DonationRequest) Validate() helpers.FieldErrors {
	errs := helpers.FieldErrors{}
	raw := strings.TrimSpace(string(d.Amount))
	switch raw {
	case "":
		errs.Add("amount", helpers.MsgRequired)
		return errs
	case "null":
		errs.Add("amount", helpers.MsgNull)
		return errs
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(d.Amount, &s); err != nil {
			errs.Add("amount", msgInvalidNumber)
			return errs
		}
		raw = strings.TrimSpace(s)
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		errs.Add("amount", msgInvalidNumber)
		return errs
	}
	if msg := checkDigits(v); msg != "" {
		errs.Add("amount", msg)
		return errs
	}
	if !v.IsPositive() {
		errs.Add("amount", msgAmountNotPositive)
		return errs
	}
	d.amount = v
	return errs
}

// checkDigits enforces the total digits and decimal places of the amount column.
func checkDigits(v decimal.Decimal) string {
	coef := new(big.Int).Abs(v.Coefficient()).String()
	exp := int(v.Exponent())
	var digits, decimals int
	switch {
	case exp >= 0:
		digits = len(coef) + exp
		if coef == "0" {
			digits = 0
		}
	case -exp > len(coef):
		digits, decimals = -exp, -exp
	default:
		digits, decimals = len(coef), -exp
	}
	switch {
	case digits > amountMaxDigits:
		return fmt.Sprintf("Ensure that there are no more than %d digits in total.", amountMaxDigits)
	case decimals > amountDecimalPlaces:
		return fmt.Sprintf("Ensure that there are no more than %d decimal places.", amountDecimalPlaces)
	case digits-decimals > amountMaxDigits-amountDecimalPlaces:
		return fmt.Sprintf("Ensure that there are no more than %d digits before the decimal point.",
			amountMaxDigits-amountDecimalPlaces)
	}
	return ""
}

// DonationResponse is the representation of a donation.
type DonationResponse struct {
	ID         int64     `json:"id"`
	EventTitle string    `json:"event_title"`
	Donor      string    `json:"donor"`
	DonorEmail string    `json:"donor_email"`
	Amount     string    `json:"amount" example:"50.00"`
	Date       time.Time `json:"date"`
}

func newDonationResponse(d *domain.Donation) DonationResponse {
	return DonationResponse{
		ID:         d.ID,
		EventTitle: d.EventTitle,
		Donor:      d.DonorUsername,
		DonorEmail: d.DonorEmail,
		Amount:     d.Amount.StringFixed(2),
		Date:       d.Date,
	}
}

// DonationSuccessResponse is the success response envelope for a created donation (201).
type DonationSuccessResponse struct {
	Data  DonationResponse  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// DonationPage is the paged list of an event's donations.
type DonationPage struct {
	Count    int                `json:"count"`
	Next     *string            `json:"next"`
	Previous *string            `json:"previous"`
	Results  []DonationResponse `json:"results"`
}

// DonationListSuccessResponse is the success response envelope for the donation list (200).
type DonationListSuccessResponse struct {
	Data  DonationPage      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// SummaryRow is one event of the donation summary.
type SummaryRow struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Date        string      `json:"date" example:"2025-03-10"`
	Count       int         `json:"count"`
	Amount      json.Number `json:"amount" swaggertype:"number" example:"75.00"`
	Status      string      `json:"status" enums:"Completed,Upcoming"`
	HasDonation bool        `json:"hasDonation"`
}

// SummaryResponse is the donation summary: rows of the requested page and the number of matching events.
type SummaryResponse struct {
	Results []SummaryRow `json:"results"`
	Total   int          `json:"total"`
}

func newSummaryResponse(rows []*domain.EventSummary, total int) SummaryResponse {
	out := SummaryResponse{Results: make([]SummaryRow, 0, len(rows)), Total: total}
	for _, r := range rows {
		out.Results = append(out.Results, SummaryRow{
			ID:          r.ID,
			Name:        r.Name,
			Date:        r.Date.Format(time.DateOnly),
			Count:       r.Count,
			Amount:      json.Number(r.Amount.StringFixed(2)),
			Status:      r.Status,
			HasDonation: r.HasDonation,
		})
	}
	return out
}

// SummarySuccessResponse is the success response envelope for GET /donations/summary/ (200).
type SummarySuccessResponse struct {
	Data  SummaryResponse   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ProfileSuccessResponse is the success response envelope for GET /user/ (200).
type ProfileSuccessResponse struct {
	Data  domain.UserProfile `json:"data"`
	Error *helpers.APIError  `json:"error"`
}
