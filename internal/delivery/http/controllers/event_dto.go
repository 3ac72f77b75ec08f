package controllers

import (
	"encoding/json"
	"strings"
	"time"

	"donationtracker/internal/delivery/http/helpers"
	"donationtracker/internal/domain"
)

const msgDateFormat = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."

func init() {
	helpers.RegisterValuer(NullableString{})
}

// NullableString is a JSON string field that tells an explicit null apart from an omitted key.
type NullableString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullableString) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

// ValidationValue implements helpers.Valuer.
func (n NullableString) ValidationValue() any {
	if n.Value == nil {
		return ""
	}
	return *n.Value
}

// ptr returns the value with empty strings treated as null.
func (n NullableString) ptr() *string {
	if n.Value == nil || strings.TrimSpace(*n.Value) == "" {
		return nil
	}
	v := strings.TrimSpace(*n.Value)
	return &v
}

// EventRequest is the request body for POST, PUT and PATCH on events. POST and PUT require
// title, description and date; PATCH only validates the fields it carries.
type EventRequest struct {
	Title       NullableString `json:"title" validate:"omitempty,max=200" swaggertype:"string"`
	Description NullableString `json:"description" swaggertype:"string"`
	Date        NullableString `json:"date" swaggertype:"string" example:"2025-03-10"`
	Location    NullableString `json:"location" validate:"omitempty,max=200" swaggertype:"string"`
	Image       NullableString `json:"image" validate:"omitempty,max=1024" swaggertype:"string"`

	partial bool
	date    time.Time
}

// Validate implements helpers.Validator.
func (e *EventRequest) Validate() helpers.FieldErrors {
	errs := helpers.FieldErrors{}
	e.checkText(errs, "title", e.Title)
	e.checkText(errs, "description", e.Description)
	if e.checkPresent(errs, "date", e.Date) {
		d, err := time.Parse(time.DateOnly, strings.TrimSpace(*e.Date.Value))
		if err != nil {
			errs.Add("date", msgDateFormat)
		} else {
			e.date = d
		}
	}
	return errs
}

func (e *EventRequest) checkText(errs helpers.FieldErrors, field string, v NullableString) {
	if e.checkPresent(errs, field, v) && strings.TrimSpace(*v.Value) == "" {
		errs.Add(field, helpers.MsgBlank)
	}
}

// checkPresent reports whether a non-null value was sent for field. A missing field is only
// an error on full requests; an explicit null is always one.
func (e *EventRequest) checkPresent(errs helpers.FieldErrors, field string, v NullableString) bool {
	switch {
	case !v.Set:
		if !e.partial {
			errs.Add(field, helpers.MsgRequired)
		}
		return false
	case v.Value == nil:
		errs.Add(field, helpers.MsgNull)
		return false
	}
	return true
}

// toEvent builds a new event from a validated full request.
func (e *EventRequest) toEvent() *domain.Event {
	return domain.NewEvent(strings.TrimSpace(*e.Title.Value), strings.TrimSpace(*e.Description.Value), e.date,
		e.Location.ptr(), e.Image.ptr())
}

// toUpdate builds the update for a validated request. Omitted optional fields keep their value.
func (e *EventRequest) toUpdate() domain.EventUpdate {
	var u domain.EventUpdate
	if e.Title.Value != nil {
		t := strings.TrimSpace(*e.Title.Value)
		u.Title = &t
	}
	if e.Description.Value != nil {
		d := strings.TrimSpace(*e.Description.Value)
		u.Description = &d
	}
	if e.Date.Value != nil {
		u.Date = &e.date
	}
	if e.Location.Set {
		u.SetLocation = true
		u.Location = e.Location.ptr()
	}
	if e.Image.Set {
		u.SetImage = true
		u.Image = e.Image.ptr()
	}
	return u
}

// EventResponse is the representation of an event.
type EventResponse struct {
	ID             int64       `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Date           string      `json:"date" example:"2025-03-10"`
	Location       *string     `json:"location"`
	Image          *string     `json:"image"`
	TotalDonations json.Number `json:"total_donations" swaggertype:"number" example:"75.00"`
}

func newEventResponse(e *domain.Event) EventResponse {
	return EventResponse{
		ID:             e.ID,
		Title:          e.Title,
		Description:    e.Description,
		Date:           e.Date.Format(time.DateOnly),
		Location:       e.Location,
		Image:          e.Image,
		TotalDonations: json.Number(e.TotalDonations.StringFixed(2)),
	}
}

func newEventResponses(events []*domain.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, newEventResponse(e))
	}
	return out
}

// EventSuccessResponse is the success response envelope for a single event.
type EventSuccessResponse struct {
	Data  EventResponse     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventPage is the paged list of events.
type EventPage struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []EventResponse `json:"results"`
}

// EventListSuccessResponse is the success response envelope for GET /events/ (200).
type EventListSuccessResponse struct {
	Data  EventPage         `json:"data"`
	Error *helpers.APIError `json:"error"`
}
