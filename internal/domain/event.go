package domain

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// Event is a fundraising occasion that donations are collected against.
type Event struct {
	ID          int64
	Title       string
	Description string
	// Date is a calendar date, stored as midnight UTC.
	Date     time.Time
	Location *string
	Image    *string
	// TotalDonations is the live sum of the event's donation amounts, filled in on every read.
	TotalDonations decimal.Decimal
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(title, description string, date time.Time, location, image *string) *Event {
	return &Event{
		Title:       title,
		Description: description,
		Date:        DateOf(date),
		Location:    location,
		Image:       image,
	}
}

// EventUpdate carries the fields of a partial or full event update. Nil pointers leave the field
// unchanged; SetLocation and SetImage allow clearing the nullable fields.
type EventUpdate struct {
	Title       *string
	Description *string
	Date        *time.Time
	SetLocation bool
	Location    *string
	SetImage    bool
	Image       *string
}

// Apply copies the set fields of u onto e.
func (u EventUpdate) Apply(e *Event) {
	if u.Title != nil {
		e.Title = *u.Title
	}
	if u.Description != nil {
		e.Description = *u.Description
	}
	if u.Date != nil {
		e.Date = DateOf(*u.Date)
	}
	if u.SetLocation {
		e.Location = u.Location
	}
	if u.SetImage {
		e.Image = u.Image
	}
}

// DateOf truncates t to its calendar date at midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	// List returns events matching search (title, description or location) ordered by date
	// descending, with the total number of matches before pagination.
	List(ctx context.Context, search string, params PaginationParams) ([]*Event, int, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id int64) error
	// ListSummaries aggregates donations per event for events whose title contains search.
	// A nil params returns every matching event.
	ListSummaries(ctx context.Context, search string, params *PaginationParams) ([]*EventSummary, int, error)
}

// ImageStore persists uploaded event images and returns the URL they are served from.
type ImageStore interface {
	Save(ctx context.Context, name, contentType string, body io.Reader) (url string, err error)
}

// EventService defines event CRUD. Mutations require an Admin or HR actor.
type EventService interface {
	ListEvents(ctx context.Context, search string, params PaginationParams) ([]*Event, int, error)
	GetEvent(ctx context.Context, id int64) (*Event, error)
	CreateEvent(ctx context.Context, actor *User, event *Event) error
	UpdateEvent(ctx context.Context, actor *User, id int64, update EventUpdate) (*Event, error)
	DeleteEvent(ctx context.Context, actor *User, id int64) error
	SaveImage(ctx context.Context, actor *User, filename, contentType string, body io.Reader) (string, error)
}
