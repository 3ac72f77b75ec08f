package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Donation is a monetary contribution by a user to a specific event.
// Event and donor are fixed at creation; donations are never updated.
type Donation struct {
	ID            int64
	EventID       int64
	EventTitle    string
	DonorID       int64
	DonorUsername string
	DonorEmail    string
	Amount        decimal.Decimal
	Date          time.Time
}

// Summary statuses.
const (
	StatusCompleted = "Completed"
	StatusUpcoming  = "Upcoming"
)

// EventSummary is one row of the donation summary report.
type EventSummary struct {
	ID          int64
	Name        string
	Date        time.Time
	Count       int
	Amount      decimal.Decimal
	Status      string
	HasDonation bool
}

// DonationRepository defines storage operations for donations.
type DonationRepository interface {
	// Create inserts d and sets its ID and Date.
	Create(ctx context.Context, d *Donation) error
	// ListByEventID returns the event's donations whose donor username or email contains search,
	// newest first, with the total number of matches before pagination.
	ListByEventID(ctx context.Context, eventID int64, search string, params PaginationParams) ([]*Donation, int, error)
}

// DonationService defines donation listing, creation and the summary report.
type DonationService interface {
	ListDonations(ctx context.Context, eventID int64, search string, params PaginationParams) ([]*Donation, int, error)
	CreateDonation(ctx context.Context, donor *User, eventID int64, amount decimal.Decimal) (*Donation, error)
	Summary(ctx context.Context, search string, params *PaginationParams) ([]*EventSummary, int, error)
}
