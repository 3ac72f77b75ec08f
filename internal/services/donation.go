package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"donationtracker/internal/domain"
	"donationtracker/internal/metrics"

	"github.com/shopspring/decimal"
)

type donationService struct {
	donationRepo   domain.DonationRepository
	eventRepo      domain.EventRepository
	emailService   domain.EmailService
	logger         *slog.Logger
	location       *time.Location
	now            func() time.Time
	contextTimeout time.Duration
}

// NewDonationService returns a DonationService. loc decides which calendar day counts as today
// when the summary labels events Completed or Upcoming.
func NewDonationService(
	donationRepo domain.DonationRepository,
	eventRepo domain.EventRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	loc *time.Location,
	timeout time.Duration,
) domain.DonationService {
	if loc == nil {
		loc = time.UTC
	}
	return &donationService{
		donationRepo:   donationRepo,
		eventRepo:      eventRepo,
		emailService:   emailService,
		logger:         logger,
		location:       loc,
		now:            time.Now,
		contextTimeout: timeout,
	}
}

func (s *donationService) ListDonations(ctx context.Context, eventID int64, search string, params domain.PaginationParams) ([]*domain.Donation, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("get event: %w", err)
	}

	donations, total, err := s.donationRepo.ListByEventID(ctx, eventID, search, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list donations: %w", err)
	}
	if err := params.CheckPage(total); err != nil {
		return nil, 0, err
	}
	return donations, total, nil
}

// CreateDonation records a donation by donor to the event and then tries to email a receipt.
// A failed receipt is logged and counted; it never fails the donation.
func (s *donationService) CreateDonation(ctx context.Context, donor *domain.User, eventID int64, amount decimal.Decimal) (*domain.Donation, error) {
	if donor == nil {
		return nil, domain.ErrForbidden
	}
	if !amount.IsPositive() {
		return nil, domain.ErrAmountNotPositive
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(storeCtx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	donation := &domain.Donation{
		EventID:       event.ID,
		EventTitle:    event.Title,
		DonorID:       donor.ID,
		DonorUsername: donor.Username,
		DonorEmail:    donor.Email,
		Amount:        amount,
	}
	if err := s.donationRepo.Create(storeCtx, donation); err != nil {
		return nil, fmt.Errorf("create donation: %w", err)
	}
	metrics.DonationsCreated.Inc()
	metrics.DonationAmount.Add(amount.InexactFloat64())

	s.sendReceipt(ctx, donation)
	return donation, nil
}

func (s *donationService) sendReceipt(ctx context.Context, d *domain.Donation) {
	if s.emailService == nil || d.DonorEmail == "" {
		return
	}
	data := &domain.DonationReceiptEmailData{
		Email:      d.DonorEmail,
		Username:   d.DonorUsername,
		EventTitle: d.EventTitle,
		Amount:     d.Amount.StringFixed(2),
	}
	if err := s.emailService.SendDonationReceipt(ctx, data); err != nil {
		metrics.NotificationFailures.WithLabelValues("donation_receipt").Inc()
		s.logger.WarnContext(ctx, "donation receipt not sent",
			"donation_id", d.ID, "to", d.DonorEmail, "err", err)
	}
}

func (s *donationService) Summary(ctx context.Context, search string, params *domain.PaginationParams) ([]*domain.EventSummary, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	rows, total, err := s.eventRepo.ListSummaries(ctx, search, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list summaries: %w", err)
	}

	today := domain.DateOf(s.now().In(s.location))
	for _, row := range rows {
		if row.Date.Before(today) {
			row.Status = domain.StatusCompleted
		} else {
			row.Status = domain.StatusUpcoming
		}
		row.HasDonation = row.Count > 0
	}
	return rows, total, nil
}
