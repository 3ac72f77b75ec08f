package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"donationtracker/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	images         domain.ImageStore
	contextTimeout time.Duration
}

// NewEventService returns an EventService backed by the given repository and image store.
func NewEventService(eventRepo domain.EventRepository, images domain.ImageStore, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		images:         images,
		contextTimeout: timeout,
	}
}

func (s *eventService) ListEvents(ctx context.Context, search string, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, total, err := s.eventRepo.List(ctx, search, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	if err := params.CheckPage(total); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (s *eventService) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) CreateEvent(ctx context.Context, actor *domain.User, event *domain.Event) error {
	if !domain.IsAdminOrHR(actor) {
		return domain.ErrForbidden
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event.Date = domain.DateOf(event.Date)
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *eventService) UpdateEvent(ctx context.Context, actor *domain.User, id int64, update domain.EventUpdate) (*domain.Event, error) {
	if !domain.IsAdminOrHR(actor) {
		return nil, domain.ErrForbidden
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	update.Apply(event)
	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, actor *domain.User, id int64) error {
	if !domain.IsAdminOrHR(actor) {
		return domain.ErrForbidden
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// SaveImage stores an uploaded event image and returns its public URL.
func (s *eventService) SaveImage(ctx context.Context, actor *domain.User, filename, contentType string, body io.Reader) (string, error) {
	if !domain.IsAdminOrHR(actor) {
		return "", domain.ErrForbidden
	}
	if s.images == nil {
		return "", fmt.Errorf("image storage is not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	url, err := s.images.Save(ctx, filename, contentType, body)
	if err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return url, nil
}
