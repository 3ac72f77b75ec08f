package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"donationtracker/internal/delivery/http/helpers"
	"donationtracker/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var (
	adminUser    = &domain.User{ID: 1, Username: "admin", Email: "admin@example.com", IsSuperuser: true, IsStaff: true, IsActive: true}
	employeeUser = &domain.User{ID: 3, Username: "emp", Email: "emp@example.com", IsActive: true}
)

// fakeAuthService implements domain.AuthService.
type fakeAuthService struct {
	pair       *domain.TokenPair
	access     string
	err        error
	gotUser    string
	gotPass    string
	gotRefresh string
}

func (f *fakeAuthService) ObtainToken(ctx context.Context, username, password string) (*domain.TokenPair, error) {
	f.gotUser, f.gotPass = username, password
	if f.err != nil {
		return nil, f.err
	}
	return f.pair, nil
}

func (f *fakeAuthService) RefreshToken(ctx context.Context, refresh string) (string, error) {
	f.gotRefresh = refresh
	if f.err != nil {
		return "", f.err
	}
	return f.access, nil
}

func (f *fakeAuthService) Authenticate(ctx context.Context, access string) (*domain.User, error) {
	return nil, domain.ErrInvalidToken
}

// fakeEventService implements domain.EventService.
type fakeEventService struct {
	events    map[int64]*domain.Event
	listTotal int
	listErr   error
	err       error
	imageURL  string

	lastSearch  string
	lastParams  domain.PaginationParams
	lastCreate  *domain.Event
	lastUpdate  domain.EventUpdate
	lastDeleted int64
	lastImage   []byte
	lastCT      string
}

func (f *fakeEventService) ListEvents(ctx context.Context, search string, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f.lastSearch, f.lastParams = search, params
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	var out []*domain.Event
	for _, e := range f.events {
		out = append(out, e)
	}
	return out, f.listTotal, nil
}

func (f *fakeEventService) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (f *fakeEventService) CreateEvent(ctx context.Context, actor *domain.User, event *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	if !domain.IsAdminOrHR(actor) {
		return domain.ErrForbidden
	}
	event.ID = 42
	f.lastCreate = event
	return nil
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, actor *domain.User, id int64, update domain.EventUpdate) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	f.lastUpdate = update
	update.Apply(e)
	return e, nil
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, actor *domain.User, id int64) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.events[id]; !ok {
		return domain.ErrNotFound
	}
	f.lastDeleted = id
	delete(f.events, id)
	return nil
}

func (f *fakeEventService) SaveImage(ctx context.Context, actor *domain.User, filename, contentType string, body io.Reader) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.lastImage, f.lastCT = b, contentType
	return f.imageURL, nil
}

// fakeDonationService implements domain.DonationService.
type fakeDonationService struct {
	donations []*domain.Donation
	total     int
	rows      []*domain.EventSummary
	err       error

	lastEventID int64
	lastSearch  string
	lastParams  domain.PaginationParams
	lastSummary *domain.PaginationParams
	lastAmount  decimal.Decimal
	lastDonor   *domain.User
	created     bool
}

func (f *fakeDonationService) ListDonations(ctx context.Context, eventID int64, search string, params domain.PaginationParams) ([]*domain.Donation, int, error) {
	f.lastEventID, f.lastSearch, f.lastParams = eventID, search, params
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.donations, f.total, nil
}

func (f *fakeDonationService) CreateDonation(ctx context.Context, donor *domain.User, eventID int64, amount decimal.Decimal) (*domain.Donation, error) {
	f.lastDonor, f.lastEventID, f.lastAmount = donor, eventID, amount
	if f.err != nil {
		return nil, f.err
	}
	f.created = true
	return &domain.Donation{
		ID:            9,
		EventID:       eventID,
		EventTitle:    "Food Drive",
		DonorID:       donor.ID,
		DonorUsername: donor.Username,
		DonorEmail:    donor.Email,
		Amount:        amount,
	}, nil
}

func (f *fakeDonationService) Summary(ctx context.Context, search string, params *domain.PaginationParams) ([]*domain.EventSummary, int, error) {
	f.lastSearch, f.lastSummary = search, params
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.rows, f.total, nil
}

// fakeUserService implements domain.UserService.
type fakeUserService struct {
	profile *domain.UserProfile
	err     error
}

func (f *fakeUserService) GetProfile(ctx context.Context, user *domain.User) (*domain.UserProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

func (f *fakeUserService) CreateUser(ctx context.Context, params domain.CreateUserParams) (*domain.User, error) {
	return nil, nil
}

// envelope decodes the response body into its data and error parts.
type envelope struct {
	Data  json.RawMessage   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func strPtr(s string) *string { return &s }
