package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"donationtracker/internal/domain"

	"github.com/shopspring/decimal"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeStore keeps events and donations together so totals and cascades behave like the database.
type fakeStore struct {
	mu        sync.Mutex
	events    map[int64]*domain.Event
	donations []*domain.Donation
	users     map[int64]*domain.User
	nextID    int64
	err       error // if set, every repository call returns it
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events: make(map[int64]*domain.Event),
		users:  make(map[int64]*domain.User),
		nextID: 1,
	}
}

func (s *fakeStore) id() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *fakeStore) total(eventID int64) decimal.Decimal {
	sum := decimal.Zero
	for _, d := range s.donations {
		if d.EventID == eventID {
			sum = sum.Add(d.Amount)
		}
	}
	return sum
}

func (s *fakeStore) addEvent(title string, date time.Time) *domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := domain.NewEvent(title, title+" description", date, nil, nil)
	e.ID = s.id()
	s.events[e.ID] = e
	return e
}

func (s *fakeStore) addUser(u *domain.User) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.id()
	s.users[u.ID] = u
	return u
}

type fakeEventRepo struct{ *fakeStore }

func (f fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	e.ID = f.id()
	e.TotalDonations = decimal.Zero
	cp := *e
	f.events[e.ID] = &cp
	return nil
}

func (f fakeEventRepo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	cp.TotalDonations = f.total(id)
	return &cp, nil
}

func (f fakeEventRepo) sorted(match func(*domain.Event) bool) []*domain.Event {
	out := make([]*domain.Event, 0)
	for _, e := range f.events {
		if match(e) {
			cp := *e
			cp.TotalDonations = f.total(e.ID)
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func (f fakeEventRepo) List(ctx context.Context, search string, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, 0, f.err
	}
	all := f.sorted(func(e *domain.Event) bool {
		loc := ""
		if e.Location != nil {
			loc = *e.Location
		}
		return search == "" || containsFold(e.Title, search) || containsFold(e.Description, search) || containsFold(loc, search)
	})
	return page(all, params.Offset(), params.Limit()), len(all), nil
}

func (f fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.events[e.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *e
	f.events[e.ID] = &cp
	return nil
}

func (f fakeEventRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.events, id)
	kept := f.donations[:0]
	for _, d := range f.donations {
		if d.EventID != id {
			kept = append(kept, d)
		}
	}
	f.donations = kept
	return nil
}

func (f fakeEventRepo) ListSummaries(ctx context.Context, search string, params *domain.PaginationParams) ([]*domain.EventSummary, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, 0, f.err
	}
	events := f.sorted(func(e *domain.Event) bool { return search == "" || containsFold(e.Title, search) })
	if params != nil {
		events = page(events, params.Offset(), params.Limit())
	}
	rows := make([]*domain.EventSummary, 0, len(events))
	for _, e := range events {
		count := 0
		for _, d := range f.donations {
			if d.EventID == e.ID {
				count++
			}
		}
		rows = append(rows, &domain.EventSummary{ID: e.ID, Name: e.Title, Date: e.Date, Count: count, Amount: e.TotalDonations})
	}
	total := len(f.sorted(func(e *domain.Event) bool { return search == "" || containsFold(e.Title, search) }))
	return rows, total, nil
}

type fakeDonationRepo struct{ *fakeStore }

func (f fakeDonationRepo) Create(ctx context.Context, d *domain.Donation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.events[d.EventID]; !ok {
		return errors.New("foreign key violation")
	}
	d.ID = f.id()
	d.Date = time.Now()
	cp := *d
	f.donations = append(f.donations, &cp)
	return nil
}

func (f fakeDonationRepo) ListByEventID(ctx context.Context, eventID int64, search string, params domain.PaginationParams) ([]*domain.Donation, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, 0, f.err
	}
	out := make([]*domain.Donation, 0)
	for i := len(f.donations) - 1; i >= 0; i-- {
		d := f.donations[i]
		if d.EventID != eventID {
			continue
		}
		if search != "" && !containsFold(d.DonorUsername, search) && !containsFold(d.DonorEmail, search) {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	return page(out, params.Offset(), params.Limit()), len(out), nil
}

type fakeUserRepo struct {
	*fakeStore
	groups map[int64][]string
}

func newFakeUserRepo(store *fakeStore) *fakeUserRepo {
	return &fakeUserRepo{fakeStore: store, groups: make(map[int64][]string)}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return domain.ErrDuplicateUsername
		}
	}
	u.ID = f.id()
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) ListGroupNames(ctx context.Context, userID int64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.groups[userID]...), nil
}

func (f *fakeUserRepo) AddToGroup(ctx context.Context, userID int64, group string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.groups[userID] {
		if g == group {
			return nil
		}
	}
	f.groups[userID] = append(f.groups[userID], group)
	return nil
}

// fakeEmailService records receipts and optionally fails.
type fakeEmailService struct {
	sent []*domain.DonationReceiptEmailData
	err  error
}

func (f *fakeEmailService) SendDonationReceipt(ctx context.Context, data *domain.DonationReceiptEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

// fakeMailer implements domain.Mailer for tests.
type fakeMailer struct {
	to, subject, html, text string
	err                     error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, html, text string) error {
	f.to, f.subject, f.html, f.text = to, subject, html, text
	return f.err
}

// fakeRenderer implements domain.EmailTemplateRenderer for tests.
type fakeRenderer struct {
	name string
	err  error
}

func (f *fakeRenderer) Render(templateName string, data any) (string, string, string, error) {
	f.name = templateName
	if f.err != nil {
		return "", "", "", f.err
	}
	d := data.(*domain.DonationReceiptEmailData)
	return "Donation Successful - " + d.EventTitle, "<p>" + d.Amount + "</p>", d.Amount, nil
}

// fakeImageStore implements domain.ImageStore for tests.
type fakeImageStore struct {
	saved map[string][]byte
	err   error
}

func (f *fakeImageStore) Save(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if f.saved == nil {
		f.saved = make(map[string][]byte)
	}
	f.saved[name] = b
	return "http://media.test/" + name, nil
}

// fakePasswordHasher implements domain.PasswordHasher for tests.
type fakePasswordHasher struct{}

func (fakePasswordHasher) GenerateSalt() (string, error) { return "salt", nil }
func (fakePasswordHasher) Hash(salt, password string) (string, error) {
	return "hash-" + salt + "-" + password, nil
}
func (fakePasswordHasher) Compare(hash, salt, password string) error {
	if hash != "hash-"+salt+"-"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// fakeTokens issues "<type>:<id>" tokens.
type fakeTokens struct {
	issued []domain.TokenType
}

func (f *fakeTokens) Issue(userID int64, tokenType domain.TokenType, ttl time.Duration) (string, error) {
	f.issued = append(f.issued, tokenType)
	return string(tokenType) + ":" + strconv.FormatInt(userID, 10), nil
}

func (f *fakeTokens) Verify(token string, tokenType domain.TokenType) (int64, error) {
	prefix := string(tokenType) + ":"
	if !strings.HasPrefix(token, prefix) {
		return 0, domain.ErrInvalidToken
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(token, prefix), 10, 64)
	if err != nil {
		return 0, domain.ErrInvalidToken
	}
	return id, nil
}

var (
	adminUser    = &domain.User{ID: 100, Username: "admin", IsSuperuser: true, IsActive: true}
	hrUser       = &domain.User{ID: 101, Username: "hr", IsStaff: true, IsActive: true}
	employeeUser = &domain.User{ID: 102, Username: "emp", Email: "emp@example.com", IsActive: true}
)


func itoa(id int64) string { return strconv.FormatInt(id, 10) }
