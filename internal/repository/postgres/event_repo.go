package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"donationtracker/internal/domain"

	"github.com/shopspring/decimal"
)

const eventColumns = `
	e.id, e.title, e.description, e.date, e.location, e.image,
	COALESCE((SELECT SUM(d.amount) FROM donations d WHERE d.event_id = e.id), 0) AS total_donations
`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var locNull, imageNull sql.NullString
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &locNull, &imageNull, &e.TotalDonations); err != nil {
		return nil, err
	}
	e.Date = domain.DateOf(e.Date)
	e.Location = stringPtr(locNull)
	e.Image = stringPtr(imageNull)
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, date, location, image)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.Date.Format(time.DateOnly), nullString(e.Location), nullString(e.Image),
	).Scan(&e.ID)
	if err != nil {
		return err
	}
	e.TotalDonations = decimal.Zero
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e WHERE e.id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func eventSearchClause(search string) (string, []any) {
	if search == "" {
		return "", nil
	}
	return ` WHERE (e.title ILIKE $1 OR e.description ILIKE $1 OR e.location ILIKE $1)`, []any{containsPattern(search)}
}

func (r *eventRepository) List(ctx context.Context, search string, params domain.PaginationParams) ([]*domain.Event, int, error) {
	where, args := eventSearchClause(search)

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events e`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM events e%s ORDER BY e.date DESC, e.id DESC LIMIT $%d OFFSET $%d`,
		eventColumns, where, n+1, n+2)
	args = append(args, params.Limit(), params.Offset())
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, date = $3, location = $4, image = $5
		WHERE id = $6
	`
	result, err := r.DB.ExecContext(ctx, query,
		e.Title, e.Description, e.Date.Format(time.DateOnly), nullString(e.Location), nullString(e.Image), e.ID,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the event; its donations go with it through ON DELETE CASCADE.
func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) ListSummaries(ctx context.Context, search string, params *domain.PaginationParams) ([]*domain.EventSummary, int, error) {
	var where string
	var args []any
	if search != "" {
		where = ` WHERE e.title ILIKE $1`
		args = []any{containsPattern(search)}
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events e`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT e.id, e.title, e.date, COUNT(d.id), COALESCE(SUM(d.amount), 0)
		FROM events e
		LEFT JOIN donations d ON d.event_id = e.id` + where + `
		GROUP BY e.id
		ORDER BY e.date DESC, e.id DESC`
	if params != nil {
		n := len(args)
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, n+1, n+2)
		args = append(args, params.Limit(), params.Offset())
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	summaries := make([]*domain.EventSummary, 0)
	for rows.Next() {
		s := &domain.EventSummary{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Date, &s.Count, &s.Amount); err != nil {
			return nil, 0, err
		}
		s.Date = domain.DateOf(s.Date)
		s.HasDonation = s.Count > 0
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}
