package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"donationtracker/internal/domain"
)

type donationRepository struct {
	DB *sql.DB
}

func NewDonationRepository(db *sql.DB) domain.DonationRepository {
	return &donationRepository{DB: db}
}

func (r *donationRepository) Create(ctx context.Context, d *domain.Donation) error {
	query := `
		INSERT INTO donations (event_id, donor_id, amount)
		VALUES ($1, $2, $3)
		RETURNING id, date
	`
	return r.DB.QueryRowContext(ctx, query, d.EventID, d.DonorID, d.Amount).Scan(&d.ID, &d.Date)
}

func (r *donationRepository) ListByEventID(ctx context.Context, eventID int64, search string, params domain.PaginationParams) ([]*domain.Donation, int, error) {
	where := ` WHERE d.event_id = $1`
	args := []any{eventID}
	if search != "" {
		where += ` AND (u.username ILIKE $2 OR u.email ILIKE $2)`
		args = append(args, containsPattern(search))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM donations d JOIN users u ON u.id = d.donor_id` + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := fmt.Sprintf(`
		SELECT d.id, d.event_id, e.title, d.donor_id, u.username, u.email, d.amount, d.date
		FROM donations d
		JOIN events e ON e.id = d.event_id
		JOIN users u ON u.id = d.donor_id%s
		ORDER BY d.date DESC, d.id DESC
		LIMIT $%d OFFSET $%d`, where, n+1, n+2)
	args = append(args, params.Limit(), params.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	donations := make([]*domain.Donation, 0)
	for rows.Next() {
		d := &domain.Donation{}
		if err := rows.Scan(&d.ID, &d.EventID, &d.EventTitle, &d.DonorID, &d.DonorUsername, &d.DonorEmail, &d.Amount, &d.Date); err != nil {
			return nil, 0, err
		}
		donations = append(donations, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return donations, total, nil
}
