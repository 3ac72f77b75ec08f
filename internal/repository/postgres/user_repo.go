package postgres

import (
	"context"
	"database/sql"
	"errors"

	"donationtracker/internal/domain"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

const userColumns = `id, username, email, password_hash, salt, is_staff, is_superuser, is_active, created_at`

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, salt, is_staff, is_superuser, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		u.Username, u.Email, u.PasswordHash, u.Salt, u.IsStaff, u.IsSuperuser, u.IsActive, u.CreatedAt,
	).Scan(&u.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrDuplicateUsername
		}
		return err
	}
	return nil
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	u := &domain.User{}
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Salt, &u.IsStaff, &u.IsSuperuser, &u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *userRepository) ListGroupNames(ctx context.Context, userID int64) ([]string, error) {
	query := `
		SELECT g.name
		FROM groups g
		JOIN user_groups ug ON ug.group_id = g.id
		WHERE ug.user_id = $1
		ORDER BY g.name
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// AddToGroup creates the group if needed and adds the user to it. Adding twice is a no-op.
func (r *userRepository) AddToGroup(ctx context.Context, userID int64, group string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var groupID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO groups (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, group).Scan(&groupID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_groups (user_id, group_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, group_id) DO NOTHING
	`, userID, groupID)
	if err != nil {
		return err
	}
	return tx.Commit()
}
