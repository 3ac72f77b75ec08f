package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"donationtracker/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
		errIs   error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WithArgs("alice", "alice@example.com", "hash", "salt", true, false, true, created).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
			},
		},
		{
			name: "unique violation returns ErrDuplicateUsername",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: true,
			errIs:   domain.ErrDuplicateUsername,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			u := domain.NewUser("alice", "alice@example.com", true, false, created)
			u.PasswordHash, u.Salt = "hash", "salt"
			err = NewUserRepository(db).Create(ctx, u)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(1), u.ID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByUsername(t *testing.T) {
	ctx := context.Background()
	cols := []string{"id", "username", "email", "password_hash", "salt", "is_staff", "is_superuser", "is_active", "created_at"}

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM users WHERE username = \$1`).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow(1, "alice", "alice@example.com", "hash", "salt", false, true, true, time.Now()))

		u, err := NewUserRepository(db).GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(1), u.ID)
		assert.True(t, u.IsSuperuser)
		assert.True(t, u.IsActive)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM users WHERE id = \$1`).
			WithArgs(int64(42)).
			WillReturnError(sql.ErrNoRows)

		_, err = NewUserRepository(db).GetByID(ctx, 42)
		require.ErrorIs(t, err, domain.ErrUserNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_ListGroupNames(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT g.name`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("HR").AddRow("Volunteers"))

	names, err := NewUserRepository(db).ListGroupNames(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"HR", "Volunteers"}, names)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_AddToGroup(t *testing.T) {
	t.Run("commits both inserts", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO groups \(name\)`).
			WithArgs("HR").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
		mock.ExpectExec(`INSERT INTO user_groups`).
			WithArgs(int64(3), int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, NewUserRepository(db).AddToGroup(context.Background(), 3, "HR"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO groups`).WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		require.Error(t, NewUserRepository(db).AddToGroup(context.Background(), 3, "HR"))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
