package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"donationtracker/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var eventRowColumns = []string{"id", "title", "description", "date", "location", "image", "total_donations"}

func strPtr(s string) *string { return &s }

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantID  int64
		wantErr bool
	}{
		{
			name:  "success",
			event: domain.NewEvent("Food Drive", "Collect food", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), strPtr("Pune"), nil),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events \(title, description, date, location, image\)`).
					WithArgs("Food Drive", "Collect food", "2025-06-01", "Pune", nil).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
			},
			wantID: 7,
		},
		{
			name:  "db error",
			event: domain.NewEvent("Food Drive", "Collect food", time.Now(), nil, nil),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
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
			repo := NewEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, tt.event.ID)
			assert.True(t, tt.event.TotalDonations.IsZero())
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.Event
		wantErr error
	}{
		{
			name: "found with donations",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ FROM events e WHERE e.id = \$1`).
					WithArgs(int64(3)).
					WillReturnRows(sqlmock.NewRows(eventRowColumns).
						AddRow(3, "Food Drive", "Collect food", date, "Pune", nil, "75.00"))
			},
			want: &domain.Event{
				ID: 3, Title: "Food Drive", Description: "Collect food", Date: date,
				Location: strPtr("Pune"), TotalDonations: decimal.RequireFromString("75.00"),
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ FROM events e WHERE e.id = \$1`).
					WithArgs(int64(3)).
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			got, err := repo.GetByID(ctx, 3)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.ID, got.ID)
			assert.Equal(t, tt.want.Title, got.Title)
			assert.Equal(t, tt.want.Date, got.Date)
			assert.Equal(t, tt.want.Location, got.Location)
			assert.Nil(t, got.Image)
			assert.True(t, tt.want.TotalDonations.Equal(got.TotalDonations))
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_List(t *testing.T) {
	ctx := context.Background()
	params := domain.PaginationParams{Page: 2, PageSize: 10}
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("without search", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events e$`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
		mock.ExpectQuery(`ORDER BY e.date DESC, e.id DESC LIMIT \$1 OFFSET \$2`).
			WithArgs(10, 10).
			WillReturnRows(sqlmock.NewRows(eventRowColumns).
				AddRow(1, "Old", "d", date, nil, nil, "0"))

		events, total, err := NewEventRepository(db).List(ctx, "", params)
		require.NoError(t, err)
		assert.Equal(t, 11, total)
		require.Len(t, events, 1)
		assert.Equal(t, "Old", events[0].Title)
		assert.Nil(t, events[0].Location)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("search escapes wildcards", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events e WHERE \(e.title ILIKE \$1`).
			WithArgs(`%50\%%`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`LIMIT \$2 OFFSET \$3`).
			WithArgs(`%50\%%`, 10, 10).
			WillReturnRows(sqlmock.NewRows(eventRowColumns))

		events, total, err := NewEventRepository(db).List(ctx, "50%", params)
		require.NoError(t, err)
		assert.Equal(t, 0, total)
		assert.Empty(t, events)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()
	e := &domain.Event{ID: 4, Title: "T", Description: "D", Date: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)}

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events`).
					WithArgs("T", "D", "2025-01-02", nil, nil, int64(4)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events`).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewEventRepository(db).Update(ctx, e)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		id      int64
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			id:   5,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
					WithArgs(int64(5)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			id:   99,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
					WithArgs(int64(99)).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewEventRepository(db).Delete(ctx, tt.id)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_ListSummaries(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	cols := []string{"id", "title", "date", "count", "sum"}

	t.Run("paged with search", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events e WHERE e.title ILIKE \$1`).
			WithArgs("%drive%").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectQuery(`LEFT JOIN donations d ON d.event_id = e.id WHERE e.title ILIKE \$1\s+GROUP BY e.id\s+ORDER BY e.date DESC, e.id DESC LIMIT \$2 OFFSET \$3`).
			WithArgs("%drive%", 10, 0).
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow(2, "Food Drive", date, 2, "75.00").
				AddRow(1, "Book Drive", date, 0, "0"))

		params := &domain.PaginationParams{Page: 1, PageSize: 10}
		rows, total, err := NewEventRepository(db).ListSummaries(ctx, "drive", params)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, rows, 2)
		assert.True(t, rows[0].HasDonation)
		assert.Equal(t, 2, rows[0].Count)
		assert.Equal(t, "75.00", rows[0].Amount.StringFixed(2))
		assert.False(t, rows[1].HasDonation)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("all rows without limit", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events e$`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`ORDER BY e.date DESC, e.id DESC$`).
			WillReturnRows(sqlmock.NewRows(cols).AddRow(1, "Book Drive", date, 0, "0"))

		rows, total, err := NewEventRepository(db).ListSummaries(ctx, "", nil)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Len(t, rows, 1)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
