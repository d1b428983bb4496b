package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/theChristopher16/pack1703-portal-sub002/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()

	cap50 := 50
	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name: "success with capacity",
			event: &domain.Event{
				Title:       "Fall Campout",
				Location:    "Camp Strake",
				StartsAt:    time.Date(2025, 10, 10, 17, 0, 0, 0, time.UTC),
				MaxCapacity: &cap50,
				FeeCents:    1500,
				Currency:    "USD",
				CreatedBy:   "user-1",
				CreatedAt:   time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
				UpdatedAt:   time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events \(title, description, location, starts_at, max_capacity, fee_cents, currency, created_by, created_at, updated_at\)`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-uuid-1"))
			},
			wantID: "ev-uuid-1",
		},
		{
			name: "db error",
			event: &domain.Event{
				Title:     "Pack Meeting",
				CreatedBy: "user-1",
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			},
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
			require.Equal(t, tt.wantID, tt.event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func eventRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "description", "location", "starts_at",
		"max_capacity", "fee_cents", "currency", "created_by", "created_at", "updated_at",
	})
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	starts := time.Date(2025, 10, 10, 17, 0, 0, 0, time.UTC)
	created := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("success with nullable capacity", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, title, description, location, starts_at, max_capacity`).
			WithArgs("ev-1").
			WillReturnRows(eventRows().
				AddRow("ev-1", "Fall Campout", "", "Camp Strake", starts, nil, 0, nil, "user-1", created, created))

		repo := NewEventRepository(db)
		got, err := repo.GetByID(ctx, "ev-1")
		require.NoError(t, err)
		assert.Equal(t, "Fall Campout", got.Title)
		assert.Nil(t, got.MaxCapacity)
		assert.False(t, got.RequiresPayment())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, title, description, location, starts_at, max_capacity`).
			WithArgs("ev-missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewEventRepository(db)
		got, err := repo.GetByID(ctx, "ev-missing")
		require.Error(t, err)
		require.True(t, errors.Is(err, domain.ErrNotFound))
		require.Nil(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_ListUpcoming(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)
	starts := time.Date(2025, 10, 10, 17, 0, 0, 0, time.UTC)
	created := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events`).
		WithArgs(from).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT id, title, description, location, starts_at, max_capacity`).
		WithArgs(from, 20, 0).
		WillReturnRows(eventRows().
			AddRow("ev-1", "Fall Campout", "", "Camp Strake", starts, 50, 1500, "USD", "user-1", created, created).
			AddRow("ev-2", "Pack Meeting", "", "Cafeteria", starts.Add(24*time.Hour), nil, 0, nil, "user-1", created, created))

	repo := NewEventRepository(db)
	got, total, err := repo.ListUpcoming(ctx, from, domain.PaginationParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, total)
	require.NotNil(t, got[0].MaxCapacity)
	assert.Equal(t, 50, *got[0].MaxCapacity)
	assert.True(t, got[0].RequiresPayment())
	assert.Nil(t, got[1].MaxCapacity)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		mock       func(mock sqlmock.Sqlmock)
		wantErr    bool
		isNotFound bool
	}{
		{
			name: "success",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
					WithArgs("ev-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			id:   "ev-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
					WithArgs("ev-missing").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr:    true,
			isNotFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Delete(ctx, tt.id)
			if tt.wantErr {
				require.Error(t, err)
				if tt.isNotFound {
					require.True(t, errors.Is(err, domain.ErrNotFound))
				}
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
