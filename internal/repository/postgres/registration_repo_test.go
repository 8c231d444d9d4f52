package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"campusconnect/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestRegistrationRepository_Create(t *testing.T) {
	ctx := context.Background()
	regDate := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		reg     *domain.Registration
		mock    func(mock sqlmock.Sqlmock)
		wantID  int64
		wantErr error
	}{
		{
			name: "success",
			reg:  domain.NewRegistration(1, "Asha", "CSE", "1XX22CS001", "asha@x.com", regDate),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO registrations \(event_id, name, department, usn, email, registered_date\)`).
					WithArgs(int64(1), "Asha", "CSE", "1XX22CS001", "asha@x.com", regDate).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
			},
			wantID: 11,
		},
		{
			name: "duplicate pair hits the unique constraint",
			reg:  domain.NewRegistration(1, "Asha", "CSE", "1XX22CS001", "asha@x.com", regDate),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO registrations`).
					WillReturnError(&pq.Error{Code: uniqueViolation})
			},
			wantErr: domain.ErrDuplicateRegistration,
		},
		{
			name: "db error",
			reg:  domain.NewRegistration(1, "Asha", "CSE", "1XX22CS001", "asha@x.com", regDate),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO registrations`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRegistrationRepository(db)
			err = repo.Create(ctx, tt.reg)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.reg.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRegistrationRepository_ListByEventID(t *testing.T) {
	ctx := context.Background()
	d1 := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{"id", "event_id", "name", "department", "usn", "email", "registered_date"}
	mock.ExpectQuery(`SELECT id, event_id, name, department, usn, email, registered_date`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(12), int64(1), "Binu", "ECE", "1XX22EC002", "binu@x.com", d2).
			AddRow(int64(11), int64(1), "Asha", "CSE", "1XX22CS001", "asha@x.com", d1))

	repo := NewRegistrationRepository(db)
	regs, err := repo.ListByEventID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, regs, 2)
	require.Equal(t, "binu@x.com", regs[0].Email)
	require.Equal(t, "asha@x.com", regs[1].Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_Exists(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		found bool
	}{
		{name: "registered", found: true},
		{name: "not registered", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(`SELECT EXISTS`).
				WithArgs(int64(1), "asha@x.com").
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tt.found))

			repo := NewRegistrationRepository(db)
			got, err := repo.Exists(ctx, 1, "asha@x.com")
			require.NoError(t, err)
			require.Equal(t, tt.found, got)
		})
	}
}

func TestRegistrationRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("absent row is a no-op", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM registrations`).
			WithArgs(int64(1), "nobody@x.com").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewRegistrationRepository(db)
		require.NoError(t, repo.Delete(ctx, 1, "nobody@x.com"))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRegistrationRepository_EventIDsByEmail(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT event_id`).
		WithArgs("asha@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"event_id"}).AddRow(int64(1)).AddRow(int64(4)))

	repo := NewRegistrationRepository(db)
	ids, err := repo.EventIDsByEmail(ctx, "asha@x.com")
	require.NoError(t, err)
	require.Equal(t, []int64{1, 4}, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}
