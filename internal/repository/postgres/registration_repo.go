package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"campusconnect/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{DB: db}
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	query := `
		INSERT INTO registrations (event_id, name, department, usn, email, registered_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, reg.EventID, reg.Name, reg.Department, reg.USN, reg.Email, reg.RegisteredDate).
		Scan(&reg.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			// Two concurrent registrations for the same (event, email) can
			// both pass the existence check; the constraint settles the race.
			return domain.ErrDuplicateRegistration
		}
		return err
	}
	return nil
}

func (r *registrationRepository) ListByEventID(ctx context.Context, eventID int64) ([]*domain.Registration, error) {
	query := `
		SELECT id, event_id, name, department, usn, email, registered_date
		FROM registrations
		WHERE event_id = $1
		ORDER BY registered_date DESC, id DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []*domain.Registration
	for rows.Next() {
		reg := &domain.Registration{}
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.Name, &reg.Department, &reg.USN, &reg.Email, &reg.RegisteredDate); err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	return regs, nil
}

func (r *registrationRepository) Exists(ctx context.Context, eventID int64, email string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM registrations WHERE event_id = $1 AND email = $2
		)
	`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, eventID, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *registrationRepository) Delete(ctx context.Context, eventID int64, email string) error {
	query := `
		DELETE FROM registrations
		WHERE event_id = $1 AND email = $2
	`
	_, err := r.DB.ExecContext(ctx, query, eventID, email)
	return err
}

func (r *registrationRepository) EventIDsByEmail(ctx context.Context, email string) ([]int64, error) {
	query := `
		SELECT event_id
		FROM registrations
		WHERE email = $1
	`
	rows, err := r.DB.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}
