package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"campusconnect/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, date, location, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, e.Title, e.Description, e.Date, e.Location, e.CreatedAt).
		Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := `
		SELECT id, title, description, date, location, slides, slides_type, recording, recording_type, created_at
		FROM events
		WHERE id = $1
	`
	e := &domain.Event{}
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location, &e.Slides, &e.SlidesType, &e.Recording, &e.RecordingType, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListWithCounts(ctx context.Context) ([]*domain.EventWithCount, error) {
	// The count is a live aggregate, not a stored counter.
	query := `
		SELECT e.id, e.title, e.description, e.date, e.location,
		       e.slides, e.slides_type, e.recording, e.recording_type, e.created_at,
		       COUNT(s.id) AS registered_count
		FROM events e
		LEFT JOIN registrations s ON e.id = s.event_id
		GROUP BY e.id
		ORDER BY e.date DESC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.EventWithCount
	for rows.Next() {
		e := &domain.EventWithCount{}
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location,
			&e.Slides, &e.SlidesType, &e.Recording, &e.RecordingType, &e.CreatedAt,
			&e.RegisteredStudentsCount); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if events == nil {
		events = []*domain.EventWithCount{}
	}
	return events, nil
}

// Update applies the non-nil patch fields in a single UPDATE. Material sets
// touch name and type together; Clear* nulls both.
func (r *eventRepository) Update(ctx context.Context, id int64, patch *domain.EventPatch) (*domain.Event, error) {
	sets := []string{}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if patch.Title != nil {
		sets = append(sets, "title = "+arg(*patch.Title))
	}
	if patch.Description != nil {
		sets = append(sets, "description = "+arg(*patch.Description))
	}
	if patch.Date != nil {
		sets = append(sets, "date = "+arg(*patch.Date))
	}
	if patch.Location != nil {
		sets = append(sets, "location = "+arg(*patch.Location))
	}
	if patch.Slides != nil {
		sets = append(sets, "slides = "+arg(patch.Slides.Name), "slides_type = "+arg(patch.Slides.Type))
	} else if patch.ClearSlides {
		sets = append(sets, "slides = NULL", "slides_type = NULL")
	}
	if patch.Recording != nil {
		sets = append(sets, "recording = "+arg(patch.Recording.Name), "recording_type = "+arg(patch.Recording.Type))
	} else if patch.ClearRecording {
		sets = append(sets, "recording = NULL", "recording_type = NULL")
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE id = %s
		RETURNING id, title, description, date, location, slides, slides_type, recording, recording_type, created_at
	`, strings.Join(sets, ", "), arg(id))

	e := &domain.Event{}
	err := r.DB.QueryRowContext(ctx, query, args...).
		Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location, &e.Slides, &e.SlidesType, &e.Recording, &e.RecordingType, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) SetRecording(ctx context.Context, id int64, name, mimeType string) error {
	query := `
		UPDATE events
		SET recording = $2, recording_type = $3
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, id, name, mimeType)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the registrations and the event inside one transaction so a
// crash cannot leave a half-applied cascade. The foreign key also cascades;
// the explicit delete keeps the ordering observable and test-friendly.
func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM registrations WHERE event_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit()
}
