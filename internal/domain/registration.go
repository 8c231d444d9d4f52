package domain

import (
	"context"
	"time"
)

// Registration is a student's enrollment record for one event. The email is
// free text; nothing ties it to an Account row.
// swagger:model Registration
type Registration struct {
	ID             int64     `json:"id"`
	EventID        int64     `json:"event_id"`
	Name           string    `json:"name"`
	Department     string    `json:"department"`
	USN            string    `json:"usn"`
	Email          string    `json:"email"`
	RegisteredDate time.Time `json:"registered_date"`
}

// NewRegistration returns a new Registration. ID is set by the repository on create.
func NewRegistration(eventID int64, name, department, usn, email string, registeredDate time.Time) *Registration {
	return &Registration{
		EventID:        eventID,
		Name:           name,
		Department:     department,
		USN:            usn,
		Email:          email,
		RegisteredDate: registeredDate,
	}
}

// RegistrationRepository defines the interface for registration storage.
// (event_id, email) is unique at the storage layer; Create returns
// ErrDuplicateRegistration when the constraint fires.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *Registration) error
	ListByEventID(ctx context.Context, eventID int64) ([]*Registration, error)
	Exists(ctx context.Context, eventID int64, email string) (bool, error)
	// Delete removes the (eventID, email) row if present; absent rows are a no-op.
	Delete(ctx context.Context, eventID int64, email string) error
	EventIDsByEmail(ctx context.Context, email string) ([]int64, error)
}

// RegistrationService defines registration management business logic.
type RegistrationService interface {
	ListByEvent(ctx context.Context, eventID int64) ([]*Registration, error)
	Register(ctx context.Context, eventID int64, name, department, usn, email string) (*Registration, error)
	Unregister(ctx context.Context, eventID int64, email string) error
	IsRegistered(ctx context.Context, eventID int64, email string) (bool, error)
	EventIDsByEmail(ctx context.Context, email string) ([]int64, error)
}
