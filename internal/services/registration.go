package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"campusconnect/internal/domain"
)

const registrationEmailTemplate = "registration_confirmation"

type registrationService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
	mailer           domain.Mailer
	renderer         domain.EmailTemplateRenderer
	logger           *slog.Logger
}

// NewRegistrationService creates a RegistrationService. Mailer and renderer
// may be nil; confirmation emails are then skipped.
func NewRegistrationService(
	eventRepo domain.EventRepository,
	registrationRepo domain.RegistrationRepository,
	mailer domain.Mailer,
	renderer domain.EmailTemplateRenderer,
	logger *slog.Logger,
) domain.RegistrationService {
	return &registrationService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		mailer:           mailer,
		renderer:         renderer,
		logger:           logger,
	}
}

func (s *registrationService) ListByEvent(ctx context.Context, eventID int64) ([]*domain.Registration, error) {
	regs, err := s.registrationRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return regs, nil
}

// Register checks the (event, email) pair first and reports
// ErrDuplicateRegistration before inserting. The storage-level unique
// constraint catches the race where two registrations pass the check
// concurrently, so the insert can surface the same error.
func (s *registrationService) Register(ctx context.Context, eventID int64, name, department, usn, email string) (*domain.Registration, error) {
	email = strings.TrimSpace(email)
	if name == "" || department == "" || usn == "" || email == "" {
		return nil, fmt.Errorf("name, department, usn, and email are required")
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	exists, err := s.registrationRepo.Exists(ctx, eventID, email)
	if err != nil {
		return nil, fmt.Errorf("check registration: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateRegistration
	}

	reg := domain.NewRegistration(eventID, name, department, usn, email, today())
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrDuplicateRegistration) {
			return nil, domain.ErrDuplicateRegistration
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}

	s.sendConfirmation(ctx, reg, event)
	return reg, nil
}

// sendConfirmation is best-effort: a mail failure is logged and never fails
// the registration.
func (s *registrationService) sendConfirmation(ctx context.Context, reg *domain.Registration, event *domain.Event) {
	if s.mailer == nil || s.renderer == nil {
		return
	}
	data := &domain.RegistrationEmailData{
		Name:       reg.Name,
		EventTitle: event.Title,
		EventDate:  event.Date,
		Location:   event.Location,
	}
	subject, html, text, err := s.renderer.Render(registrationEmailTemplate, data)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to render confirmation email", "event_id", event.ID, "err", err)
		return
	}
	if err := s.mailer.Send(reg.Email, subject, html, text); err != nil {
		s.logger.WarnContext(ctx, "failed to send confirmation email", "event_id", event.ID, "err", err)
	}
}

func (s *registrationService) Unregister(ctx context.Context, eventID int64, email string) error {
	if err := s.registrationRepo.Delete(ctx, eventID, strings.TrimSpace(email)); err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}

func (s *registrationService) IsRegistered(ctx context.Context, eventID int64, email string) (bool, error) {
	exists, err := s.registrationRepo.Exists(ctx, eventID, strings.TrimSpace(email))
	if err != nil {
		return false, fmt.Errorf("check registration: %w", err)
	}
	return exists, nil
}

func (s *registrationService) EventIDsByEmail(ctx context.Context, email string) ([]int64, error) {
	ids, err := s.registrationRepo.EventIDsByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("list registrations by email: %w", err)
	}
	return ids, nil
}

// today returns the current date truncated to midnight UTC, matching the
// DATE default the schema applies.
func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
