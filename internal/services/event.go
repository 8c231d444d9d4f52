package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"campusconnect/internal/domain"
)

type eventService struct {
	eventRepo domain.EventRepository
	store     domain.MaterialStore
	logger    *slog.Logger
}

// NewEventService creates an EventService backed by the given repository and material store.
func NewEventService(eventRepo domain.EventRepository, store domain.MaterialStore, logger *slog.Logger) domain.EventService {
	return &eventService{
		eventRepo: eventRepo,
		store:     store,
		logger:    logger,
	}
}

func (s *eventService) List(ctx context.Context) ([]*domain.EventWithCount, error) {
	events, err := s.eventRepo.ListWithCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *eventService) Create(ctx context.Context, title, description, date, location string) (*domain.Event, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if strings.TrimSpace(date) == "" {
		return nil, fmt.Errorf("date is required")
	}

	event := &domain.Event{
		Title:       title,
		Description: description,
		Date:        date,
		Location:    location,
		CreatedAt:   time.Now(),
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// Update applies a partial patch: nil fields keep their stored values. When a
// patch carries a material set, the content is written to the store before
// the row is touched, so a failed write never leaves dangling metadata.
func (s *eventService) Update(ctx context.Context, id int64, patch *domain.EventPatch) (*domain.Event, error) {
	if patch.Slides != nil {
		if err := s.saveMaterial(ctx, id, patch.Slides); err != nil {
			return nil, err
		}
	}
	if patch.Recording != nil {
		if err := s.saveMaterial(ctx, id, patch.Recording); err != nil {
			return nil, err
		}
	}

	event, err := s.eventRepo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) saveMaterial(ctx context.Context, eventID int64, m *domain.MaterialSet) error {
	if m.Name == "" || m.Type == "" {
		return fmt.Errorf("material name and type are required together")
	}
	key := domain.MaterialKey(eventID, m.Name)
	if err := s.store.Save(ctx, key, bytes.NewReader(m.Data)); err != nil {
		return fmt.Errorf("store material %q: %w", key, err)
	}
	return nil
}

// Delete is idempotent: a missing id still reports success. Stored materials
// are removed best-effort after the rows are gone.
func (s *eventService) Delete(ctx context.Context, id int64) error {
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if err := s.store.RemoveAll(ctx, domain.MaterialPrefix(id)); err != nil {
		s.logger.WarnContext(ctx, "failed to remove event materials", "event_id", id, "err", err)
	}
	return nil
}

func (s *eventService) AttachRecording(ctx context.Context, eventID int64, filename string, content io.Reader, mimeType string) error {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}

	key := domain.MaterialKey(eventID, filename)
	if err := s.store.Save(ctx, key, content); err != nil {
		return fmt.Errorf("store recording %q: %w", key, err)
	}
	if err := s.eventRepo.SetRecording(ctx, eventID, filename, mimeType); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("set recording metadata: %w", err)
	}
	return nil
}

// RecordingStream misses with ErrNotFound when the event is absent, when no
// recording is attached, or when the blob itself is gone from the store.
func (s *eventService) RecordingStream(ctx context.Context, eventID int64) (io.ReadCloser, string, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", fmt.Errorf("get event: %w", err)
	}
	if event.Recording == nil || event.RecordingType == nil {
		return nil, "", domain.ErrNotFound
	}

	rc, err := s.store.Open(ctx, domain.MaterialKey(eventID, *event.Recording))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", fmt.Errorf("open recording: %w", err)
	}
	return rc, *event.RecordingType, nil
}

func (s *eventService) MaterialInfo(ctx context.Context, eventID int64) (*domain.MaterialInfo, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	info := &domain.MaterialInfo{
		ID:        event.ID,
		Title:     event.Title,
		Slides:    event.Slides,
		Recording: event.Recording,
	}
	if event.Slides != nil {
		exists, size, err := s.store.Stat(ctx, domain.MaterialKey(eventID, *event.Slides))
		if err != nil {
			return nil, fmt.Errorf("stat slides: %w", err)
		}
		info.SlidesPresent = exists
		info.SlidesLength = size
	}
	if event.Recording != nil {
		exists, size, err := s.store.Stat(ctx, domain.MaterialKey(eventID, *event.Recording))
		if err != nil {
			return nil, fmt.Errorf("stat recording: %w", err)
		}
		info.RecordingPresent = exists
		info.RecordingLength = size
	}
	return info, nil
}
