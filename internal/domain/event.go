package domain

import (
	"context"
	"io"
	"time"
)

// Event is a campus activity with optional attached materials (slides and
// recording). Material binary content lives in the MaterialStore; the row
// keeps filename and MIME type only. Name and type are present together or
// not at all.
// swagger:model Event
type Event struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Date          string    `json:"date"`
	Location      string    `json:"location"`
	Slides        *string   `json:"slides"`
	SlidesType    *string   `json:"slides_type"`
	Recording     *string   `json:"recording"`
	RecordingType *string   `json:"recording_type"`
	CreatedAt     time.Time `json:"created_at"`
}

// EventWithCount is an Event augmented with a live registration count.
// swagger:model EventWithCount
type EventWithCount struct {
	Event
	RegisteredStudentsCount int64 `json:"registeredStudentsCount"`
}

// MaterialSet is a slides or recording attachment supplied inline: filename,
// raw content, and MIME type travel as a unit.
type MaterialSet struct {
	Name string
	Data []byte
	Type string
}

// EventPatch carries the mutable event fields for an update. Nil pointers
// leave the stored value unchanged. Clear* removes the material set and its
// stored content.
type EventPatch struct {
	Title          *string
	Description    *string
	Date           *string
	Location       *string
	Slides         *MaterialSet
	ClearSlides    bool
	Recording      *MaterialSet
	ClearRecording bool
}

// MaterialInfo describes the materials attached to an event, including
// whether the underlying blob is actually present in the store and its size.
// swagger:model MaterialInfo
type MaterialInfo struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Slides           *string `json:"slides"`
	SlidesPresent    bool    `json:"slides_data_present"`
	SlidesLength     int64   `json:"slides_data_length"`
	Recording        *string `json:"recording"`
	RecordingPresent bool    `json:"recording_data_present"`
	RecordingLength  int64   `json:"recording_data_length"`
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	// ListWithCounts returns all events ordered by date descending, each with
	// a live aggregate of its registrations.
	ListWithCounts(ctx context.Context) ([]*EventWithCount, error)
	// Update applies non-nil fields and returns the updated row.
	Update(ctx context.Context, id int64, patch *EventPatch) (*Event, error)
	// SetRecording updates the recording name and MIME type only.
	SetRecording(ctx context.Context, id int64, name, mimeType string) error
	// Delete removes the event and its registrations in one transaction.
	// Deleting an unknown id is a no-op.
	Delete(ctx context.Context, id int64) error
}

// EventService defines event management business logic.
type EventService interface {
	List(ctx context.Context) ([]*EventWithCount, error)
	Create(ctx context.Context, title, description, date, location string) (*Event, error)
	Update(ctx context.Context, id int64, patch *EventPatch) (*Event, error)
	Delete(ctx context.Context, id int64) error
	AttachRecording(ctx context.Context, eventID int64, filename string, content io.Reader, mimeType string) error
	RecordingStream(ctx context.Context, eventID int64) (io.ReadCloser, string, error)
	MaterialInfo(ctx context.Context, eventID int64) (*MaterialInfo, error)
}
