package controllers

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"campusconnect/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAuthService implements domain.AuthService for controller tests.
type fakeAuthService struct {
	account *domain.Account
	token   string
	err     error
}

func (f *fakeAuthService) Authenticate(_ context.Context, _, _ string) (*domain.Account, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return f.account, f.token, nil
}

func (f *fakeAuthService) Register(_ context.Context, email, _, _, _, _ string) (*domain.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Account{ID: 1, Email: email, Role: domain.RoleStudent}, nil
}

func (f *fakeAuthService) GetByID(_ context.Context, _ int64) (*domain.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.account, nil
}

func (f *fakeAuthService) EnsureAdmin(_ context.Context, _, _ string) error {
	return f.err
}

// fakeEventService implements domain.EventService for controller tests.
type fakeEventService struct {
	events    []*domain.EventWithCount
	created   *domain.Event
	updated   *domain.Event
	info      *domain.MaterialInfo
	recording []byte
	mimeType  string
	err       error

	gotPatch    *domain.EventPatch
	gotID       int64
	gotFilename string
	gotContent  []byte
}

func (f *fakeEventService) List(_ context.Context) ([]*domain.EventWithCount, error) {
	return f.events, f.err
}

func (f *fakeEventService) Create(_ context.Context, title, description, date, location string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.created != nil {
		return f.created, nil
	}
	return &domain.Event{ID: 1, Title: title, Description: description, Date: date, Location: location}, nil
}

func (f *fakeEventService) Update(_ context.Context, id int64, patch *domain.EventPatch) (*domain.Event, error) {
	f.gotID = id
	f.gotPatch = patch
	if f.err != nil {
		return nil, f.err
	}
	return f.updated, nil
}

func (f *fakeEventService) Delete(_ context.Context, id int64) error {
	f.gotID = id
	return f.err
}

func (f *fakeEventService) AttachRecording(_ context.Context, eventID int64, filename string, content io.Reader, mimeType string) error {
	f.gotID = eventID
	f.gotFilename = filename
	f.mimeType = mimeType
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	f.gotContent = data
	return f.err
}

func (f *fakeEventService) RecordingStream(_ context.Context, eventID int64) (io.ReadCloser, string, error) {
	f.gotID = eventID
	if f.err != nil {
		return nil, "", f.err
	}
	return io.NopCloser(bytes.NewReader(f.recording)), f.mimeType, nil
}

func (f *fakeEventService) MaterialInfo(_ context.Context, eventID int64) (*domain.MaterialInfo, error) {
	f.gotID = eventID
	if f.err != nil {
		return nil, f.err
	}
	return f.info, nil
}

// fakeRegistrationService implements domain.RegistrationService for controller tests.
type fakeRegistrationService struct {
	regs       []*domain.Registration
	created    *domain.Registration
	registered bool
	eventIDs   []int64
	err        error

	gotEventID int64
	gotEmail   string
}

func (f *fakeRegistrationService) ListByEvent(_ context.Context, eventID int64) ([]*domain.Registration, error) {
	f.gotEventID = eventID
	return f.regs, f.err
}

func (f *fakeRegistrationService) Register(_ context.Context, eventID int64, name, department, usn, email string) (*domain.Registration, error) {
	f.gotEventID = eventID
	f.gotEmail = email
	if f.err != nil {
		return nil, f.err
	}
	if f.created != nil {
		return f.created, nil
	}
	return &domain.Registration{ID: 1, EventID: eventID, Name: name, Department: department, USN: usn, Email: email}, nil
}

func (f *fakeRegistrationService) Unregister(_ context.Context, eventID int64, email string) error {
	f.gotEventID = eventID
	f.gotEmail = email
	return f.err
}

func (f *fakeRegistrationService) IsRegistered(_ context.Context, eventID int64, email string) (bool, error) {
	f.gotEventID = eventID
	f.gotEmail = email
	return f.registered, f.err
}

func (f *fakeRegistrationService) EventIDsByEmail(_ context.Context, email string) ([]int64, error) {
	f.gotEmail = email
	return f.eventIDs, f.err
}
