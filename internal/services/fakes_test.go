package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"campusconnect/internal/domain"
)

// fakeAccountRepo is an in-memory AccountRepository for tests.
type fakeAccountRepo struct {
	byEmail map[string]*domain.Account
	nextID  int64
	err     error // if set, every method returns this error
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byEmail: make(map[string]*domain.Account), nextID: 1}
}

func (f *fakeAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byEmail[a.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	a.ID = f.nextID
	f.nextID++
	f.byEmail[a.Email] = a
	return nil
}

func (f *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	if a, ok := f.byEmail[email]; ok {
		return a, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAccountRepo) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, a := range f.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAccountRepo) UpdatePassword(ctx context.Context, email, hash string) error {
	if f.err != nil {
		return f.err
	}
	a, ok := f.byEmail[email]
	if !ok {
		return domain.ErrNotFound
	}
	a.PasswordHash = hash
	return nil
}

// fakeHasher hashes by prefixing; good enough to verify wiring without bcrypt cost.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "h:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "h:"+password {
		return fmt.Errorf("mismatch")
	}
	return nil
}

// fakeIssuer issues predictable tokens.
type fakeIssuer struct{}

func (fakeIssuer) Issue(accountID int64, email, role string, _ time.Duration) (string, error) {
	return fmt.Sprintf("token-%d-%s", accountID, role), nil
}

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID      map[int64]*domain.Event
	regs      *fakeRegistrationRepo // for live counts; may be nil
	nextID    int64
	createErr error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[int64]*domain.Event), nextID: 1}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	e.ID = f.nextID
	f.nextID++
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) ListWithCounts(ctx context.Context) ([]*domain.EventWithCount, error) {
	out := []*domain.EventWithCount{}
	for _, e := range f.byID {
		ec := &domain.EventWithCount{Event: *e}
		if f.regs != nil {
			for _, r := range f.regs.rows {
				if r.EventID == e.ID {
					ec.RegisteredStudentsCount++
				}
			}
		}
		out = append(out, ec)
	}
	// date DESC to match the repo ordering
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, id int64, patch *domain.EventPatch) (*domain.Event, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Title != nil {
		e.Title = *patch.Title
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	if patch.Date != nil {
		e.Date = *patch.Date
	}
	if patch.Location != nil {
		e.Location = *patch.Location
	}
	if patch.Slides != nil {
		e.Slides, e.SlidesType = &patch.Slides.Name, &patch.Slides.Type
	} else if patch.ClearSlides {
		e.Slides, e.SlidesType = nil, nil
	}
	if patch.Recording != nil {
		e.Recording, e.RecordingType = &patch.Recording.Name, &patch.Recording.Type
	} else if patch.ClearRecording {
		e.Recording, e.RecordingType = nil, nil
	}
	return e, nil
}

func (f *fakeEventRepo) SetRecording(ctx context.Context, id int64, name, mimeType string) error {
	e, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.Recording, e.RecordingType = &name, &mimeType
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id int64) error {
	delete(f.byID, id)
	if f.regs != nil {
		kept := f.regs.rows[:0]
		for _, r := range f.regs.rows {
			if r.EventID != id {
				kept = append(kept, r)
			}
		}
		f.regs.rows = kept
	}
	return nil
}

// fakeRegistrationRepo is an in-memory RegistrationRepository for tests.
type fakeRegistrationRepo struct {
	rows   []*domain.Registration
	nextID int64
	err    error
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{nextID: 1}
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	if f.err != nil {
		return f.err
	}
	for _, r := range f.rows {
		if r.EventID == reg.EventID && r.Email == reg.Email {
			return domain.ErrDuplicateRegistration
		}
	}
	reg.ID = f.nextID
	f.nextID++
	f.rows = append(f.rows, reg)
	return nil
}

func (f *fakeRegistrationRepo) ListByEventID(ctx context.Context, eventID int64) ([]*domain.Registration, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []*domain.Registration{}
	for _, r := range f.rows {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RegisteredDate.Equal(out[j].RegisteredDate) {
			return out[i].RegisteredDate.After(out[j].RegisteredDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (f *fakeRegistrationRepo) Exists(ctx context.Context, eventID int64, email string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, r := range f.rows {
		if r.EventID == eventID && r.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRegistrationRepo) Delete(ctx context.Context, eventID int64, email string) error {
	if f.err != nil {
		return f.err
	}
	kept := f.rows[:0]
	for _, r := range f.rows {
		if !(r.EventID == eventID && r.Email == email) {
			kept = append(kept, r)
		}
	}
	f.rows = kept
	return nil
}

func (f *fakeRegistrationRepo) EventIDsByEmail(ctx context.Context, email string) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	ids := []int64{}
	for _, r := range f.rows {
		if r.Email == email {
			ids = append(ids, r.EventID)
		}
	}
	return ids, nil
}

// fakeStore is an in-memory MaterialStore.
type fakeStore struct {
	blobs   map[string][]byte
	saveErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{blobs: make(map[string][]byte)}
}

func (f *fakeStore) Save(ctx context.Context, key string, content io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	b, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	f.blobs[key] = b
	return nil
}

func (f *fakeStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	b, ok := f.blobs[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (f *fakeStore) Stat(ctx context.Context, key string) (bool, int64, error) {
	b, ok := f.blobs[key]
	if !ok {
		return false, 0, nil
	}
	return true, int64(len(b)), nil
}

func (f *fakeStore) RemoveAll(ctx context.Context, prefix string) error {
	for k := range f.blobs {
		if strings.HasPrefix(k, prefix) {
			delete(f.blobs, k)
		}
	}
	return nil
}

// fakeMailer records sent emails.
type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) Send(to, subject, html, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

// fakeRenderer returns canned bodies.
type fakeRenderer struct{}

func (fakeRenderer) Render(name string, data interface{}) (string, string, string, error) {
	return "You're registered", "<p>ok</p>", "ok", nil
}
