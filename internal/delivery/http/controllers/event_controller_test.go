package controllers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"campusconnect/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEvents(t *testing.T) {
	svc := &fakeEventService{events: []*domain.EventWithCount{
		{Event: domain.Event{ID: 2, Title: "Hackathon", Date: "2026-10-01"}, RegisteredStudentsCount: 3},
		{Event: domain.Event{ID: 1, Title: "Tech Talk", Date: "2026-09-01"}, RegisteredStudentsCount: 0},
	}}
	ctrl := NewEventController(discardLogger(), svc)

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := httptest.NewRecorder()
	ctrl.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.Equal(t, "Hackathon", got[0]["title"])
	assert.Equal(t, float64(3), got[0]["registeredStudentsCount"])
}

func TestListEventsEmptyIsArray(t *testing.T) {
	ctrl := NewEventController(discardLogger(), &fakeEventService{})

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := httptest.NewRecorder()
	ctrl.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestCreateEvent(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "valid event",
			body:       `{"title":"Tech Talk","description":"GPU programming","date":"2026-09-01","location":"Auditorium"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing title",
			body:       `{"date":"2026-09-01"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing date",
			body:       `{"title":"Tech Talk"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEventService{created: &domain.Event{ID: 42}}
			ctrl := NewEventController(discardLogger(), svc)

			req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			ctrl.Create(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				var resp CreatedResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, int64(42), resp.ID)
				assert.True(t, resp.Success)
			}
		})
	}
}

func TestUpdateEventPartialPatch(t *testing.T) {
	svc := &fakeEventService{updated: &domain.Event{ID: 5}}
	ctrl := NewEventController(discardLogger(), svc)

	req := httptest.NewRequest(http.MethodPut, "/events/5", strings.NewReader(`{"title":"New Title"}`))
	req.SetPathValue("id", "5")
	rec := httptest.NewRecorder()
	ctrl.Update(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.gotPatch)
	require.NotNil(t, svc.gotPatch.Title)
	assert.Equal(t, "New Title", *svc.gotPatch.Title)
	assert.Nil(t, svc.gotPatch.Description)
	assert.Nil(t, svc.gotPatch.Date)
	assert.Nil(t, svc.gotPatch.Location)
	assert.Nil(t, svc.gotPatch.Slides)
	assert.False(t, svc.gotPatch.ClearSlides)
}

func TestUpdateEventInlineSlides(t *testing.T) {
	content := []byte("%PDF-1.4 fake")
	dataURL := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(content)
	body := `{"slides":"talk.pdf","slides_data":"` + dataURL + `","slides_type":"application/pdf"}`

	svc := &fakeEventService{updated: &domain.Event{ID: 5}}
	ctrl := NewEventController(discardLogger(), svc)

	req := httptest.NewRequest(http.MethodPut, "/events/5", strings.NewReader(body))
	req.SetPathValue("id", "5")
	rec := httptest.NewRecorder()
	ctrl.Update(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.gotPatch.Slides)
	assert.Equal(t, "talk.pdf", svc.gotPatch.Slides.Name)
	assert.Equal(t, content, svc.gotPatch.Slides.Data)
	assert.Equal(t, "application/pdf", svc.gotPatch.Slides.Type)
}

func TestUpdateEventClearRecording(t *testing.T) {
	svc := &fakeEventService{updated: &domain.Event{ID: 5}}
	ctrl := NewEventController(discardLogger(), svc)

	req := httptest.NewRequest(http.MethodPut, "/events/5", strings.NewReader(`{"recording":""}`))
	req.SetPathValue("id", "5")
	rec := httptest.NewRecorder()
	ctrl.Update(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.gotPatch.ClearRecording)
	assert.Nil(t, svc.gotPatch.Recording)
}

func TestUpdateEventMaterialWithoutData(t *testing.T) {
	ctrl := NewEventController(discardLogger(), &fakeEventService{})

	req := httptest.NewRequest(http.MethodPut, "/events/5", strings.NewReader(`{"slides":"talk.pdf"}`))
	req.SetPathValue("id", "5")
	rec := httptest.NewRecorder()
	ctrl.Update(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateEventNotFound(t *testing.T) {
	ctrl := NewEventController(discardLogger(), &fakeEventService{err: domain.ErrNotFound})

	req := httptest.NewRequest(http.MethodPut, "/events/99", strings.NewReader(`{"title":"x"}`))
	req.SetPathValue("id", "99")
	rec := httptest.NewRecorder()
	ctrl.Update(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Event not found")
}

func TestDeleteEvent(t *testing.T) {
	svc := &fakeEventService{}
	ctrl := NewEventController(discardLogger(), svc)

	req := httptest.NewRequest(http.MethodDelete, "/events/7", nil)
	req.SetPathValue("id", "7")
	rec := httptest.NewRecorder()
	ctrl.Delete(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), svc.gotID)
	var resp SuccessResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
}

func TestEventIDValidation(t *testing.T) {
	ctrl := NewEventController(discardLogger(), &fakeEventService{})

	for _, bad := range []string{"abc", "-1", "0", ""} {
		req := httptest.NewRequest(http.MethodDelete, "/events/"+bad, nil)
		req.SetPathValue("id", bad)
		rec := httptest.NewRecorder()
		ctrl.Delete(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "id %q", bad)
	}
}
