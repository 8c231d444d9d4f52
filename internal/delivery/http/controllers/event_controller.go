package controllers

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"campusconnect/internal/delivery/http/helpers"
	"campusconnect/internal/domain"
)

// CreateEventRequest is the request body for POST /events
type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(c.Date) == "" {
		errs = append(errs, "date is required")
	}
	return errs
}

// CreatedResponse is the response body for creations that return a new row id.
type CreatedResponse struct {
	ID      int64 `json:"id"`
	Success bool  `json:"success"`
}

// SuccessResponse is the response body for mutations with no payload.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// UpdateEventRequest is the request body for PUT /events/{id}. Absent fields
// keep their stored values. Materials arrive inline: filename in slides or
// recording, a base64 data URL in the matching _data field, MIME type in
// _type. An empty-string filename removes the material.
type UpdateEventRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Date          *string `json:"date"`
	Location      *string `json:"location"`
	Slides        *string `json:"slides"`
	SlidesData    *string `json:"slides_data"`
	SlidesType    *string `json:"slides_type"`
	Recording     *string `json:"recording"`
	RecordingData *string `json:"recording_data"`
	RecordingType *string `json:"recording_type"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	if u.Date != nil && strings.TrimSpace(*u.Date) == "" {
		errs = append(errs, "date cannot be empty")
	}
	errs = append(errs, validateMaterial("slides", u.Slides, u.SlidesData, u.SlidesType)...)
	errs = append(errs, validateMaterial("recording", u.Recording, u.RecordingData, u.RecordingType)...)
	return errs
}

func validateMaterial(field string, name, data, mimeType *string) []string {
	if name == nil || *name == "" {
		return nil
	}
	var errs []string
	if data == nil || *data == "" {
		errs = append(errs, field+"_data is required when "+field+" is set")
	}
	if mimeType == nil || *mimeType == "" {
		errs = append(errs, field+"_type is required when "+field+" is set")
	}
	return errs
}

// decodeMaterialData decodes an inline material payload. Accepts both a bare
// base64 string and a data URL ("data:<mime>;base64,<payload>").
func decodeMaterialData(s string) ([]byte, error) {
	if i := strings.Index(s, ","); i >= 0 && strings.HasPrefix(s, "data:") {
		s = s[i+1:]
	}
	return base64.StdEncoding.DecodeString(s)
}

// toPatch converts the request into a domain patch, decoding inline material
// payloads. Validate must have passed first.
func (u UpdateEventRequest) toPatch() (*domain.EventPatch, error) {
	patch := &domain.EventPatch{
		Title:       u.Title,
		Description: u.Description,
		Date:        u.Date,
		Location:    u.Location,
	}
	if u.Slides != nil {
		if *u.Slides == "" {
			patch.ClearSlides = true
		} else {
			data, err := decodeMaterialData(*u.SlidesData)
			if err != nil {
				return nil, errors.New("slides_data is not valid base64")
			}
			patch.Slides = &domain.MaterialSet{Name: *u.Slides, Data: data, Type: *u.SlidesType}
		}
	}
	if u.Recording != nil {
		if *u.Recording == "" {
			patch.ClearRecording = true
		} else {
			data, err := decodeMaterialData(*u.RecordingData)
			if err != nil {
				return nil, errors.New("recording_data is not valid base64")
			}
			patch.Recording = &domain.MaterialSet{Name: *u.Recording, Data: data, Type: *u.RecordingType}
		}
	}
	return patch, nil
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{Logger: logger, Service: svc}
}

// parseID reads a positive integer path value. On failure it writes a 400
// response and returns false.
func parseID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		helpers.WriteError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// List godoc
// @Summary List all events
// @Description Return all events ordered by date descending, each with its live registration count.
// @Tags events
// @Produce json
// @Success 200 {array} domain.EventWithCount
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events [get]
func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.List(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if events == nil {
		events = []*domain.EventWithCount{}
	}
	helpers.WriteJSON(w, http.StatusOK, events)
}

// Create godoc
// @Summary Create an event
// @Tags events
// @Accept json
// @Produce json
// @Param body body CreateEventRequest true "Event data"
// @Success 200 {object} CreatedResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.Create(r.Context(), req.Title, req.Description, req.Date, req.Location)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, CreatedResponse{ID: event.ID, Success: true})
}

// Update godoc
// @Summary Update an event
// @Description Apply a partial update. Absent fields are kept; materials travel inline as base64.
// @Tags events
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param body body UpdateEventRequest true "Fields to change"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /events/{id} [put]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		helpers.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := c.Service.Update(r.Context(), id, patch); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteError(w, http.StatusNotFound, "Event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// Delete godoc
// @Summary Delete an event
// @Description Remove the event, its registrations, and its stored materials. Deleting an unknown id succeeds.
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events/{id} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
