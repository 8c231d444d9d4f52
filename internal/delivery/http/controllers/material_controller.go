package controllers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"campusconnect/internal/delivery/http/helpers"
	"campusconnect/internal/domain"
)

type MaterialController struct {
	Logger         *slog.Logger
	Service        domain.EventService
	MaxUploadBytes int64
}

func NewMaterialController(logger *slog.Logger, svc domain.EventService, maxUploadBytes int64) *MaterialController {
	return &MaterialController{Logger: logger, Service: svc, MaxUploadBytes: maxUploadBytes}
}

// UploadRecording godoc
// @Summary Upload an event recording
// @Description Accept a multipart upload in the "recording" field and attach it to the event, replacing any prior recording.
// @Tags materials
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Event ID"
// @Param recording formData file true "Recording file"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 413 {object} helpers.ErrorResponse
// @Router /events/{id}/upload-recording [post]
func (c *MaterialController) UploadRecording(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, c.MaxUploadBytes)

	file, header, err := r.FormFile("recording")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			helpers.WriteError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		helpers.WriteError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	err = c.Service.AttachRecording(r.Context(), eventID, header.Filename, file, mimeType)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteError(w, http.StatusNotFound, "Event not found")
		case errors.Is(err, domain.ErrPayloadTooLarge):
			helpers.WriteError(w, http.StatusRequestEntityTooLarge, "File too large")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteError(w, http.StatusInternalServerError, "Database error")
		}
		return
	}
	helpers.WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// DownloadRecording godoc
// @Summary Download an event recording
// @Description Stream the stored recording with its original MIME type.
// @Tags materials
// @Produce octet-stream
// @Param id path int true "Event ID"
// @Success 200 {file} binary
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /events/{id}/recording [get]
func (c *MaterialController) DownloadRecording(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	stream, mimeType, err := c.Service.RecordingStream(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteError(w, http.StatusNotFound, "Recording not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", mimeType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, stream); err != nil {
		c.Logger.WarnContext(r.Context(), "recording stream interrupted", "event_id", eventID, "err", err)
	}
}

// Files godoc
// @Summary Inspect an event's stored materials
// @Description Return material metadata plus whether each blob is actually present in the store.
// @Tags materials
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} domain.MaterialInfo
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /events/{id}/files [get]
func (c *MaterialController) Files(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	info, err := c.Service.MaterialInfo(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteError(w, http.StatusNotFound, "Event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, info)
}
