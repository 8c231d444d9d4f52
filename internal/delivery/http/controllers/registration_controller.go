package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"campusconnect/internal/delivery/http/helpers"
	"campusconnect/internal/domain"
)

// RegisterStudentRequest is the request body for POST /events/{id}/register
type RegisterStudentRequest struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	USN        string `json:"usn"`
	Email      string `json:"email"`
}

// Validate implements Validator.
func (r RegisterStudentRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(r.Department) == "" {
		errs = append(errs, "department is required")
	}
	if strings.TrimSpace(r.USN) == "" {
		errs = append(errs, "usn is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, "email is required")
	}
	return errs
}

// UnregisterRequest is the request body for DELETE /events/{id}/unregister
type UnregisterRequest struct {
	Email string `json:"email"`
}

// Validate implements Validator.
func (u UnregisterRequest) Validate() []string {
	if strings.TrimSpace(u.Email) == "" {
		return []string{"email is required"}
	}
	return nil
}

// CheckRegistrationResponse is the response body for GET /events/{id}/check-registration
type CheckRegistrationResponse struct {
	IsRegistered bool `json:"isRegistered"`
}

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{Logger: logger, Service: svc}
}

// ListByEvent godoc
// @Summary List registrations for an event
// @Description Return the event's registrations, newest first.
// @Tags registrations
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {array} domain.Registration
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events/{id}/registrations [get]
func (c *RegistrationController) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	regs, err := c.Service.ListByEvent(r.Context(), eventID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	helpers.WriteJSON(w, http.StatusOK, regs)
}

// Register godoc
// @Summary Register a student for an event
// @Description One registration per (event, email) pair. A duplicate returns 400, an unknown event 404.
// @Tags registrations
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param body body RegisterStudentRequest true "Student data"
// @Success 200 {object} CreatedResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /events/{id}/register [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var req RegisterStudentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	reg, err := c.Service.Register(r.Context(), eventID, req.Name, req.Department, req.USN, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateRegistration):
			helpers.WriteError(w, http.StatusBadRequest, "Student already registered for this event")
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteError(w, http.StatusNotFound, "Event not found")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteError(w, http.StatusInternalServerError, "Database error")
		}
		return
	}
	helpers.WriteJSON(w, http.StatusOK, CreatedResponse{ID: reg.ID, Success: true})
}

// Unregister godoc
// @Summary Remove a student's registration
// @Description Delete the registration for the given email. Succeeds whether or not one existed.
// @Tags registrations
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param body body UnregisterRequest true "Student email"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Router /events/{id}/unregister [delete]
func (c *RegistrationController) Unregister(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var req UnregisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.Unregister(r.Context(), eventID, req.Email); err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// CheckRegistration godoc
// @Summary Check whether an email is registered for an event
// @Tags registrations
// @Produce json
// @Param id path int true "Event ID"
// @Param email query string true "Student email"
// @Success 200 {object} CheckRegistrationResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Router /events/{id}/check-registration [get]
func (c *RegistrationController) CheckRegistration(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	email := r.URL.Query().Get("email")
	if strings.TrimSpace(email) == "" {
		helpers.WriteError(w, http.StatusBadRequest, "email is required")
		return
	}
	registered, err := c.Service.IsRegistered(r.Context(), eventID, email)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, CheckRegistrationResponse{IsRegistered: registered})
}

// ByStudent godoc
// @Summary List event ids a student is registered for
// @Tags registrations
// @Produce json
// @Param email path string true "Student email"
// @Success 200 {array} int
// @Failure 500 {object} helpers.ErrorResponse
// @Router /student/{email}/registrations [get]
func (c *RegistrationController) ByStudent(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	if strings.TrimSpace(email) == "" {
		helpers.WriteError(w, http.StatusBadRequest, "email is required")
		return
	}
	ids, err := c.Service.EventIDsByEmail(r.Context(), email)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	helpers.WriteJSON(w, http.StatusOK, ids)
}
