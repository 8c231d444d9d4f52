package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"campusconnect/internal/delivery/http/helpers"
	"campusconnect/internal/delivery/http/middleware"
	"campusconnect/internal/domain"
)

// LoginRequest is the request body for POST /login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.Email) == "" {
		errs = append(errs, "email is required")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// AccountResponse is the public view of an account in API responses.
type AccountResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResponse is the response body for POST /login
type LoginResponse struct {
	Success bool            `json:"success"`
	User    AccountResponse `json:"user"`
	Token   string          `json:"token"`
}

// RegisterRequest is the request body for POST /register
type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Department string `json:"department"`
	USN        string `json:"usn"`
}

// Validate implements Validator.
func (r RegisterRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, "email is required")
	}
	if r.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// RegisterResponse is the response body for POST /register
type RegisterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{Logger: logger, Service: svc}
}

// Login godoc
// @Summary Log in
// @Description Authenticate with email and password. Returns the account and a signed token.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Router /login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	account, token, err := c.Service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			helpers.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, LoginResponse{
		Success: true,
		User:    AccountResponse{ID: account.ID, Email: account.Email, Role: account.Role},
		Token:   token,
	})
}

// Register godoc
// @Summary Register a student account
// @Description Create a student account. The role is always student; admin accounts are seeded, never self-registered.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 200 {object} RegisterResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Router /register [post]
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	_, err := c.Service.Register(r.Context(), req.Email, req.Password, req.Name, req.Department, req.USN)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			helpers.WriteError(w, http.StatusBadRequest, "Email already exists")
			return
		}
		if strings.Contains(err.Error(), "invalid email") || strings.Contains(err.Error(), "password must be") {
			helpers.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Registration failed")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, RegisterResponse{Success: true, Message: "Registration successful"})
}

// Me godoc
// @Summary Current identity
// @Description Return the account for the Bearer token on the request.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AccountResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Router /auth/me [get]
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	account, err := c.Service.GetByID(r.Context(), identity.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteError(w, http.StatusUnauthorized, "account no longer exists")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, AccountResponse{ID: account.ID, Email: account.Email, Role: account.Role})
}
