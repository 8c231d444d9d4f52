package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"campusconnect/internal/delivery/http/controllers"
	"campusconnect/internal/delivery/http/middleware"
	"campusconnect/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(
	logger *slog.Logger,
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	registrationController *controllers.RegistrationController,
	materialController *controllers.MaterialController,
	verifier domain.TokenVerifier,
) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /login", authController.Login)
	mux.HandleFunc("POST /register", authController.Register)
	mux.HandleFunc("GET /auth/me", requireAuth(authController.Me))

	// Events
	mux.HandleFunc("GET /events", eventController.List)
	mux.HandleFunc("POST /events", eventController.Create)
	mux.HandleFunc("PUT /events/{id}", eventController.Update)
	mux.HandleFunc("DELETE /events/{id}", eventController.Delete)

	// Registrations
	mux.HandleFunc("GET /events/{id}/registrations", registrationController.ListByEvent)
	mux.HandleFunc("POST /events/{id}/register", registrationController.Register)
	mux.HandleFunc("DELETE /events/{id}/unregister", registrationController.Unregister)
	mux.HandleFunc("GET /events/{id}/check-registration", registrationController.CheckRegistration)
	mux.HandleFunc("GET /student/{email}/registrations", registrationController.ByStudent)

	// Materials
	mux.HandleFunc("POST /events/{id}/upload-recording", materialController.UploadRecording)
	mux.HandleFunc("GET /events/{id}/recording", materialController.DownloadRecording)
	mux.HandleFunc("GET /events/{id}/files", materialController.Files)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
