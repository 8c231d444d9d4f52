package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campusconnect/config"
	"campusconnect/internal/adapters/auth"
	"campusconnect/internal/adapters/email"
	"campusconnect/internal/adapters/storage"
	deliveryhttp "campusconnect/internal/delivery/http"
	"campusconnect/internal/delivery/http/controllers"
	"campusconnect/internal/delivery/http/middleware"
	"campusconnect/internal/domain"
	"campusconnect/internal/repository/postgres"
	"campusconnect/internal/services"
)

// @title CampusConnect API
// @version 1.0
// @description Campus events backend: accounts, events, registrations, and event materials.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := config.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("migrations applied")

	store, err := newMaterialStore(cfg)
	if err != nil {
		return fmt.Errorf("init material store: %w", err)
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.MailProvider,
		FromAddress: cfg.MailFrom,
		FromName:    cfg.MailFromName,
		SES: email.SESConfig{
			Region:          cfg.SES.Region,
			AccessKeyID:     cfg.SES.AccessKeyID,
			SecretAccessKey: cfg.SES.SecretAccessKey,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("init mailer: %w", err)
	}

	accountRepo := postgres.NewAccountRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)

	hasher := auth.NewBcryptHasher(auth.DefaultBcryptCost)
	issuer, verifier := auth.NewJWTCodec(cfg.JWTSecret)

	authService := services.NewAuthService(accountRepo, hasher, issuer, time.Duration(cfg.JWTExpiryHr)*time.Hour)
	eventService := services.NewEventService(eventRepo, store, logger)
	registrationService := services.NewRegistrationService(eventRepo, registrationRepo, mailer, email.NewTemplateRenderer(), logger)

	if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("ensure admin account: %w", err)
	}
	logger.Info("admin account ensured", "email", cfg.AdminEmail)

	mux := deliveryhttp.NewRouter(
		logger,
		controllers.NewAuthController(logger, authService),
		controllers.NewEventController(logger, eventService),
		controllers.NewRegistrationController(logger, registrationService),
		controllers.NewMaterialController(logger, eventService, cfg.MaxUploadBytes),
		verifier,
	)
	handler := middleware.CORS(cfg.CORSOrigins, middleware.Logging(logger, mux))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newMaterialStore(cfg *config.Config) (domain.MaterialStore, error) {
	switch cfg.StorageProvider {
	case "s3":
		return storage.NewS3Store(storage.S3Config{
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Endpoint:        cfg.S3.Endpoint,
		})
	default:
		return storage.NewFilesystemStore(cfg.UploadDir)
	}
}
