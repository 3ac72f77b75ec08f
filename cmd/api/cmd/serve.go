package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"donationtracker/config"
	_ "donationtracker/docs"
	"donationtracker/internal/adapters/auth"
	"donationtracker/internal/adapters/email"
	"donationtracker/internal/adapters/storage"
	deliveryhttp "donationtracker/internal/delivery/http"
	"donationtracker/internal/delivery/http/controllers"
	"donationtracker/internal/delivery/http/middleware"
	"donationtracker/internal/metrics"
	"donationtracker/internal/repository/postgres"
	"donationtracker/internal/services"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var serverPort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server and begin accepting API requests.

The server will:
- Load configuration from environment variables
- Apply pending database migrations when AUTO_MIGRATE is true
- Serve the API, /metrics, /healthz and /swagger/
- Handle graceful shutdown on SIGINT/SIGTERM`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverPort, "port", "", "server port (default: PORT or 8080)")
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if serverPort != "" {
		cfg.Port = serverPort
	}

	logger := config.NewLogger(cfg.Environment)
	metrics.Init()

	if cfg.AutoMigrate {
		if err := postgres.MigrateUp(cfg.DBUrl); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("database migrations applied")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := postgres.Open(ctx, cfg.DBUrl)
	cancel()
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	eventRepo := postgres.NewEventRepository(db)
	donationRepo := postgres.NewDonationRepository(db)
	userRepo := postgres.NewUserRepository(db)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret)
	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)

	mailer, err := email.NewMailer(mailerConfig(cfg, logger))
	if err != nil {
		return fmt.Errorf("mailer: %w", err)
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("email templates: %w", err)
	}
	images, err := storage.NewImageStore(storageConfig(cfg))
	if err != nil {
		return fmt.Errorf("image storage: %w", err)
	}

	authService := services.NewAuthService(userRepo, hasher, jwtManager, jwtManager, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	emailService := services.NewEmailService(mailer, renderer, logger)
	eventService := services.NewEventService(eventRepo, images, cfg.ContextTimeout)
	donationService := services.NewDonationService(donationRepo, eventRepo, emailService, logger, cfg.TimeZone, cfg.ContextTimeout)
	userService := services.NewUserService(userRepo, hasher)

	opts := deliveryhttp.RouterOptions{
		Logger:             logger,
		AuthService:        authService,
		TokenLimiter:       middleware.NewRateLimiter(cfg.TokenRatePerMinute),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Ping:               db.PingContext,
	}
	if local, ok := images.(*storage.LocalStore); ok {
		opts.MediaRoot = local.Root()
		opts.MediaURL = cfg.Storage.MediaURL
	}
	handler := deliveryhttp.NewRouter(deliveryhttp.Controllers{
		Auth:      controllers.NewAuthController(logger, authService),
		Events:    controllers.NewEventController(logger, eventService),
		Donations: controllers.NewDonationController(logger, donationService),
		Users:     controllers.NewUserController(logger, userService),
	}, opts)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", server.Addr, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	return shutdown(server, logger, errCh)
}

func shutdown(server *http.Server, logger *slog.Logger, errCh <-chan error) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-stop:
	}
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func mailerConfig(cfg *config.Config, logger *slog.Logger) email.MailerConfig {
	return email.MailerConfig{
		Logger:      logger,
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.SESRegion,
			AccessKeyID:        cfg.Email.SESAccessKeyID,
			SecretAccessKey:    cfg.Email.SESSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
		SMTP: email.SMTPConfig{
			Host:     cfg.Email.SMTPHost,
			Port:     cfg.Email.SMTPPort,
			User:     cfg.Email.SMTPUser,
			Password: cfg.Email.SMTPPassword,
		},
	}
}

func storageConfig(cfg *config.Config) storage.Config {
	return storage.Config{
		Provider:          cfg.Storage.Provider,
		MediaRoot:         cfg.Storage.MediaRoot,
		MediaURL:          cfg.Storage.MediaURL,
		S3Bucket:          cfg.Storage.S3Bucket,
		S3Region:          cfg.Storage.S3Region,
		S3AccessKeyID:     cfg.Storage.S3AccessKeyID,
		S3SecretAccessKey: cfg.Storage.S3SecretAccessKey,
		S3PublicBaseURL:   cfg.Storage.S3PublicBaseURL,
	}
}
