package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/lberndt/gatehouse/internal/register/http"
	"github.com/lberndt/gatehouse/internal/register/service"
	"github.com/lberndt/gatehouse/internal/register/store"
	"github.com/lberndt/gatehouse/internal/register/store/drivers/sqlite"
	"github.com/lberndt/gatehouse/pkg/signedtoken"
	"github.com/lberndt/gatehouse/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the registration service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db    store.Store
	codec *signedtoken.Codec

	// Services
	sessionService *service.SessionService
	successService *service.SuccessService
	inviteService  *service.InviteService
	adminService   *service.AdminService
	registration   *service.RegistrationFlow

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "gatehouse",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	// Load or generate the token signing secret, once per database.
	secret, err := EnsureSecretKey(context.Background(), app.db)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.codec = signedtoken.NewCodec(secret)

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("gatehouse starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down gatehouse...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("gatehouse stopped")
	return nil
}

// initDatabase opens the SQLite store and applies migrations.
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(DatabaseDSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// DatabaseDSN builds the SQLite DSN for a database file path.
func DatabaseDSN(file string) string {
	return fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", file)
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.sessionService = &service.SessionService{Codec: app.codec}
	app.successService = &service.SuccessService{Codec: app.codec}
	app.inviteService = &service.InviteService{Store: app.db}
	app.adminService = &service.AdminService{Store: app.db}

	var accounts service.AccountCreator = &service.CommandAccountCreator{
		Template: app.cfg.RegisterCommand,
	}
	if app.cfg.TestMode {
		accounts = service.LogOnlyAccountCreator{}
		app.logger.Warn("test mode enabled: downstream account creation is disabled")
	}

	app.registration = &service.RegistrationFlow{
		Store:    app.db,
		Accounts: accounts,
		Success:  app.successService,
	}
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	router.Sessions = app.sessionService
	router.Success = app.successService
	router.Invites = app.inviteService
	router.Admins = app.adminService
	router.Registration = app.registration
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
