package app

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

	httpapi "github.com/aussiebroadwan/billybingo/internal/bingo/http"
	"github.com/aussiebroadwan/billybingo/internal/bingo/service"
	"github.com/aussiebroadwan/billybingo/internal/bingo/store"
	"github.com/aussiebroadwan/billybingo/internal/bingo/store/drivers/mongo"
	"github.com/aussiebroadwan/billybingo/internal/bingo/store/drivers/sqlite"
	"github.com/aussiebroadwan/billybingo/pkg/cryptox"
	"github.com/aussiebroadwan/billybingo/pkg/httpx"
	"github.com/aussiebroadwan/billybingo/pkg/jwtx"
	"github.com/aussiebroadwan/billybingo/pkg/setlistfm"
	"github.com/aussiebroadwan/billybingo/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v1.0.0"

	serviceName = "billybingo-api"
)

// Application encapsulates the API with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	signer   jwtx.Signer
	verifier *jwtx.HS256Verifier

	userService    *service.UserService
	cardService    *service.CardService
	setlistService *service.SetlistService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: serviceName,
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initTokens(); err != nil {
		return nil, err
	}
	if err := app.initDatabase(context.Background()); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("billy bingo api starting",
		"port", app.cfg.Port,
		"base_path", app.cfg.BasePath,
		"store", app.cfg.StoreDriver,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// Shutdown drains in-flight requests and closes the store.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down billy bingo api...")

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

	app.logger.Info("billy bingo api stopped")
	return nil
}

// Handler exposes the fully wired HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// initTokens builds the HS256 signer and verifier. Outside dev and test a
// configured secret is mandatory; Validate has already checked that.
func (app *Application) initTokens() error {
	secret := app.cfg.JWTSecret
	if secret == "" {
		generated, err := cryptox.GenerateSecret(jwtx.MinSecretLen)
		if err != nil {
			return fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		secret = generated
		app.logger.Warn("JWT_SECRET not set, using an ephemeral secret; tokens will not survive a restart")
	}

	signer, err := jwtx.NewSignerHS256([]byte(secret))
	if err != nil {
		return fmt.Errorf("failed to initialize token signer: %w", err)
	}
	app.signer = signer
	app.verifier = jwtx.NewVerifierHS256([]byte(secret), 0)
	return nil
}

// initDatabase opens the configured store and applies migrations.
func (app *Application) initDatabase(ctx context.Context) error {
	var (
		db  store.Store
		err error
	)
	switch app.cfg.StoreDriver {
	case DriverMongo:
		db, err = mongo.NewStore(ctx, app.cfg.DatabaseURL, app.cfg.DatabaseName)
	default:
		db, err = sqlite.NewStore("file:" + app.cfg.DatabaseFile)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.StoreDriver)
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.userService = &service.UserService{
		Store:  app.db,
		Hasher: cryptox.Hasher{Pepper: app.cfg.PasswordPepper},
		Tokens: &service.TokenService{Signer: app.signer, TTL: app.cfg.TokenTTL},
	}
	app.cardService = &service.CardService{Store: app.db}

	if app.cfg.SetlistFMAPIKey == "" {
		app.logger.Warn("SETLISTFM_API_KEY not set, song lists will use the fallback")
	}
	client := setlistfm.NewClient(app.cfg.SetlistFMBaseURL, app.cfg.SetlistFMAPIKey)
	client.HTTPClient.Timeout = app.cfg.SetlistFMTimeout
	client.Language = app.cfg.SetlistFMLanguage
	client.UserAgent = "billybingo/" + BuildVersion

	app.setlistService = &service.SetlistService{
		Client:     client,
		ArtistMBID: app.cfg.SetlistFMArtistMBID,
		PageDelay:  app.cfg.SetlistPageDelay,
	}
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.cfg.BasePath,
		BuildVersion,
		app.verifier,
		app.db,
		app.logger,
	)
	router.Use(httpx.CORS(app.cfg.CORSOrigins))

	router.UserService = app.userService
	router.CardService = app.cardService
	router.SetlistService = app.setlistService
	router.AdminRoutes = app.cfg.UserAdminRoutes
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
