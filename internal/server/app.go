// Package server wires the masterrol backend together: it opens the store,
// applies migrations, builds the services and runs the HTTP API and the
// gRPC health endpoint until the process is asked to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/masterrol/internal/cryptox"
	"github.com/dmitrijs2005/masterrol/internal/logging"
	"github.com/dmitrijs2005/masterrol/internal/server/config"
	gs "github.com/dmitrijs2005/masterrol/internal/server/grpc"
	hs "github.com/dmitrijs2005/masterrol/internal/server/http"
	"github.com/dmitrijs2005/masterrol/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/masterrol/internal/server/services"
	"github.com/dmitrijs2005/masterrol/internal/server/shared/db"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	userService    *services.UserService
	sessionService *services.SessionService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger, err := logging.New(c.LogFormat, c.LogLevel, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	conn, dialect, err := db.Open(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewSQLRepositoryManager(dialect)
	if err := rm.RunMigrations(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	hasher := cryptox.NewPasswordHasher(cryptox.DefaultParams, c.LegacyPlaintextPasswords)
	if c.LegacyPlaintextPasswords {
		logger.Warn(ctx, "legacy plaintext passwords are accepted")
	}

	return &App{
		config:         c,
		logger:         logger,
		db:             conn,
		userService:    services.NewUserService(conn, rm, hasher, c),
		sessionService: services.NewSessionService(conn, rm),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := hs.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.userService, app.sessionService, app.db, hs.Options{
		SecretKey:      app.config.SecretKey,
		AllowedOrigins: app.config.CORSAllowedOrigins,
		AuthRateLimit:  app.config.AuthRateLimit,
		AuthRateBurst:  app.config.AuthRateBurst,
	})

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewHealthServer(app.config.EndpointAddrGRPC, app.logger, app.db, app.config.HealthProbeInterval)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a signal arrives or a server fails, then waits for both
// servers to stop and closes the store.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "driver", app.config.DatabaseDriver)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.config.EndpointAddrGRPC != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing store", "error", err.Error())
	}
	app.logger.Info(ctx, "App stopped")
}

// UserService exposes the registration service for tools sharing the
// server's store, such as the useradd command.
func (app *App) UserService() *services.UserService {
	return app.userService
}

// Close releases the store for callers that never call Run.
func (app *App) Close() error {
	return app.db.Close()
}
