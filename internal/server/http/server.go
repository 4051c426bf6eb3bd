// Package http is the JSON API boundary. It decodes requests, checks bearer
// tokens, calls the services with the caller's id and maps domain errors to
// status codes.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/masterrol/internal/logging"
	"github.com/dmitrijs2005/masterrol/internal/server/models"
	"github.com/dmitrijs2005/masterrol/internal/server/services"
	"github.com/labstack/echo/v4"
)

const shutdownTimeout = 10 * time.Second

// UserService is the part of services.UserService the boundary uses.
type UserService interface {
	Register(ctx context.Context, r models.Registration) (*models.User, error)
	Login(ctx context.Context, userName, password string) (*services.LoginResult, error)
	Profile(ctx context.Context, userID int64) (*models.User, error)
}

// SessionService is the part of services.SessionService the boundary uses.
type SessionService interface {
	List(ctx context.Context, userID int64) ([]models.Session, error)
	Create(ctx context.Context, userID int64, in models.SessionInput) (*models.Session, error)
	Update(ctx context.Context, userID, id int64, patch models.SessionPatch) error
	Delete(ctx context.Context, userID, id int64) error
}

// Pinger reports whether the store answers. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options carries the boundary settings taken from config.
type Options struct {
	SecretKey      string
	AllowedOrigins []string
	AuthRateLimit  float64
	AuthRateBurst  int
}

type HTTPServer struct {
	address  string
	logger   logging.Logger
	users    UserService
	sessions SessionService
	store    Pinger
	opts     Options
	e        *echo.Echo
}

func NewHTTPServer(a string, l logging.Logger, us UserService, ss SessionService, store Pinger, opts Options) *HTTPServer {
	s := &HTTPServer{
		address:  a,
		logger:   l.With("module", "http_server"),
		users:    us,
		sessions: ss,
		store:    store,
		opts:     opts,
	}
	s.e = s.newEcho()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.e
}

func (s *HTTPServer) newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.errorHandler

	s.registerMiddleware(e)
	s.registerRoutes(e)
	return e
}

func (s *HTTPServer) registerRoutes(e *echo.Echo) {
	limited := s.authRateLimiter()

	e.GET("/health", s.health)
	e.POST("/login", s.login, limited)
	e.POST("/users", s.register, limited)

	secured := s.jwtMiddleware()
	e.GET("/perfil", s.profile, secured)
	e.GET("/dashboard", s.listSessions, secured)
	e.POST("/dashboard", s.postSession, secured)
	e.PUT("/dashboard/:id", s.updateSession, secured)
	e.PUT("/dashboard", s.updateSessionByBody, secured)
	e.DELETE("/dashboard/:id", s.deleteSession, secured)
	e.DELETE("/dashboard", s.deleteSessionByBody, secured)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := s.e.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := s.e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
