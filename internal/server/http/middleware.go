package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/masterrol/internal/common"
	"github.com/dmitrijs2005/masterrol/internal/server/auth"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const (
	claimsKey = "claims"
	bodyLimit = "1M"
)

func (s *HTTPServer) registerMiddleware(e *echo.Echo) {
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(s.requestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     s.opts.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType},
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit(bodyLimit))
}

// requestLogger writes one line per request. The user id is only known
// once the token has been checked.
func (s *HTTPServer) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogRequestID: true,
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			args := []any{
				"request_id", v.RequestID,
				"method", v.Method,
				"path", v.URIPath,
				"status", v.Status,
				"latency", v.Latency.String(),
			}
			if id, ok := userIDFrom(c); ok {
				args = append(args, "user_id", id)
			}
			s.logger.Info(c.Request().Context(), "request", args...)
			return nil
		},
	})
}

// jwtMiddleware accepts "Authorization: Bearer <token>" and stores the
// verified claims on the context. The subject must be a valid user id.
func (s *HTTPServer) jwtMiddleware() echo.MiddlewareFunc {
	secret := []byte(s.opts.SecretKey)

	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  claimsKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":" + common.AuthorizationHeaderScheme + " ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := auth.ParseToken(token, secret)
			if err != nil {
				return nil, err
			}
			if _, err := claims.UserID(); err != nil {
				return nil, err
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if errors.Is(err, common.ErrTokenExpired) {
				return common.ErrTokenExpired
			}
			return fmt.Errorf("%w: %v", common.ErrorUnauthorized, err)
		},
	})
}

// authRateLimiter throttles the unauthenticated credential endpoints per
// client address.
func (s *HTTPServer) authRateLimiter() echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(s.opts.AuthRateLimit),
		Burst:     s.opts.AuthRateBurst,
		ExpiresIn: 3 * time.Minute,
	})

	tooMany := func(c echo.Context) error {
		return c.JSON(http.StatusTooManyRequests, errorBody{Error: "Demasiadas solicitudes"})
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, _ error) error {
			return tooMany(c)
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return tooMany(c)
		},
	})
}

// userIDFrom returns the verified caller id, if the request carried a token.
func userIDFrom(c echo.Context) (int64, bool) {
	claims, ok := c.Get(claimsKey).(*auth.Claims)
	if !ok {
		return 0, false
	}
	id, err := claims.UserID()
	if err != nil {
		return 0, false
	}
	return id, true
}

// callerID is userIDFrom for handlers behind jwtMiddleware.
func callerID(c echo.Context) (int64, error) {
	id, ok := userIDFrom(c)
	if !ok {
		return 0, common.ErrorUnauthorized
	}
	return id, nil
}

func requestContext(c echo.Context) context.Context {
	return c.Request().Context()
}
