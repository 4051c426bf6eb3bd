package http

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/masterrol/internal/common"
	"github.com/labstack/echo/v4"
)

type errorBody struct {
	Error string `json:"error"`
}

// statusMapping is checked in order; the first matching sentinel wins.
var statusMapping = []struct {
	target  error
	status  int
	message string
}{
	{common.ErrorValidation, http.StatusBadRequest, ""},
	{common.ErrTokenExpired, http.StatusUnauthorized, "Token expirado"},
	{common.ErrInvalidToken, http.StatusUnauthorized, "Token inválido"},
	{common.ErrorUnauthorized, http.StatusUnauthorized, "No autorizado"},
	{common.ErrorInvalidCredential, http.StatusUnauthorized, "Contraseña incorrecta"},
	{common.ErrorNotFoundOrForbidden, http.StatusNotFound, "Sesión no encontrada o no autorizada"},
	{common.ErrorNotFound, http.StatusNotFound, "Usuario no encontrado"},
	{common.ErrorConflict, http.StatusConflict, "El nombre de usuario ya existe"},
	{common.ErrorStoreUnavailable, http.StatusServiceUnavailable, "Servicio de base de datos no disponible"},
}

const internalMessage = "Error interno del servidor"

// errorStatus maps err to a status code and a message safe to show clients.
func errorStatus(err error) (int, string) {
	for _, m := range statusMapping {
		if !errors.Is(err, m.target) {
			continue
		}
		if m.message == "" {
			return m.status, err.Error()
		}
		return m.status, m.message
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			return he.Code, msg
		}
		return he.Code, http.StatusText(he.Code)
	}

	return http.StatusInternalServerError, internalMessage
}

func (s *HTTPServer) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, msg := errorStatus(err)

	ctx := requestContext(c)
	if status >= http.StatusInternalServerError {
		s.logger.Error(ctx, "request failed", "path", c.Path(), "status", status, "error", err.Error())
	} else {
		s.logger.Warn(ctx, "request rejected", "path", c.Path(), "status", status, "error", err.Error())
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, errorBody{Error: msg})
	}
	if err != nil {
		s.logger.Error(ctx, "writing error response", "error", err.Error())
	}
}
