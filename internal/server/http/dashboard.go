package http

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/masterrol/internal/common"
	"github.com/labstack/echo/v4"
)

// deleteActions are the accion values that turn POST /dashboard into a delete.
var deleteActions = map[string]bool{"eliminar": true, "delete": true}

type messageResponse struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
}

type createdSessionResponse struct {
	Msg string `json:"msg"`
	ID  int64  `json:"idsesion"`
}

func (s *HTTPServer) listSessions(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}

	items, err := s.sessions.List(requestContext(c), uid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// postSession creates a session, or deletes one when the body carries
// accion=eliminar.
func (s *HTTPServer) postSession(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}

	f, err := readFields(c)
	if err != nil {
		return err
	}

	action, _, _, err := f.str("accion")
	if err != nil {
		return err
	}
	if action != "" {
		if !deleteActions[strings.ToLower(strings.TrimSpace(action))] {
			return common.NewFieldError("accion", "acción no soportada")
		}
		id, err := f.bodyID()
		if err != nil {
			return err
		}
		return s.doDelete(c, uid, id, true)
	}

	in, err := f.sessionInput()
	if err != nil {
		return err
	}

	created, err := s.sessions.Create(requestContext(c), uid, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createdSessionResponse{Msg: "Sesión creada exitosamente", ID: created.ID})
}

func (s *HTTPServer) updateSession(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	return s.doUpdate(c, id, false)
}

func (s *HTTPServer) updateSessionByBody(c echo.Context) error {
	return s.doUpdate(c, 0, true)
}

// doUpdate reads the patch; with byBody set the session id comes from the
// body instead of the path.
func (s *HTTPServer) doUpdate(c echo.Context, id int64, byBody bool) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}

	f, err := readFields(c)
	if err != nil {
		return err
	}
	if byBody {
		if id, err = f.bodyID(); err != nil {
			return err
		}
		markDeprecated(c)
	}

	patch, err := f.sessionPatch()
	if err != nil {
		return err
	}

	if err := s.sessions.Update(requestContext(c), uid, id, patch); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Msg: "Sesión actualizada exitosamente"})
}

func (s *HTTPServer) deleteSession(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	return s.doDelete(c, uid, id, false)
}

func (s *HTTPServer) deleteSessionByBody(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	f, err := readFields(c)
	if err != nil {
		return err
	}
	id, err := f.bodyID()
	if err != nil {
		return err
	}
	return s.doDelete(c, uid, id, true)
}

func (s *HTTPServer) doDelete(c echo.Context, uid, id int64, deprecated bool) error {
	if deprecated {
		markDeprecated(c)
	}
	if err := s.sessions.Delete(requestContext(c), uid, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Msg: "Sesión eliminada exitosamente"})
}

func markDeprecated(c echo.Context) {
	c.Response().Header().Set(common.DeprecationHeaderName, "true")
}
