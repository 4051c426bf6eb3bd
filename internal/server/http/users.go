package http

import (
	"net/http"

	"github.com/dmitrijs2005/masterrol/internal/server/models"
	"github.com/labstack/echo/v4"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success     bool         `json:"success"`
	Msg         string       `json:"msg"`
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"usuario"`
}

type registerRequest struct {
	GivenName  string `json:"nombre"`
	FamilyName string `json:"apellido"`
	Username   string `json:"username"`
	Password   string `json:"password"`
}

type createdUser struct {
	ID        int64  `json:"iduser"`
	GivenName string `json:"nombre"`
	Username  string `json:"username"`
}

type registerResponse struct {
	Message string      `json:"mensaje"`
	User    createdUser `json:"usuario"`
}

type profileResponse struct {
	Msg        string `json:"msg"`
	ID         int64  `json:"iduser"`
	Username   string `json:"username"`
	GivenName  string `json:"nombre"`
	FamilyName string `json:"apellido"`
}

func (s *HTTPServer) login(c echo.Context) error {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	res, err := s.users.Login(requestContext(c), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Success:     true,
		Msg:         "Login exitoso",
		AccessToken: res.AccessToken,
		User:        res.User,
	})
}

func (s *HTTPServer) register(c echo.Context) error {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	u, err := s.users.Register(requestContext(c), models.Registration{
		GivenName:  req.GivenName,
		FamilyName: req.FamilyName,
		UserName:   req.Username,
		Password:   req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Message: "Usuario creado exitosamente",
		User:    createdUser{ID: u.ID, GivenName: u.GivenName, Username: u.UserName},
	})
}

func (s *HTTPServer) profile(c echo.Context) error {
	id, err := callerID(c)
	if err != nil {
		return err
	}

	u, err := s.users.Profile(requestContext(c), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileResponse{
		Msg:        "Accediste al perfil",
		ID:         u.ID,
		Username:   u.UserName,
		GivenName:  u.GivenName,
		FamilyName: u.FamilyName,
	})
}

func (s *HTTPServer) health(c echo.Context) error {
	if err := s.store.PingContext(requestContext(c)); err != nil {
		s.logger.Warn(requestContext(c), "health check failed", "error", err.Error())
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
