package http

import (
	"github.com/dmitrijs2005/masterrol/internal/common"
	"github.com/labstack/echo/v4"
)

// bindJSON binds the request body into v. A body that cannot be decoded is
// a validation error.
func bindJSON(c echo.Context, v any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, v); err != nil {
		return common.NewFieldError("", "se requiere un cuerpo JSON válido")
	}
	return nil
}
