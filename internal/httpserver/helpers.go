package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_erp/internal/service"
)

var errUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, errorBody{Message: "Unauthorized"})

// GetID returns the caller's user id set by the auth middleware.
func GetID(c echo.Context) (uint, error) {
	s, ok := c.Get("user_id").(string)
	if !ok || s == "" {
		return 0, errUnauthorized
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, errUnauthorized
	}
	return uint(id), nil
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, &service.ValidationError{Fields: []service.FieldError{{Field: "id", Message: "must be a positive integer"}}}
	}
	return uint(id), nil
}

// bindValid decodes the body into req and validates it. Decode failures are
// reported as a validation error on the body.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return &service.ValidationError{Fields: []service.FieldError{{Field: "body", Message: "malformed request body"}}}
	}
	return c.Validate(req)
}
