package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_erp/internal/service"
)

type errorBody struct {
	Message string               `json:"message"`
	Errors  []service.FieldError `json:"errors,omitempty"`
}

// failure holds the messages one endpoint answers with for each error class.
type failure struct {
	op        string
	invalid   string
	notFound  string
	forbidden string
	conflict  string
	internal  string
}

// respond logs err and turns it into the matching HTTP error. Anything not
// recognised becomes a 500 with the generic internal message.
func (f failure) respond(l *slog.Logger, err error) error {
	event := f.op + "_error"

	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		l.Warn(event, "status", 400, "reason", "validation failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, errorBody{Message: f.invalid, Errors: ve.Fields})
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "reason", "constraint violated", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, errorBody{Message: f.invalid})
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "reason", "not found", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, errorBody{Message: orDefault(f.notFound, "Not found")})
	case errors.Is(err, service.ErrForbidden):
		l.Warn(event, "status", 403, "reason", "not the owner", "error", err)
		return echo.NewHTTPError(http.StatusForbidden, errorBody{Message: orDefault(f.forbidden, "Forbidden")})
	case errors.Is(err, service.ErrConflict):
		l.Warn(event, "status", 409, "reason", "conflict", "error", err)
		return echo.NewHTTPError(http.StatusConflict, errorBody{Message: orDefault(f.conflict, "Conflict")})
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidRefreshToken):
		l.Warn(event, "status", 401, "reason", "unauthenticated", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, errorBody{Message: "Unauthorized"})
	default:
		l.Error(event, "status", 500, "reason", f.internal, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, errorBody{Message: f.internal})
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
