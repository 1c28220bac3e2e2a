package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	loggingmw "github.com/Skotchmaster/shop_erp/pkg/middleware/logging"
)

const bodyLimit = "1M"

// NewEcho builds the echo instance with the shared middleware chain. Routes
// are added separately by Register.
func NewEcho(logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())
	e.Use(echomw.BodyLimit(bodyLimit))

	return e
}
