// Package loggingmw attaches a request-scoped logger and writes one line per
// finished request.
package loggingmw

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_erp/pkg/logging"
)

// RequestLogger must run after echo's RequestID middleware to pick up the id.
// Errors are rendered here so the logged status is the one the client sees.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			attrs := []any{"method", req.Method, "path", c.Path(), "url", req.URL.Path, "remote_ip", c.RealIP()}
			if rid := c.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
				attrs = append(attrs, "request_id", rid)
			} else if rid := req.Header.Get(echo.HeaderXRequestID); rid != "" {
				attrs = append(attrs, "request_id", rid)
			}
			l := base.With(attrs...)
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			res := c.Response()
			done := []any{"status", res.Status, "duration_ms", time.Since(start).Milliseconds(), "bytes", res.Size}
			// set by the auth middleware on private routes
			if uid, ok := c.Get("user_id").(string); ok {
				done = append(done, "user_id", uid)
			}

			level := slog.LevelInfo
			switch {
			case res.Status >= 500:
				level = slog.LevelError
				if err != nil {
					done = append(done, "error", err.Error())
				}
			case res.Status >= 400:
				level = slog.LevelWarn
			}
			l.Log(req.Context(), level, "http_request", done...)
			return nil
		}
	}
}
