package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_erp/internal/service"
	"github.com/Skotchmaster/shop_erp/internal/transport"
	jwthelp "github.com/Skotchmaster/shop_erp/pkg/jwt"
	"github.com/Skotchmaster/shop_erp/pkg/logging"
	middleware "github.com/Skotchmaster/shop_erp/pkg/middleware/auth"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")
	f := failure{op: "register", invalid: "Invalid registration data", conflict: "Username already exists", internal: "Failed to register"}

	var req transport.RegisterRequest
	if err := bindValid(c, &req); err != nil {
		return f.respond(l, err)
	}

	user, pair, err := h.Svc.Register(ctx, req)
	if err != nil {
		return f.respond(l, err)
	}

	middleware.SetAuthCookies(c, pair)
	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")
	f := failure{op: "login", invalid: "Invalid login data", internal: "Failed to log in"}

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, errorBody{Message: "Invalid login data"})
	}

	user, pair, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return f.respond(l, err)
	}

	middleware.SetAuthCookies(c, pair)
	l.Info("login_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if ck, err := c.Cookie(jwthelp.RefreshCookie); err == nil {
		if err := h.Svc.LogOut(ctx, ck.Value); err != nil {
			middleware.ClearAuthCookies(c)
			l.Error("logout_error", "status", 500, "reason", "cannot revoke refresh token", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, errorBody{Message: "Failed to log out"})
		}
	}

	middleware.ClearAuthCookies(c)
	l.Info("logout_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out"})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	ck, err := c.Cookie(jwthelp.RefreshCookie)
	if err != nil || ck.Value == "" {
		l.Warn("refresh_error", "status", 401, "reason", "missing refresh cookie")
		return errUnauthorized
	}

	pair, err := h.Svc.Refresh(ctx, ck.Value)
	if err != nil {
		middleware.ClearAuthCookies(c)
		return failure{op: "refresh", internal: "Failed to refresh session"}.respond(l, err)
	}

	middleware.SetAuthCookies(c, pair)
	l.Info("refresh_success")
	return c.JSON(http.StatusOK, echo.Map{
		"accessToken": pair.AccessToken,
		"expiresAt":   pair.AccessExp,
	})
}

func (h *AuthHTTP) CurrentUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.current_user")

	userID, err := GetID(c)
	if err != nil {
		return err
	}

	user, err := h.Svc.CurrentUser(ctx, userID)
	if err != nil {
		return failure{op: "current_user", notFound: "User not found", internal: "Failed to retrieve user"}.respond(l, err)
	}
	return c.JSON(http.StatusOK, user)
}
