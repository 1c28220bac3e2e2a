package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	jwthelp "github.com/Skotchmaster/shop_erp/pkg/jwt"
	"github.com/Skotchmaster/shop_erp/pkg/logging"
	"github.com/Skotchmaster/shop_erp/pkg/tokens"
)

// Refresher exchanges a refresh token for a new token pair.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*tokens.Pair, error)
}

type AutoRefreshMiddleware struct {
	JWTSecret []byte
	Refresher Refresher
}

func NewAutoRefreshMiddleware(secret []byte, refresher Refresher) *AutoRefreshMiddleware {
	return &AutoRefreshMiddleware{
		JWTSecret: secret,
		Refresher: refresher,
	}
}

// RequireAuth accepts a valid access token, or an expired one paired with a
// refresh cookie that can be rotated.
func (m *AutoRefreshMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "auth")

		raw := accessToken(c)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}

		claims, err := tokens.AccessClaimsFromToken(raw, m.JWTSecret)
		if err == nil && claims != nil {
			setUserContext(c, claims)
			return next(c)
		}

		if !errors.Is(err, jwt.ErrTokenExpired) || m.Refresher == nil {
			l.Warn("auth_failed", "status", 401, "reason", "invalid access token", "error", err)
			ClearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}

		refreshCookie, rErr := c.Cookie(jwthelp.RefreshCookie)
		if rErr != nil || refreshCookie.Value == "" {
			ClearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}

		pair, refErr := m.Refresher.Refresh(ctx, refreshCookie.Value)
		if refErr != nil {
			l.Warn("auth_failed", "status", 401, "reason", "refresh failed", "error", refErr)
			ClearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}

		SetAuthCookies(c, pair)

		newClaims, pErr := tokens.AccessClaimsFromToken(pair.AccessToken, m.JWTSecret)
		if pErr != nil || newClaims == nil {
			ClearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}

		l.Info("access_token_refreshed", "user_id", newClaims.Subject)
		setUserContext(c, newClaims)

		return next(c)
	}
}

func accessToken(c echo.Context) string {
	if ck, err := c.Cookie(jwthelp.AccessCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	if h := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

func SetAuthCookies(c echo.Context, pair *tokens.Pair) {
	c.SetCookie(jwthelp.CreateCookie(jwthelp.AccessCookie, pair.AccessToken, "/", pair.AccessExp))
	c.SetCookie(jwthelp.CreateCookie(jwthelp.RefreshCookie, pair.RefreshToken, "/", pair.RefreshExp))
}

func ClearAuthCookies(c echo.Context) {
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.AccessCookie, "/"))
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.RefreshCookie, "/"))
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set("user_id", claims.Subject)
	c.Set("role", claims.Role)
}
