package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

var ErrNoUser = errors.New("no authenticated user")

type Middleware struct {
	JWTSecret []byte
}

func New(secret []byte) *Middleware {
	return &Middleware{JWTSecret: secret}
}

func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.require(next, "")
}

func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.require(next, tokens.RoleAdmin)
}

func (m *Middleware) require(next echo.HandlerFunc, role string) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context()).With("middleware", "auth")

		raw := tokenFromRequest(c)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthenticated.")
		}

		claims, err := tokens.AccessClaimsFromToken(raw, m.JWTSecret)
		if err != nil {
			l.Warn("auth_rejected", "status", 401, "reason", "invalid token", "error", err)
			c.SetCookie(DeleteCookie(CookieName, "/"))
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthenticated.")
		}
		userID, err := claims.UserID()
		if err != nil {
			l.Warn("auth_rejected", "status", 401, "reason", "bad subject", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthenticated.")
		}

		if role != "" && claims.Role != role {
			l.Warn("auth_rejected", "status", 403, "reason", "role mismatch", "role", claims.Role)
			return echo.NewHTTPError(http.StatusForbidden, "This action is unauthorized.")
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextRole, claims.Role)
		return next(c)
	}
}

func tokenFromRequest(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		if rest, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(rest)
		}
	}
	if ck, err := c.Cookie(CookieName); err == nil {
		return ck.Value
	}
	return ""
}

func UserID(c echo.Context) (uint, error) {
	id, ok := c.Get(ContextUserID).(uint)
	if !ok || id == 0 {
		return 0, ErrNoUser
	}
	return id, nil
}

func Role(c echo.Context) string {
	r, _ := c.Get(ContextRole).(string)
	return r
}

func IsAdmin(c echo.Context) bool {
	return Role(c) == tokens.RoleAdmin
}
