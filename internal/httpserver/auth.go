package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
	authmw "github.com/Skotchmaster/storefront/pkg/middleware/auth"
	"github.com/Skotchmaster/storefront/pkg/response"
)

type AuthHTTP struct {
	Svc   *service.AuthService
	Users *service.UserService
}

type authPayload struct {
	User      any    `json:"user"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := bind(c, l, "register_failed", &req); err != nil {
		return err
	}

	res, err := h.Svc.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return fail(l, "register_failed", err)
	}

	c.SetCookie(authmw.CreateCookie(authmw.CookieName, res.Token, "/", res.ExpiresAt))
	l.Info("register_success", "user_id", res.User.ID)
	return response.Success(c, http.StatusCreated, "Registration successful", authPayload{
		User: res.User, Token: res.Token, ExpiresAt: res.ExpiresAt.Unix(),
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := bind(c, l, "login_failed", &req); err != nil {
		return err
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(l, "login_failed", err)
	}

	c.SetCookie(authmw.CreateCookie(authmw.CookieName, res.Token, "/", res.ExpiresAt))
	l.Info("login_success", "user_id", res.User.ID)
	return response.Success(c, http.StatusOK, "Login successful", authPayload{
		User: res.User, Token: res.Token, ExpiresAt: res.ExpiresAt.Unix(),
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	c.SetCookie(authmw.DeleteCookie(authmw.CookieName, "/"))
	return response.Success(c, http.StatusOK, "Logged out", nil)
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	id, err := currentUser(c)
	if err != nil {
		return err
	}
	u, err := h.Users.Get(ctx, id)
	if err != nil {
		return fail(l, "me_failed", err)
	}
	return response.Success(c, http.StatusOK, "User retrieved successfully", u)
}
