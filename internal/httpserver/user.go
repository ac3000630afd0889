package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/response"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) GetMe(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get_me")

	id, err := currentUser(c)
	if err != nil {
		return err
	}
	u, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_me_failed", err)
	}
	return response.Success(c, http.StatusOK, "Profile retrieved successfully", u)
}

func (h *UserHTTP) UpdateMe(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update_me")

	id, err := currentUser(c)
	if err != nil {
		return err
	}
	var req transport.UpdateUserRequest
	if err := bind(c, l, "update_me_failed", &req); err != nil {
		return err
	}
	u, err := h.Svc.Update(ctx, id, patchFrom(req), true)
	if err != nil {
		return fail(l, "update_me_failed", err)
	}
	return response.Success(c, http.StatusOK, "Profile updated successfully", u)
}

func (h *UserHTTP) GetUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get_users")

	p := pageParams(c)
	items, total, err := h.Svc.List(ctx, repo.UserFilter{
		Search: c.QueryParam("search"),
		Role:   c.QueryParam("role"),
		Sort:   c.QueryParam("sort"),
		Page:   p.Page,
	})
	if err != nil {
		return fail(l, "get_users_failed", err)
	}
	return paginated(c, "Users retrieved successfully", items, total, len(items), p)
}

func (h *UserHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get_user")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	u, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_user_failed", err)
	}
	return response.Success(c, http.StatusOK, "User retrieved successfully", u)
}

func (h *UserHTTP) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.create_user")

	var req transport.CreateUserRequest
	if err := bind(c, l, "user_create_failed", &req); err != nil {
		return err
	}
	u, err := h.Svc.Create(ctx, service.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return fail(l, "user_create_failed", err)
	}

	l.Info("create_user_success", "user_id", u.ID, "role", u.Role)
	return response.Success(c, http.StatusCreated, "User created successfully", u)
}

func (h *UserHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update_user")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req transport.UpdateUserRequest
	if err := bind(c, l, "user_update_failed", &req); err != nil {
		return err
	}
	u, err := h.Svc.Update(ctx, id, patchFrom(req), false)
	if err != nil {
		return fail(l, "user_update_failed", err)
	}
	return response.Success(c, http.StatusOK, "User updated successfully", u)
}

func (h *UserHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete_user")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "user_delete_failed", err)
	}

	l.Info("delete_user_success", "user_id", id)
	return response.Success(c, http.StatusOK, "User deleted successfully", nil)
}

func patchFrom(req transport.UpdateUserRequest) service.UserPatch {
	return service.UserPatch{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	}
}
