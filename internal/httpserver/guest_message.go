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

type GuestMessageHTTP struct {
	Svc *service.GuestMessageService
}

func (h *GuestMessageHTTP) StoreMessage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "guest_message.store")

	var req transport.GuestMessageRequest
	if err := bind(c, l, "guest_message_create_failed", &req); err != nil {
		return err
	}
	m, err := h.Svc.Create(ctx, req.Name, req.Email, req.Message)
	if err != nil {
		return fail(l, "guest_message_create_failed", err)
	}
	return response.Success(c, http.StatusCreated, "Message sent successfully", m)
}

func (h *GuestMessageHTTP) GetMessages(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "guest_message.list")

	p := pageParams(c)
	items, total, err := h.Svc.List(ctx, repo.GuestMessageFilter{
		IsRead: parseOptionalBool(c.QueryParam("is_read")),
		Page:   p.Page,
	})
	if err != nil {
		return fail(l, "get_guest_messages_failed", err)
	}
	return paginated(c, "Guest messages retrieved successfully", items, total, len(items), p)
}

func (h *GuestMessageHTTP) GetMessage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "guest_message.show")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	m, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_guest_message_failed", err)
	}
	return response.Success(c, http.StatusOK, "Guest message retrieved successfully", m)
}

func (h *GuestMessageHTTP) MarkRead(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "guest_message.mark_read")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req transport.MarkReadRequest
	if err := bind(c, l, "guest_message_mark_read_failed", &req); err != nil {
		return err
	}
	m, err := h.Svc.SetRead(ctx, id, *req.IsRead)
	if err != nil {
		return fail(l, "guest_message_mark_read_failed", err)
	}
	return response.Success(c, http.StatusOK, "Guest message updated successfully", m)
}

func (h *GuestMessageHTTP) DeleteMessage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "guest_message.delete")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "guest_message_delete_failed", err)
	}
	return response.Success(c, http.StatusOK, "Guest message deleted successfully", nil)
}

func (h *GuestMessageHTTP) GetStats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "guest_message.stats")

	st, err := h.Svc.Stats(ctx)
	if err != nil {
		return fail(l, "guest_message_stats_failed", err)
	}
	return response.Success(c, http.StatusOK, "Guest message statistics retrieved successfully", st)
}
