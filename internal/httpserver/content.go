package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/response"
)

type ContentHTTP struct {
	Svc *service.ContentService
}

func (h *ContentHTTP) GetContents(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "content.get_contents")

	all, err := h.Svc.All(ctx)
	if err != nil {
		return fail(l, "get_contents_failed", err)
	}
	return response.Success(c, http.StatusOK, "Contents retrieved successfully", all)
}

// GetContent answers with data null for an unknown key.
func (h *ContentHTTP) GetContent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "content.get_content")

	v, err := h.Svc.Get(ctx, c.Param("key"))
	if err != nil {
		return fail(l, "get_content_failed", err)
	}
	return response.Success(c, http.StatusOK, "Content retrieved successfully", v)
}

func (h *ContentHTTP) SaveContent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "content.save_content")

	var req transport.ContentRequest
	if err := bind(c, l, "content_save_failed", &req); err != nil {
		return err
	}
	saved, err := h.Svc.Save(ctx, c.Param("key"), req.Value)
	if err != nil {
		return fail(l, "content_save_failed", err)
	}

	l.Info("save_content_success", "key", saved.Key)
	return response.Success(c, http.StatusOK, "Content saved successfully", saved)
}

func (h *ContentHTTP) SaveContents(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "content.save_contents")

	var req transport.BulkContentRequest
	if err := bind(c, l, "content_bulk_save_failed", &req); err != nil {
		return err
	}
	if err := h.Svc.UpdateContent(ctx, req.Contents); err != nil {
		return fail(l, "content_bulk_save_failed", err)
	}

	l.Info("save_contents_success", "count", len(req.Contents))
	return response.Success(c, http.StatusOK, "Contents saved successfully", nil)
}
