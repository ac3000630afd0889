package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/response"
)

type StatsHTTP struct {
	Svc *service.StatsService
}

func (h *StatsHTTP) GetStatistics(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "stats.overview")

	st, err := h.Svc.Overview(ctx)
	if err != nil {
		return fail(l, "get_statistics_failed", err)
	}
	return response.Success(c, http.StatusOK, "Statistics retrieved successfully", st)
}
