package httpserver

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	authmw "github.com/Skotchmaster/storefront/pkg/middleware/auth"
	"github.com/Skotchmaster/storefront/pkg/response"
	"github.com/Skotchmaster/storefront/pkg/util"
	"github.com/Skotchmaster/storefront/pkg/validate"
)

const adminScopeKey = "admin_scope"

// adminScope marks a route group whose handlers act on every user's data.
func adminScope(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Set(adminScopeKey, true)
		return next(c)
	}
}

func isAdminScope(c echo.Context) bool {
	v, _ := c.Get(adminScopeKey).(bool)
	return v
}

// owner returns nil on admin routes and the caller's id otherwise.
func owner(c echo.Context) (*uint, error) {
	if isAdminScope(c) {
		return nil, nil
	}
	id, err := authmw.UserID(c)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unauthenticated.")
	}
	return &id, nil
}

func currentUser(c echo.Context) (uint, error) {
	id, err := authmw.UserID(c)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "Unauthenticated.")
	}
	return id, nil
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" is not a valid id")
	}
	return uint(id), nil
}

func parseOptionalUint(s string) *uint {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil
	}
	u := uint(v)
	return &u
}

func parseOptionalBool(s string) *bool {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	return &v
}

type pageReq struct {
	page    int
	perPage int
	repo.Page
}

func pageParams(c echo.Context) pageReq {
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("per_page"), util.DefaultPageSize)
	p, offset, limit := util.Calculate(page, size)
	return pageReq{page: p, perPage: limit, Page: repo.Page{Offset: offset, Limit: limit}}
}

func paginated(c echo.Context, msg string, items any, total int64, count int, p pageReq) error {
	return response.Paginated(c, msg, items, response.NewMeta(p.page, p.perPage, total, count))
}

// bind decodes the request into dst and runs struct validation.
func bind(c echo.Context, l *slog.Logger, event string, dst any) error {
	if err := c.Bind(dst); err != nil {
		l.Warn(event, "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(dst); err != nil {
		if fields := validate.Fields(err); fields != nil {
			l.Warn(event, "status", 422, "reason", "validation failed", "error", err)
			return response.NewFieldError(fields)
		}
		return err
	}
	return nil
}

// fail maps service errors to HTTP errors and logs them.
func fail(l *slog.Logger, event string, err error) error {
	var ve *service.ValidationError
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he
	case errors.As(err, &ve):
		l.Warn(event, "status", 422, "reason", "validation failed", "error", err)
		return response.NewFieldError(ve.Fields)
	case errors.Is(err, service.ErrBadRequest):
		l.Warn(event, "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, service.Message(err))
	case errors.Is(err, service.ErrUnauthorized):
		l.Warn(event, "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, service.Message(err))
	case errors.Is(err, service.ErrForbidden):
		l.Warn(event, "status", 403, "error", err)
		return echo.NewHTTPError(http.StatusForbidden, service.Message(err))
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, service.Message(err))
	case errors.Is(err, service.ErrConflict):
		l.Warn(event, "status", 409, "error", err)
		return echo.NewHTTPError(http.StatusConflict, service.Message(err))
	default:
		l.Error(event, "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal Server Error")
	}
}

// formUpload opens an optional multipart file. The returned close func is never nil.
func formUpload(c echo.Context, field string) (*service.Upload, func(), error) {
	noop := func() {}
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, echo.NewHTTPError(http.StatusBadRequest, "invalid "+field+" upload")
	}
	return openUpload(fh)
}

func openUpload(fh *multipart.FileHeader) (*service.Upload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, echo.NewHTTPError(http.StatusBadRequest, "cannot read upload")
	}
	return &service.Upload{Filename: fh.Filename, Size: fh.Size, Reader: f}, func() { _ = f.Close() }, nil
}
