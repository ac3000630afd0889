package response

import (
	"github.com/labstack/echo/v4"
)

type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    any                 `json:"data"`
	Meta    *Meta               `json:"meta,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

type Meta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
	From        int   `json:"from"`
	To          int   `json:"to"`
}

func NewMeta(page, perPage int, total int64, count int) *Meta {
	last := 1
	if perPage > 0 && total > 0 {
		last = int((total + int64(perPage) - 1) / int64(perPage))
	}
	m := &Meta{CurrentPage: page, PerPage: perPage, Total: total, LastPage: last}
	if count > 0 {
		m.From = (page-1)*perPage + 1
		m.To = m.From + count - 1
	}
	return m
}

func Success(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

func Paginated(c echo.Context, message string, data any, meta *Meta) error {
	return c.JSON(200, Envelope{Success: true, Message: message, Data: data, Meta: meta})
}

func Error(c echo.Context, status int, message string) error {
	return c.JSON(status, Envelope{Success: false, Message: message})
}

func ValidationError(c echo.Context, status int, message string, errs map[string][]string) error {
	return c.JSON(status, Envelope{Success: false, Message: message, Errors: errs})
}
