package response

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// FieldError is returned by handlers when request validation fails.
type FieldError struct {
	Message string
	Fields  map[string][]string
}

func (e *FieldError) Error() string { return e.Message }

func NewFieldError(fields map[string][]string) *FieldError {
	return &FieldError{Message: "The given data was invalid.", Fields: fields}
}

// ErrorHandler renders every error as the JSON envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var fe *FieldError
	if errors.As(err, &fe) {
		_ = ValidationError(c, http.StatusUnprocessableEntity, fe.Message, fe.Fields)
		return
	}

	status := http.StatusInternalServerError
	msg := http.StatusText(status)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		switch m := he.Message.(type) {
		case string:
			msg = m
		case error:
			msg = m.Error()
		default:
			msg = http.StatusText(status)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = Error(c, status, msg)
}
