// Package throttle limits request rates per client IP.
package throttle

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/Skotchmaster/storefront/pkg/logging"
)

// PerIP allows rps requests per second with the given burst for each client IP.
func PerIP(rps float64, burst int) echo.MiddlewareFunc {
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(rps),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})

	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
		},
		DenyHandler: func(c echo.Context, id string, err error) error {
			logging.FromContext(c.Request().Context()).Warn("request_throttled",
				"middleware", "throttle", "status", 429, "ip", id)
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too Many Attempts.")
		},
	})
}
