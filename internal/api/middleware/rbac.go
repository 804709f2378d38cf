package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ayam04/Contract-Farming/internal/api/handler"
	"github.com/ayam04/Contract-Farming/internal/core/domain"
)

// Require admits the request only when the authenticated role holds the
// capability. It must run after Auth.
func Require(capability domain.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, _ := c.Get(handler.IdentityKey).(domain.Identity)
			if !id.Role.Can(capability) {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
