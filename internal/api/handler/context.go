package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ayam04/Contract-Farming/internal/core/domain"
)

// IdentityKey is the echo context key under which the Auth middleware stores
// the caller's domain.Identity.
const IdentityKey = "identity"

// ctxIdentity returns the identity injected by the Auth middleware. Its
// absence means the route was registered without authentication.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := c.Get(IdentityKey).(domain.Identity)
	if !ok || id.Username == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}
