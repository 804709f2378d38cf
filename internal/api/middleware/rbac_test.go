package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ayam04/Contract-Farming/internal/api/handler"
	"github.com/ayam04/Contract-Farming/internal/core/domain"
)

func TestRequire(t *testing.T) {
	tests := []struct {
		name       string
		identity   any
		capability domain.Capability
		want       int
	}{
		{"farmer creates", domain.Identity{Username: "f", Role: domain.RoleFarmer}, domain.CapCreateCrop, http.StatusOK},
		{"buyer creates", domain.Identity{Username: "b", Role: domain.RoleBuyer}, domain.CapCreateCrop, http.StatusForbidden},
		{"buyer lists", domain.Identity{Username: "b", Role: domain.RoleBuyer}, domain.CapListCrops, http.StatusOK},
		{"buyer contracts", domain.Identity{Username: "b", Role: domain.RoleBuyer}, domain.CapGenerateContract, http.StatusOK},
		{"no identity", nil, domain.CapListCrops, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			if tt.identity != nil {
				c.Set(handler.IdentityKey, tt.identity)
			}

			h := Require(tt.capability)(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})
			if err := h(c); err != nil {
				e.HTTPErrorHandler(err, c)
			}
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}
