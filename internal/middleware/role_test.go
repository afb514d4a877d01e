package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func callWithRole(t *testing.T, mw echo.MiddlewareFunc, role interface{}) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestRequireRoleAllows(t *testing.T) {
	mw := RequireRole("superadmin", "supervisor")
	for _, role := range []string{"superadmin", "supervisor"} {
		if rec := callWithRole(t, mw, role); rec.Code != http.StatusOK {
			t.Fatalf("role %q: status = %d", role, rec.Code)
		}
	}
}

func TestRequireRoleRejects(t *testing.T) {
	mw := RequireRole("superadmin")
	for name, role := range map[string]interface{}{
		"other role":  "client",
		"empty role":  "",
		"missing":     nil,
		"non-string":  42,
		"case differs": "SUPERADMIN",
	} {
		if rec := callWithRole(t, mw, role); rec.Code != http.StatusForbidden {
			t.Fatalf("%s: status = %d, want 403", name, rec.Code)
		}
	}
}
