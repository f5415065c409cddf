package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adityarane/GymBuddyBack/internal/models"
	"github.com/gofiber/fiber/v2"
)

func newAdminTestApp(handler *AdminHandler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "1")
		c.Locals("role", models.RoleAdmin)
		return c.Next()
	})
	app.Put("/api/admin/users/:id/role", handler.UpdateUserRole)
	app.Delete("/api/admin/users/:id", handler.DeleteUser)
	return app
}

// Validation rejections happen before any repository access, so a zero
// handler is enough here.
func TestUpdateUserRoleRejectsInvalidRole(t *testing.T) {
	app := newAdminTestApp(&AdminHandler{})

	for _, role := range []string{"superuser", "", "Admin"} {
		req := httptest.NewRequest(http.MethodPut, "/api/admin/users/2/role",
			strings.NewReader(`{"role": "`+role+`"}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("role %q: expected 400, got %d", role, resp.StatusCode)
		}
	}
}

func TestUpdateUserRoleRejectsBadID(t *testing.T) {
	app := newAdminTestApp(&AdminHandler{})

	req := httptest.NewRequest(http.MethodPut, "/api/admin/users/abc/role",
		strings.NewReader(`{"role": "gymOwner"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestDeleteUserRejectsBadID(t *testing.T) {
	app := newAdminTestApp(&AdminHandler{})

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/admin/users/0", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
