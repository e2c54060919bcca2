package handlers

import (
	"github.com/gofiber/fiber/v2"

	"suplementia/internal/domain"
	applog "suplementia/internal/log"
	"suplementia/internal/services"
)

// sessionUser resolves the request's user, reusing the one the attach
// middleware already put into Locals before falling back to a lookup.
func sessionUser(c *fiber.Ctx, auth *services.AuthService) *domain.User {
	if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
		return u
	}
	sid := c.Cookies("sid")
	if sid == "" {
		return nil
	}
	u, err := auth.CurrentUser(sid)
	if err != nil || u == nil {
		return nil
	}
	c.Locals("user", u)
	return u
}

// RequireAdmin gates the admin surface: anonymous visitors go to login,
// logged-in customers get a 403.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := sessionUser(c, auth)
		if u == nil {
			return c.Redirect("/login")
		}
		if u.Role != "ADMIN" {
			applog.Security(c, "access.denied.admin", map[string]any{"user": u.ID})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Access denied"})
		}
		return c.Next()
	}
}

// RequireUser redirects to login unless a user is bound to the session.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sessionUser(c, auth) == nil {
			return c.Redirect("/login")
		}
		return c.Next()
	}
}
