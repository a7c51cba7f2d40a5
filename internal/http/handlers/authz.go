package handlers

import (
	"antiquites/internal/domain"
	"antiquites/internal/log"
	"antiquites/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Session attaches the signed-in user, if any, to the request.
func Session(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		attachUser(c, auth)
		return c.Next()
	}
}

func attachUser(c *fiber.Ctx, auth *services.AuthService) *domain.User {
	if u := CurrentUser(c); u != nil {
		return u
	}
	sid := c.Cookies("sid")
	if sid == "" || auth == nil {
		return nil
	}
	u, err := auth.CurrentUser(c.UserContext(), sid)
	if err != nil {
		log.Error(c, "session.lookup.fail", err, nil)
		return nil
	}
	if u != nil {
		c.Locals("user", u)
		c.Locals("user_id", u.ID)
	}
	return u
}

// CurrentUser returns the user attached by Session, or nil.
func CurrentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

func IsAuthenticated(c *fiber.Ctx) bool { return CurrentUser(c) != nil }

func IsAdmin(c *fiber.Ctx) bool {
	u := CurrentUser(c)
	return u != nil && u.IsAdmin
}

// RequireUser enforces that a user is logged in; otherwise redirect to login.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		attachUser(c, auth)
		if !IsAuthenticated(c) {
			return c.Redirect("/login")
		}
		return c.Next()
	}
}

// RequireAdmin sends anyone but an administrator back to the home page.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		attachUser(c, auth)
		if !IsAdmin(c) {
			log.Security(c, "access.denied.admin", nil)
			return c.Redirect("/")
		}
		return c.Next()
	}
}
