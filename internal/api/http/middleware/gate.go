package middleware

import (
	"github.com/gofiber/fiber/v3"

	"github.com/maherraissi/MedFlow/pkg/access"
)

// AccessGate enforces the static capability table against the matched route
// pattern. Unlisted routes are denied, so new endpoints must be registered
// in the table before they are reachable.
func AccessGate() fiber.Handler {
	return func(c fiber.Ctx) error {
		var role access.Role
		authenticated := false
		if claims, ok := ClaimsFromFiber(c); ok {
			role = claims.Role
			authenticated = true
		}

		switch access.CheckAPI(role, authenticated, c.Method(), c.Route().Path) {
		case access.Allow:
			return c.Next()
		case access.DenyUnauthenticated:
			return fiber.ErrUnauthorized
		default:
			return fiber.ErrForbidden
		}
	}
}
