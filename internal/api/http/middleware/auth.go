package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/maherraissi/MedFlow/pkg/session"
)

const (
	LocalsClaims       = "claims"
	LocalsClinicID     = "clinic_id"
	LocalsUserID       = "user_id"
	LocalsUserRole     = "user_role"
	LocalsSessionToken = "session_token"
)

// Session resolves a Bearer session token into claims stored in Locals.
// Missing or invalid tokens are tolerated: the request proceeds anonymous
// and the access gate decides whether the route allows that.
func Session(mgr *session.Manager) fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return c.Next()
		}

		claims, err := mgr.Get(c.Context(), token)
		if err != nil {
			return c.Next()
		}

		c.Locals(LocalsClaims, claims)
		c.Locals(LocalsClinicID, claims.ClinicID.String())
		c.Locals(LocalsUserID, claims.UserID.String())
		c.Locals(LocalsUserRole, string(claims.Role))
		c.Locals(LocalsSessionToken, token)
		return c.Next()
	}
}

// ClaimsFromFiber retrieves the session claims stored by Session.
func ClaimsFromFiber(c fiber.Ctx) (*session.Claims, bool) {
	claims, ok := c.Locals(LocalsClaims).(*session.Claims)
	return claims, ok && claims != nil
}

// TokenFromFiber retrieves the raw session token stored by Session.
func TokenFromFiber(c fiber.Ctx) (string, bool) {
	s, ok := c.Locals(LocalsSessionToken).(string)
	return s, ok && s != ""
}

func bearerToken(c fiber.Ctx) (string, bool) {
	h := c.Get("Authorization")
	if h == "" {
		return "", false
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
