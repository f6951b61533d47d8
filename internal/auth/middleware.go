package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const identityKey = "identity"

// JWTMiddleware validates bearer access tokens and stores the caller's
// *Identity in locals.
func JWTMiddleware(secret string) fiber.Handler {
	secretBytes := []byte(secret)
	return func(c *fiber.Ctx) error {
		token := parseBearer(c.Get("Authorization"))
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		claims, err := parseClaims(token, secretBytes)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		if claims.TokenType != tokenTypeAccess {
			return fiber.NewError(fiber.StatusUnauthorized, ErrTokenInvalid.Error())
		}

		id := claims.identity()
		c.Locals(identityKey, &id)
		c.Locals("user_id", id.UserID)
		return c.Next()
	}
}

// RequireRole rejects callers whose identity does not carry one of roles.
// It must run after JWTMiddleware.
func RequireRole(roles ...Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := IdentityFrom(c)
		if id == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "missing identity")
		}
		for _, role := range roles {
			if id.Role == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized. "+roleLabel(roles)+" access required.")
	}
}

func IdentityFrom(c *fiber.Ctx) *Identity {
	id, _ := c.Locals(identityKey).(*Identity)
	return id
}

func roleLabel(roles []Role) string {
	for _, r := range roles {
		if r == RoleAdmin {
			return "Admin"
		}
	}
	return "Super admin"
}

func parseBearer(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
