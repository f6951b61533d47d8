package invite

import (
	"errors"
	"log/slog"

	"backend-lostfound/internal/auth"
	"backend-lostfound/internal/shared/validate"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		invites, err := svc.List(c.Context(), *auth.IdentityFrom(c), c.Query("organizationId"))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(invites)
	})

	r.Post("/", authMiddleware, auth.RequireRole(auth.RoleAdmin, auth.RoleSuperAdmin), func(c *fiber.Ctx) error {
		var in CreateInput
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		inv, err := svc.Create(c.Context(), in, *auth.IdentityFrom(c))
		if err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(inv)
	})
}

func httpError(err error) error {
	var vErr *validate.Error
	switch {
	case errors.As(err, &vErr):
		return fiber.NewError(fiber.StatusBadRequest, vErr.Message)
	case errors.Is(err, ErrUnauthorized):
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized. Admin access required.")
	case errors.Is(err, ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, "Admins can only invite into their own organization")
	default:
		slog.Error("invite request failed", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}
}
