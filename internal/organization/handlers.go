package organization

import (
	"errors"
	"log/slog"

	"backend-lostfound/internal/auth"
	"backend-lostfound/internal/shared/validate"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		orgs, err := svc.List(c.Context(), *auth.IdentityFrom(c))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(orgs)
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		org, err := svc.Get(c.Context(), c.Params("id"), *auth.IdentityFrom(c))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(org)
	})

	r.Post("/", authMiddleware, auth.RequireRole(auth.RoleSuperAdmin), func(c *fiber.Ctx) error {
		var in CreateInput
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		org, err := svc.Create(c.Context(), in, *auth.IdentityFrom(c))
		if err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(org)
	})
}

func httpError(err error) error {
	var vErr *validate.Error
	switch {
	case errors.As(err, &vErr):
		return fiber.NewError(fiber.StatusBadRequest, vErr.Message)
	case errors.Is(err, ErrSlugTaken):
		return fiber.NewError(fiber.StatusBadRequest, "Organization slug already exists")
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Organization not found")
	case errors.Is(err, ErrUnauthorized):
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized. Super admin access required.")
	default:
		slog.Error("organization request failed", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}
}
