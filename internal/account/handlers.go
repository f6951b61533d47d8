package account

import (
	"errors"
	"log/slog"

	"backend-lostfound/internal/auth"
	"backend-lostfound/internal/invite"
	"backend-lostfound/internal/shared/validate"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the public login endpoint, POST / on the auth group.
func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/", func(c *fiber.Ctx) error {
		var in LoginInput
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		res, err := svc.Login(c.Context(), in)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(res)
	})
}

func RegisterAdminRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	superAdmin := auth.RequireRole(auth.RoleSuperAdmin)

	r.Post("/create", authMiddleware, superAdmin, func(c *fiber.Ctx) error {
		var in CreateAdminInput
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		inv, err := svc.CreateAdmin(c.Context(), in, *auth.IdentityFrom(c))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(fiber.Map{"admin": inv})
	})

	r.Get("/create", authMiddleware, superAdmin, func(c *fiber.Ctx) error {
		admins, err := svc.ListAdmins(c.Context(), c.Query("type") == "pending", *auth.IdentityFrom(c))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(admins)
	})

	r.Post("/activate", func(c *fiber.Ctx) error {
		var in ActivateInput
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		a, err := svc.Activate(c.Context(), in)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"admin":   a.Profile(),
			"message": "Admin account activated successfully",
		})
	})

	r.Post("/auth", func(c *fiber.Ctx) error {
		var in LoginInput
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		res, err := svc.AdminLogin(c.Context(), in)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(res)
	})
}

// RegisterDirectoryRoutes mounts the admin directory (GET and DELETE /admins).
func RegisterDirectoryRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		admins, err := svc.ListVisible(c.Context(), *auth.IdentityFrom(c), c.Query("organizationId"))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(admins)
	})

	r.Delete("/:id", authMiddleware, auth.RequireRole(auth.RoleSuperAdmin), func(c *fiber.Ctx) error {
		if err := svc.DeleteAdmin(c.Context(), c.Params("id"), *auth.IdentityFrom(c)); err != nil {
			return httpError(err)
		}
		return c.JSON(fiber.Map{"message": "Admin deleted successfully"})
	})
}

func httpError(err error) error {
	var vErr *validate.Error
	switch {
	case errors.As(err, &vErr):
		return fiber.NewError(fiber.StatusBadRequest, vErr.Message)
	case errors.Is(err, ErrUnauthorized):
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized. Super admin access required.")
	case errors.Is(err, ErrInvalidCredentials):
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, ErrInvalidActivation):
		return fiber.NewError(fiber.StatusBadRequest, "Invalid invite code or temporary password")
	case errors.Is(err, ErrActivationExpired), errors.Is(err, invite.ErrExpired):
		return fiber.NewError(fiber.StatusBadRequest, "Invite code has expired")
	case errors.Is(err, ErrAdminExists):
		return fiber.NewError(fiber.StatusBadRequest, "Admin with this email already exists")
	case errors.Is(err, ErrEmailTaken):
		return fiber.NewError(fiber.StatusBadRequest, "Account with this email already exists")
	case errors.Is(err, ErrSuperAdminDelete):
		return fiber.NewError(fiber.StatusBadRequest, "Cannot delete super admin")
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Admin not found")
	case errors.Is(err, invite.ErrInvalid):
		return fiber.NewError(fiber.StatusBadRequest, "Invalid or expired invite code")
	default:
		slog.Error("account request failed", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}
}
