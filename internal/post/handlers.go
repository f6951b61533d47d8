package post

import (
	"errors"
	"log/slog"

	"backend-lostfound/internal/auth"
	"backend-lostfound/internal/shared/validate"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/", func(c *fiber.Ctx) error {
		posts, err := svc.List(c.Context(), ListFilter{
			Category: c.Query("category"),
			Status:   c.Query("status"),
			Location: c.Query("location"),
			Query:    c.Query("q"),
		})
		if err != nil {
			return httpError(err)
		}
		return c.JSON(posts)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		p, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(p)
	})

	r.Post("/", func(c *fiber.Ctx) error {
		in := CreateInput{
			Title:       c.FormValue("title"),
			Description: c.FormValue("description"),
			Category:    Category(c.FormValue("category")),
			Location:    c.FormValue("location"),
			Contact:     c.FormValue("contact"),
		}
		if photo, err := c.FormFile("photo"); err == nil {
			in.PhotoSize = photo.Size
		}

		p, err := svc.Create(c.Context(), in)
		if err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	})

	r.Patch("/:id", func(c *fiber.Ctx) error {
		var change StatusChange
		if err := c.BodyParser(&change); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		p, err := svc.SubmitProof(c.Context(), c.Params("id"), change)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(p)
	})
}

// RegisterAdminRoutes mounts the verification queue endpoints under the
// admin group.
func RegisterAdminRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	guard := auth.RequireRole(auth.RoleAdmin, auth.RoleSuperAdmin)

	r.Post("/verify/:id", authMiddleware, guard, func(c *fiber.Ctx) error {
		var d Decision
		if err := c.BodyParser(&d); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		p, err := svc.Verify(c.Context(), c.Params("id"), d, *auth.IdentityFrom(c))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(p)
	})
}

func httpError(err error) error {
	var vErr *validate.Error
	switch {
	case errors.As(err, &vErr):
		return fiber.NewError(fiber.StatusBadRequest, vErr.Message)
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Post not found")
	case errors.Is(err, ErrNotPending):
		return fiber.NewError(fiber.StatusBadRequest, "Post is not pending verification")
	case errors.Is(err, ErrInvalidTransition):
		return fiber.NewError(fiber.StatusBadRequest, "Only open posts can be submitted for verification")
	case errors.Is(err, ErrInvalidAction):
		return fiber.NewError(fiber.StatusBadRequest, "Invalid action. Must be 'approve' or 'reject'")
	case errors.Is(err, ErrUnauthorized):
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized. Admin access required.")
	default:
		slog.Error("post request failed", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}
}
