package storage

import (
	"errors"
	"log/slog"

	"backend-lostfound/internal/auth"
	"backend-lostfound/internal/shared/validate"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/upload", authMiddleware, func(c *fiber.Ctx) error {
		file, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "file is required")
		}

		owner := ""
		if id := auth.IdentityFrom(c); id != nil {
			owner = id.UserID
		}

		name := c.FormValue("name", file.Filename)
		obj, err := svc.SavePhoto(c.Context(), owner, name, file.Size)
		if err != nil {
			var vErr *validate.Error
			if errors.As(err, &vErr) {
				return fiber.NewError(fiber.StatusBadRequest, vErr.Message)
			}
			slog.Error("save upload failed", "owner_id", owner, "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		}
		return c.JSON(fiber.Map{
			"id":  obj.ID,
			"url": obj.URL,
		})
	})
}
