package handlers

import (
	"errors"

	"flagship/internal/middleware"
	"flagship/internal/models"
	"flagship/internal/services"

	"github.com/gofiber/fiber/v2"
)

// errorResponse maps a service error to its HTTP status and writes a JSON
// {message} body. Unrecognized errors become 500s.
func errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrUnauthenticated):
		status = fiber.StatusUnauthorized
	case errors.Is(err, services.ErrUnauthorized):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrFlagNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrDuplicateUsername),
		errors.Is(err, services.ErrDuplicateProject),
		errors.Is(err, services.ErrDuplicateFlag),
		errors.Is(err, services.ErrInvalidArgument):
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{
		"message": err.Error(),
	})
}

// principalFromContext returns the authenticated principal stored by the
// auth middleware. The second return value is false if the route was not
// wrapped with AuthRequired.
func principalFromContext(c *fiber.Ctx) (models.Principal, bool) {
	principal, ok := c.Locals(middleware.PrincipalKey).(models.Principal)
	return principal, ok
}
