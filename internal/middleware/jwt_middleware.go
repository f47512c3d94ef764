package middleware

import (
	"log"
	"strings"

	"flagship/internal/models"
	"flagship/internal/repositories"
	"flagship/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PrincipalKey is the locals key under which the authenticated principal is
// stored for the remainder of the request. No cross-request state.
const PrincipalKey = "principal"

// AuthRequired is a Fiber middleware that resolves the bearer token in the
// Authorization header to an authenticated principal. The token subject is
// looked up in the user store and the token is validated against that user;
// any failure ends the request with 401. Routes that allow anonymous access
// are simply not wrapped with this middleware.
func AuthRequired(authService *services.AuthService, userRepo repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		tokenString := parts[1]

		username, err := authService.ExtractUsername(tokenString)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		user, err := userRepo.GetByUsername(username)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		if !authService.ValidateTokenForUser(tokenString, user) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		c.Locals(PrincipalKey, models.Principal{
			ID:       user.ID,
			Username: user.Username,
		})

		return c.Next()
	}
}
