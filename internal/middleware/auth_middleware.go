package middleware

import (
	"strings"

	"eduquiz/internal/domain"
	"eduquiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	UserIDKey           = "userID"   // Key for storing the caller's user ID in fiber.Ctx locals
	UserRoleKey         = "userRole" // Key for storing the caller's role in fiber.Ctx locals
)

// Protected requires a valid JWT and stores the caller's identity in the
// request locals.
func Protected(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    string(domain.CodeUnauthorized),
				Message: "Authorization header is missing",
				Status:  fiber.StatusUnauthorized,
			})
		}

		if !strings.HasPrefix(authHeader, BearerSchema) {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    string(domain.CodeUnauthorized),
				Message: "Authorization scheme is not Bearer",
				Status:  fiber.StatusUnauthorized,
			})
		}

		tokenString := strings.TrimPrefix(authHeader, BearerSchema)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    string(domain.CodeUnauthorized),
				Message: "Token is empty",
				Status:  fiber.StatusUnauthorized,
			})
		}

		claims, err := authService.ValidateJWT(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    string(domain.CodeUnauthorized),
				Message: "Invalid or expired token",
				Status:  fiber.StatusUnauthorized,
			})
		}

		c.Locals(UserIDKey, claims.UserID)
		c.Locals(UserRoleKey, claims.Role)

		return c.Next()
	}
}

// CallerFromContext rebuilds the authenticated caller from the locals set by
// Protected. The zero Caller means the request was not authenticated.
func CallerFromContext(c *fiber.Ctx) domain.Caller {
	caller := domain.Caller{}
	if id, ok := c.Locals(UserIDKey).(string); ok {
		caller.ID = id
	}
	if role, ok := c.Locals(UserRoleKey).(string); ok {
		caller.Role = domain.Role(role)
	}
	return caller
}
