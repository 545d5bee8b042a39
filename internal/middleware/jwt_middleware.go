package middleware

import (
	"log"
	"strings"

	"foodgram/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token.
// Both "Bearer <token>" and "Token <token>" headers are accepted.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		tokenString, ok := parseAuthorization(authHeader)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>' or 'Token <token>'",
			})
		}

		if err := authenticate(c, authService, tokenString); err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		// Continue to the next handler
		return c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets
// anonymous requests through otherwise.
func OptionalAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenString, ok := parseAuthorization(c.Get("Authorization")); ok {
			if err := authenticate(c, authService, tokenString); err != nil {
				log.Printf("Ignoring invalid token on public route: %v", err)
			}
		}
		return c.Next()
	}
}

// UserID returns the authenticated user id, or "" for anonymous requests.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

// Token returns the raw token of the authenticated request.
func Token(c *fiber.Ctx) string {
	token, _ := c.Locals("token").(string)
	return token
}

func parseAuthorization(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || (parts[0] != "Bearer" && parts[0] != "Token") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func authenticate(c *fiber.Ctx, authService *services.AuthService, tokenString string) error {
	claims, err := authService.ValidateToken(c.UserContext(), tokenString)
	if err != nil {
		return err
	}

	// Store claims in Fiber context for subsequent handlers
	c.Locals("user_id", claims["user_id"])
	c.Locals("username", claims["username"])
	c.Locals("token", tokenString)
	return nil
}
