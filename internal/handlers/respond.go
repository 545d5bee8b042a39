package handlers

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"foodgram/internal/middleware"
	"foodgram/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// NewValidator returns a validator that also knows the "username" rule.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

// validateBody parses the request body into dst and validates it. It writes
// the 400 response itself and reports false when the request is rejected.
func validateBody(c *fiber.Ctx, v *validator.Validate, dst interface{}) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		log.Printf("Error parsing request body on %s: %v", c.Path(), err)
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := v.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"error":   err.Error(),
			})
		}
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}
	return true, nil
}

// respondError maps service errors onto HTTP statuses.
func respondError(c *fiber.Ctx, err error, action string) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrRelationNotFound),
		errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrSelfReference),
		errors.Is(err, services.ErrConflict):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrInvalidCredentials):
		status = fiber.StatusUnauthorized
	}

	if status == fiber.StatusInternalServerError {
		log.Printf("Error trying to %s: %v", action, err)
		return c.Status(status).JSON(fiber.Map{
			"message": "Could not " + action,
			"error":   err.Error(),
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"message": "Failed to " + action,
		"error":   err.Error(),
	})
}

// viewerOf builds the projection context of the current request.
func viewerOf(c *fiber.Ctx, publicURL string) services.Viewer {
	base := strings.TrimRight(publicURL, "/")
	if base == "" {
		base = c.BaseURL()
	}
	return services.Viewer{UserID: middleware.UserID(c), BaseURL: base}
}

// recipesLimit reads the optional recipes_limit query parameter.
func recipesLimit(c *fiber.Ctx) (int, error) {
	limit := c.QueryInt("recipes_limit", 0)
	if limit < 0 {
		return 0, fmt.Errorf("%w: recipes_limit must not be negative", services.ErrValidation)
	}
	return limit, nil
}
