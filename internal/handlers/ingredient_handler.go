package handlers

import (
	"foodgram/internal/services"

	"github.com/gofiber/fiber/v2"
)

// IngredientHandler serves the read-only ingredient catalog.
type IngredientHandler struct {
	ingredients *services.IngredientService
}

// NewIngredientHandler creates a new IngredientHandler.
func NewIngredientHandler(ingredients *services.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredients: ingredients}
}

// RegisterRoutes registers the ingredient routes.
func (h *IngredientHandler) RegisterRoutes(router fiber.Router) {
	ingredients := router.Group("/ingredients")
	ingredients.Get("/", h.HandleListIngredients)
	ingredients.Get("/:id", h.HandleGetIngredient)
}

// HandleListIngredients lists the catalog, filtered by the "name" prefix.
func (h *IngredientHandler) HandleListIngredients(c *fiber.Ctx) error {
	ingredients, err := h.ingredients.ListIngredients(c.Query("name"))
	if err != nil {
		return respondError(c, err, "list ingredients")
	}
	return c.JSON(ingredients)
}

func (h *IngredientHandler) HandleGetIngredient(c *fiber.Ctx) error {
	ingredient, err := h.ingredients.GetIngredient(c.Params("id"))
	if err != nil {
		return respondError(c, err, "get ingredient")
	}
	return c.JSON(ingredient)
}
