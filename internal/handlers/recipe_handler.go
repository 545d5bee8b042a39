package handlers

import (
	"foodgram/internal/middleware"
	"foodgram/internal/models"
	"foodgram/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// RecipeHandler handles HTTP requests for recipes, bookmarks and the
// shopping list.
type RecipeHandler struct {
	recipes   *services.RecipeService
	relations *services.RelationService
	validate  *validator.Validate
	publicURL string
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(recipes *services.RecipeService, relations *services.RelationService, validate *validator.Validate, publicURL string) *RecipeHandler {
	return &RecipeHandler{
		recipes:   recipes,
		relations: relations,
		validate:  validate,
		publicURL: publicURL,
	}
}

// RegisterRoutes registers the recipe routes with the Fiber app.
func (h *RecipeHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	recipes := router.Group("/recipes")
	recipes.Get("/", h.HandleListRecipes)
	recipes.Post("/", requireAuth, h.HandleCreateRecipe)
	recipes.Get("/download_shopping_cart", requireAuth, h.HandleDownloadShoppingCart)
	recipes.Get("/:id", h.HandleGetRecipe)
	recipes.Patch("/:id", requireAuth, h.HandleUpdateRecipe)
	recipes.Put("/:id", requireAuth, h.HandleUpdateRecipe)
	recipes.Delete("/:id", requireAuth, h.HandleDeleteRecipe)
	recipes.Get("/:id/get-link", h.HandleGetLink)
	recipes.Post("/:id/favorite", requireAuth, h.relationAdder(models.RelationFavorite))
	recipes.Delete("/:id/favorite", requireAuth, h.relationRemover(models.RelationFavorite))
	recipes.Post("/:id/shopping_cart", requireAuth, h.relationAdder(models.RelationShoppingCart))
	recipes.Delete("/:id/shopping_cart", requireAuth, h.relationRemover(models.RelationShoppingCart))
}

// RegisterShortLinks registers the short link redirect outside the API prefix.
func (h *RecipeHandler) RegisterShortLinks(router fiber.Router) {
	router.Get("/s/:id", h.HandleShortLink)
}

// HandleListRecipes lists recipes newest first. Supported filters are
// author, is_favorited, is_in_shopping_cart and limit.
func (h *RecipeHandler) HandleListRecipes(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		limit = 0
	}
	query := services.RecipeQuery{
		AuthorID:         c.Query("author"),
		IsFavorited:      c.QueryBool("is_favorited", false),
		IsInShoppingCart: c.QueryBool("is_in_shopping_cart", false),
		Limit:            limit,
	}
	views, err := h.recipes.ListRecipes(viewerOf(c, h.publicURL), query)
	if err != nil {
		return respondError(c, err, "list recipes")
	}
	return c.JSON(views)
}

func (h *RecipeHandler) HandleGetRecipe(c *fiber.Ctx) error {
	view, err := h.recipes.GetRecipe(viewerOf(c, h.publicURL), c.Params("id"))
	if err != nil {
		return respondError(c, err, "get recipe")
	}
	return c.JSON(view)
}

func (h *RecipeHandler) HandleCreateRecipe(c *fiber.Ctx) error {
	var input services.RecipeInput
	if ok, err := validateBody(c, h.validate, &input); !ok {
		return err
	}
	view, err := h.recipes.CreateRecipe(c.UserContext(), viewerOf(c, h.publicURL), input)
	if err != nil {
		return respondError(c, err, "create recipe")
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

func (h *RecipeHandler) HandleUpdateRecipe(c *fiber.Ctx) error {
	var input services.RecipeInput
	if ok, err := validateBody(c, h.validate, &input); !ok {
		return err
	}
	view, err := h.recipes.UpdateRecipe(c.UserContext(), viewerOf(c, h.publicURL), c.Params("id"), input)
	if err != nil {
		return respondError(c, err, "update recipe")
	}
	return c.JSON(view)
}

func (h *RecipeHandler) HandleDeleteRecipe(c *fiber.Ctx) error {
	if err := h.recipes.DeleteRecipe(c.UserContext(), viewerOf(c, h.publicURL), c.Params("id")); err != nil {
		return respondError(c, err, "delete recipe")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *RecipeHandler) HandleGetLink(c *fiber.Ctx) error {
	viewer := viewerOf(c, h.publicURL)
	link, err := h.recipes.ShortLink(viewer.BaseURL, c.Params("id"))
	if err != nil {
		return respondError(c, err, "get short link")
	}
	return c.JSON(fiber.Map{"short-link": link})
}

func (h *RecipeHandler) HandleShortLink(c *fiber.Ctx) error {
	target, err := h.recipes.ResolveShortLink(c.Params("id"))
	if err != nil {
		return respondError(c, err, "resolve short link")
	}
	return c.Redirect(target, fiber.StatusFound)
}

func (h *RecipeHandler) relationAdder(kind models.RelationKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := h.relations.AddRelation(viewerOf(c, h.publicURL), c.Params("id"), kind)
		if err != nil {
			return respondError(c, err, "add recipe to "+string(kind))
		}
		return c.Status(fiber.StatusCreated).JSON(view)
	}
}

func (h *RecipeHandler) relationRemover(kind models.RelationKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := h.relations.RemoveRelation(viewerOf(c, h.publicURL), c.Params("id"), kind); err != nil {
			return respondError(c, err, "remove recipe from "+string(kind))
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// HandleDownloadShoppingCart sends the caller's aggregated shopping list as
// a plain text attachment.
func (h *RecipeHandler) HandleDownloadShoppingCart(c *fiber.Ctx) error {
	items, err := h.relations.BuildShoppingList(middleware.UserID(c))
	if err != nil {
		return respondError(c, err, "build shopping list")
	}
	c.Attachment("cart.txt")
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(services.RenderShoppingList(items))
}
