package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"foodgram/internal/models"
	"foodgram/internal/repositories"
	"foodgram/internal/storage"
	"foodgram/pkg/rabbitmq"
)

const (
	recipeImageDir   = "recipes"
	recipeNameMaxLen = 256
)

// EventPublisher delivers domain events to a message broker.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// RecipeEvent is published after a recipe is created, updated or deleted.
type RecipeEvent struct {
	Type       string    `json:"type"`
	RecipeID   string    `json:"recipe_id"`
	AuthorID   string    `json:"author_id"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RecipeInput carries the writable fields of a recipe. Image is an encoded
// image payload; it is required on create and optional on update.
type RecipeInput struct {
	Name        string                    `json:"name" validate:"required,max=256"`
	Image       string                    `json:"image"`
	Text        string                    `json:"text" validate:"required"`
	CookingTime int                       `json:"cooking_time" validate:"required,min=1"`
	Ingredients []models.IngredientAmount `json:"ingredients" validate:"required,min=1,dive"`
}

// RecipeQuery selects recipes for a listing. The bookmark flags are relative
// to the viewer.
type RecipeQuery struct {
	AuthorID         string
	IsFavorited      bool
	IsInShoppingCart bool
	Limit            int
}

// RecipeService handles business logic related to recipes.
type RecipeService struct {
	recipes     repositories.RecipeRepository
	ingredients repositories.IngredientRepository
	images      storage.ImageStore
	projector   *Projector
	publisher   EventPublisher
}

// NewRecipeService creates a new RecipeService. publisher may be nil.
func NewRecipeService(
	recipes repositories.RecipeRepository,
	ingredients repositories.IngredientRepository,
	images storage.ImageStore,
	projector *Projector,
	publisher EventPublisher,
) *RecipeService {
	return &RecipeService{
		recipes:     recipes,
		ingredients: ingredients,
		images:      images,
		projector:   projector,
		publisher:   publisher,
	}
}

// CreateRecipe stores a new recipe authored by the viewer.
func (s *RecipeService) CreateRecipe(ctx context.Context, viewer Viewer, input RecipeInput) (*RecipeView, error) {
	rows, err := s.checkInput(input)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Image) == "" {
		return nil, validationError("image is required")
	}
	ref, err := s.saveImage(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		AuthorID:    viewer.UserID,
		Name:        input.Name,
		Image:       ref,
		Text:        input.Text,
		CookingTime: input.CookingTime,
		Ingredients: rows,
	}
	if err := s.recipes.Create(recipe); err != nil {
		s.discardImage(ctx, ref)
		return nil, err
	}

	s.publish("recipe.created", recipe)
	return s.GetRecipe(viewer, recipe.ID)
}

// UpdateRecipe overwrites a recipe owned by the viewer. The ingredient list is
// replaced as a whole.
func (s *RecipeService) UpdateRecipe(ctx context.Context, viewer Viewer, id string, input RecipeInput) (*RecipeView, error) {
	recipe, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != viewer.UserID {
		return nil, ErrForbidden
	}
	rows, err := s.checkInput(input)
	if err != nil {
		return nil, err
	}

	previousImage := recipe.Image
	if strings.TrimSpace(input.Image) != "" {
		ref, err := s.saveImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		recipe.Image = ref
	}
	recipe.Name = input.Name
	recipe.Text = input.Text
	recipe.CookingTime = input.CookingTime
	recipe.Ingredients = rows

	if err := s.recipes.Update(recipe); err != nil {
		if recipe.Image != previousImage {
			s.discardImage(ctx, recipe.Image)
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: recipe %s", ErrNotFound, id)
		}
		return nil, err
	}
	if recipe.Image != previousImage {
		s.discardImage(ctx, previousImage)
	}

	s.publish("recipe.updated", recipe)
	return s.GetRecipe(viewer, recipe.ID)
}

// DeleteRecipe removes a recipe owned by the viewer together with its
// ingredient rows and every bookmark pointing at it.
func (s *RecipeService) DeleteRecipe(ctx context.Context, viewer Viewer, id string) error {
	recipe, err := s.load(id)
	if err != nil {
		return err
	}
	if recipe.AuthorID != viewer.UserID {
		return ErrForbidden
	}
	if err := s.recipes.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: recipe %s", ErrNotFound, id)
		}
		return err
	}
	s.discardImage(ctx, recipe.Image)
	s.publish("recipe.deleted", recipe)
	return nil
}

// GetRecipe returns a single recipe as seen by the viewer.
func (s *RecipeService) GetRecipe(viewer Viewer, id string) (*RecipeView, error) {
	recipe, err := s.load(id)
	if err != nil {
		return nil, err
	}
	return s.projector.Recipe(viewer, recipe)
}

// ListRecipes returns recipes newest first.
func (s *RecipeService) ListRecipes(viewer Viewer, query RecipeQuery) ([]RecipeView, error) {
	filter := repositories.RecipeFilter{AuthorID: query.AuthorID, Limit: query.Limit}
	if query.IsFavorited || query.IsInShoppingCart {
		if !viewer.Authenticated() {
			return []RecipeView{}, nil
		}
		if query.IsFavorited {
			filter.FavoritedBy = viewer.UserID
		}
		if query.IsInShoppingCart {
			filter.InCartOf = viewer.UserID
		}
	}

	recipes, err := s.recipes.List(filter)
	if err != nil {
		return nil, err
	}
	return s.projector.Recipes(viewer, recipes)
}

// ShortLink returns the short link of an existing recipe.
func (s *RecipeService) ShortLink(baseURL, id string) (string, error) {
	exists, err := s.recipes.Exists(id)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("%w: recipe %s", ErrNotFound, id)
	}
	return strings.TrimRight(baseURL, "/") + "/s/" + id, nil
}

// ResolveShortLink returns the frontend path a short link points to.
func (s *RecipeService) ResolveShortLink(id string) (string, error) {
	exists, err := s.recipes.Exists(id)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("%w: recipe %s", ErrNotFound, id)
	}
	return "/recipes/" + id + "/", nil
}

// checkInput enforces the recipe invariants and turns the requested
// ingredient list into join rows.
func (s *RecipeService) checkInput(input RecipeInput) ([]models.IngredientRecipe, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, validationError("name is required")
	}
	if len([]rune(input.Name)) > recipeNameMaxLen {
		return nil, validationError("name must be at most %d characters", recipeNameMaxLen)
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, validationError("text is required")
	}
	if input.CookingTime < 1 {
		return nil, validationError("cooking_time must be at least 1")
	}
	if len(input.Ingredients) == 0 {
		return nil, validationError("a recipe needs at least one ingredient")
	}

	seen := make(map[string]bool, len(input.Ingredients))
	ids := make([]string, 0, len(input.Ingredients))
	rows := make([]models.IngredientRecipe, 0, len(input.Ingredients))
	for _, item := range input.Ingredients {
		if item.ID == "" {
			return nil, validationError("ingredient id is required")
		}
		if seen[item.ID] {
			return nil, validationError("ingredient %s is listed more than once", item.ID)
		}
		if item.Amount < 1 {
			return nil, validationError("amount of ingredient %s must be at least 1", item.ID)
		}
		seen[item.ID] = true
		ids = append(ids, item.ID)
		rows = append(rows, models.IngredientRecipe{IngredientID: item.ID, Amount: item.Amount})
	}

	known, err := s.ingredients.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(known) != len(ids) {
		found := make(map[string]bool, len(known))
		for _, ing := range known {
			found[ing.ID] = true
		}
		for _, id := range ids {
			if !found[id] {
				return nil, validationError("ingredient %s does not exist", id)
			}
		}
	}
	return rows, nil
}

func (s *RecipeService) load(id string) (*models.Recipe, error) {
	recipe, err := s.recipes.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: recipe %s", ErrNotFound, id)
		}
		return nil, err
	}
	return recipe, nil
}

func (s *RecipeService) saveImage(ctx context.Context, payload string) (string, error) {
	img, err := storage.DecodeImage(payload)
	if err != nil {
		return "", fmt.Errorf("%w: image: %v", ErrValidation, err)
	}
	return s.images.Save(ctx, recipeImageDir, img)
}

func (s *RecipeService) discardImage(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := s.images.Delete(ctx, ref); err != nil {
		log.Printf("Warning: failed to delete image %s: %v", ref, err)
	}
}

// publish emits a recipe event. Broker failures are logged, never returned:
// the write has already been committed.
func (s *RecipeService) publish(eventType string, recipe *models.Recipe) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(RecipeEvent{
		Type:       eventType,
		RecipeID:   recipe.ID,
		AuthorID:   recipe.AuthorID,
		Name:       recipe.Name,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", eventType, err)
		return
	}
	if err := s.publisher.Publish(rabbitmq.RecipeExchange, eventType, body); err != nil {
		log.Printf("Warning: failed to publish %s event for recipe %s: %v", eventType, recipe.ID, err)
	}
}
