package services

import (
	"errors"
	"fmt"
	"strings"

	"foodgram/internal/models"
	"foodgram/internal/repositories"
)

// RelationService manages favorites and the shopping cart.
type RelationService struct {
	recipes   repositories.RecipeRepository
	relations repositories.RelationRepository
	projector *Projector
}

// NewRelationService creates a new RelationService.
func NewRelationService(recipes repositories.RecipeRepository, relations repositories.RelationRepository, projector *Projector) *RelationService {
	return &RelationService{
		recipes:   recipes,
		relations: relations,
		projector: projector,
	}
}

// AddRelation bookmarks a recipe for the viewer under kind.
func (s *RelationService) AddRelation(viewer Viewer, recipeID string, kind models.RelationKind) (*RecipeShortView, error) {
	if !kind.Valid() {
		return nil, validationError("unknown relation kind %q", kind)
	}
	recipe, err := s.recipes.GetByID(recipeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: recipe %s", ErrNotFound, recipeID)
		}
		return nil, err
	}

	err = s.relations.Create(&models.UserRecipeRelation{
		UserID:   viewer.UserID,
		RecipeID: recipeID,
		Kind:     kind,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("%w: recipe %s is already in %s", ErrConflict, recipeID, kind)
		}
		return nil, err
	}

	view := s.projector.ShortRecipes(viewer, []models.Recipe{*recipe})[0]
	return &view, nil
}

// RemoveRelation drops a bookmark. Removing a bookmark that does not exist
// fails with ErrRelationNotFound.
func (s *RelationService) RemoveRelation(viewer Viewer, recipeID string, kind models.RelationKind) error {
	if !kind.Valid() {
		return validationError("unknown relation kind %q", kind)
	}
	exists, err := s.recipes.Exists(recipeID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: recipe %s", ErrNotFound, recipeID)
	}

	if err := s.relations.Delete(viewer.UserID, recipeID, kind); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: recipe %s is not in %s", ErrRelationNotFound, recipeID, kind)
		}
		return err
	}
	return nil
}

// BuildShoppingList sums the ingredients of every recipe in the user's cart.
func (s *RelationService) BuildShoppingList(userID string) ([]models.ShoppingListItem, error) {
	items, err := s.relations.ShoppingList(userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.ShoppingListItem{}
	}
	return items, nil
}

// RenderShoppingList formats items one per line as "name (unit) - total".
func RenderShoppingList(items []models.ShoppingListItem) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("%s (%s) - %d", item.Name, item.MeasurementUnit, item.Amount)
	}
	return strings.Join(lines, "\n")
}
