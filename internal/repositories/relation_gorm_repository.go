package repositories

import (
	"fmt"

	"foodgram/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMRelationRepository is a GORM implementation of RelationRepository.
type GORMRelationRepository struct {
	db *gorm.DB
}

// NewGORMRelationRepository creates a new instance of GORMRelationRepository.
func NewGORMRelationRepository(db *gorm.DB) *GORMRelationRepository {
	return &GORMRelationRepository{db: db}
}

// Create inserts a bookmark. The unique index on (user, recipe, kind)
// turns a repeated bookmark into ErrDuplicate.
func (r *GORMRelationRepository) Create(relation *models.UserRecipeRelation) error {
	if relation.ID == "" {
		relation.ID = uuid.New().String()
	}
	if err := r.db.Omit("User", "Recipe").Create(relation).Error; err != nil {
		return fmt.Errorf("failed to create %s relation: %w", relation.Kind, translate(err))
	}
	return nil
}

// Delete removes a bookmark; a missing bookmark yields ErrNotFound.
func (r *GORMRelationRepository) Delete(userID, recipeID string, kind models.RelationKind) error {
	res := r.db.
		Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, kind).
		Delete(&models.UserRecipeRelation{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete %s relation: %w", kind, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s relation for recipe %s: %w", kind, recipeID, ErrNotFound)
	}
	return nil
}

// RecipesAmong returns which of recipeIDs the user bookmarked under kind.
func (r *GORMRelationRepository) RecipesAmong(userID string, kind models.RelationKind, recipeIDs []string) (map[string]bool, error) {
	result := make(map[string]bool, len(recipeIDs))
	if userID == "" || len(recipeIDs) == 0 {
		return result, nil
	}
	var ids []string
	err := r.db.Model(&models.UserRecipeRelation{}).
		Where("user_id = ? AND kind = ? AND recipe_id IN ?", userID, kind, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load %s relations: %w", kind, err)
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

// ShoppingList aggregates the user's cart in a single grouped query.
func (r *GORMRelationRepository) ShoppingList(userID string) ([]models.ShoppingListItem, error) {
	var items []models.ShoppingListItem
	err := r.db.Model(&models.IngredientRecipe{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(ingredient_recipes.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = ingredient_recipes.ingredient_id").
		Joins("JOIN user_recipe_relations ON user_recipe_relations.recipe_id = ingredient_recipes.recipe_id").
		Where("user_recipe_relations.user_id = ? AND user_recipe_relations.kind = ?", userID, models.RelationShoppingCart).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name").
		Order("ingredients.measurement_unit").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to build shopping list for %s: %w", userID, err)
	}
	return items, nil
}
