package repositories

import "foodgram/internal/models"

// RelationRepository defines the interface for favorite and shopping-cart bookmarks.
type RelationRepository interface {
	Create(relation *models.UserRecipeRelation) error
	Delete(userID, recipeID string, kind models.RelationKind) error
	// RecipesAmong returns the subset of recipeIDs bookmarked by userID under kind.
	RecipesAmong(userID string, kind models.RelationKind, recipeIDs []string) (map[string]bool, error)
	// ShoppingList sums ingredient amounts over every recipe in the user's cart,
	// grouped by ingredient name and unit, ordered by name.
	ShoppingList(userID string) ([]models.ShoppingListItem, error)
}
