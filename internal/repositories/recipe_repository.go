package repositories

import "foodgram/internal/models"

// RecipeFilter narrows a recipe listing. Zero values disable a criterion.
type RecipeFilter struct {
	AuthorID    string
	FavoritedBy string
	InCartOf    string
	Limit       int
}

// RecipeRepository defines the interface for recipe data access.
// Recipes are returned with Author and Ingredients.Ingredient populated.
type RecipeRepository interface {
	Create(recipe *models.Recipe) error
	// Update overwrites the scalar fields and replaces every ingredient row.
	Update(recipe *models.Recipe) error
	Delete(id string) error
	GetByID(id string) (*models.Recipe, error)
	Exists(id string) (bool, error)
	// List returns recipes newest first.
	List(filter RecipeFilter) ([]models.Recipe, error)
	CountByAuthors(authorIDs []string) (map[string]int64, error)
}
