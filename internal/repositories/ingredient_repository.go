package repositories

import "foodgram/internal/models"

// IngredientRepository defines the interface for the ingredient catalog.
type IngredientRepository interface {
	// GetAll lists ingredients ordered by name, optionally restricted to a
	// case-insensitive name prefix.
	GetAll(namePrefix string) ([]models.Ingredient, error)
	GetByID(id string) (*models.Ingredient, error)
	GetByIDs(ids []string) ([]models.Ingredient, error)
	CreateBatch(ingredients []models.Ingredient) error
}
