package repositories

import (
	"fmt"
	"strings"

	"foodgram/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const ingredientBatchSize = 500

// GORMIngredientRepository is a GORM implementation of IngredientRepository.
type GORMIngredientRepository struct {
	db *gorm.DB
}

// NewGORMIngredientRepository creates a new instance of GORMIngredientRepository.
func NewGORMIngredientRepository(db *gorm.DB) *GORMIngredientRepository {
	return &GORMIngredientRepository{db: db}
}

// GetAll lists the catalog ordered by name.
func (r *GORMIngredientRepository) GetAll(namePrefix string) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	query := r.db.Order("name").Order("measurement_unit")
	if namePrefix != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\'", escapeLike(strings.ToLower(namePrefix))+"%")
	}
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to get ingredients: %w", err)
	}
	return ingredients, nil
}

// GetByID retrieves a single ingredient.
func (r *GORMIngredientRepository) GetByID(id string) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.First(&ingredient, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get ingredient by ID %s: %w", id, translate(err))
	}
	return &ingredient, nil
}

// GetByIDs returns the ingredients matching ids. Unknown ids are skipped.
func (r *GORMIngredientRepository) GetByIDs(ids []string) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if len(ids) == 0 {
		return ingredients, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to get ingredients by IDs: %w", err)
	}
	return ingredients, nil
}

// CreateBatch inserts ingredients in one transaction.
func (r *GORMIngredientRepository) CreateBatch(ingredients []models.Ingredient) error {
	if len(ingredients) == 0 {
		return nil
	}
	for i := range ingredients {
		if ingredients[i].ID == "" {
			ingredients[i].ID = uuid.New().String()
		}
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(ingredients, ingredientBatchSize).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create ingredients: %w", translate(err))
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
