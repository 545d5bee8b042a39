package repositories

import (
	"fmt"
	"time"

	"foodgram/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMRecipeRepository is a GORM implementation of RecipeRepository.
type GORMRecipeRepository struct {
	db *gorm.DB
}

// NewGORMRecipeRepository creates a new instance of GORMRecipeRepository.
func NewGORMRecipeRepository(db *gorm.DB) *GORMRecipeRepository {
	return &GORMRecipeRepository{db: db}
}

// Create stores the recipe and its ingredient rows atomically.
func (r *GORMRecipeRepository) Create(recipe *models.Recipe) error {
	if recipe.ID == "" {
		recipe.ID = uuid.New().String()
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		return insertIngredientRows(tx, recipe)
	})
	if err != nil {
		return fmt.Errorf("failed to create recipe: %w", translate(err))
	}
	return nil
}

// Update applies the scalar fields, then deletes and recreates the ingredient rows.
func (r *GORMRecipeRepository) Update(recipe *models.Recipe) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Updates(map[string]interface{}{
			"name":         recipe.Name,
			"image":        recipe.Image,
			"text":         recipe.Text,
			"cooking_time": recipe.CookingTime,
			"updated_at":   time.Now(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.IngredientRecipe{}).Error; err != nil {
			return err
		}
		return insertIngredientRows(tx, recipe)
	})
	if err != nil {
		return fmt.Errorf("failed to update recipe %s: %w", recipe.ID, translate(err))
	}
	return nil
}

// Delete removes the recipe together with its ingredient rows and bookmarks.
func (r *GORMRecipeRepository) Delete(id string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.IngredientRecipe{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.UserRecipeRelation{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Recipe{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete recipe %s: %w", id, err)
	}
	return nil
}

// GetByID retrieves a recipe with its author and ingredients.
func (r *GORMRecipeRepository) GetByID(id string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.withRelations(r.db).First(&recipe, "recipes.id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get recipe by ID %s: %w", id, translate(err))
	}
	return &recipe, nil
}

// Exists reports whether a recipe with the given id is stored.
func (r *GORMRecipeRepository) Exists(id string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check recipe %s: %w", id, err)
	}
	return count > 0, nil
}

// List returns recipes matching filter, newest first.
func (r *GORMRecipeRepository) List(filter RecipeFilter) ([]models.Recipe, error) {
	query := r.withRelations(r.db).Order("recipes.created_at DESC").Order("recipes.id")
	if filter.AuthorID != "" {
		query = query.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if filter.FavoritedBy != "" {
		query = query.Where("recipes.id IN (?)", r.relationSubquery(filter.FavoritedBy, models.RelationFavorite))
	}
	if filter.InCartOf != "" {
		query = query.Where("recipes.id IN (?)", r.relationSubquery(filter.InCartOf, models.RelationShoppingCart))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// CountByAuthors returns the number of recipes per author id.
func (r *GORMRecipeRepository) CountByAuthors(authorIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		AuthorID string
		Total    int64
	}
	err := r.db.Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

func (r *GORMRecipeRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Ingredients.Ingredient")
}

func (r *GORMRecipeRepository) relationSubquery(userID string, kind models.RelationKind) *gorm.DB {
	return r.db.Model(&models.UserRecipeRelation{}).
		Select("recipe_id").
		Where("user_id = ? AND kind = ?", userID, kind)
}

// insertIngredientRows writes fresh join rows for recipe.Ingredients.
func insertIngredientRows(tx *gorm.DB, recipe *models.Recipe) error {
	if len(recipe.Ingredients) == 0 {
		return nil
	}
	for i := range recipe.Ingredients {
		recipe.Ingredients[i].ID = uuid.New().String()
		recipe.Ingredients[i].RecipeID = recipe.ID
	}
	return tx.Omit(clause.Associations).Create(&recipe.Ingredients).Error
}
