package services

import (
	"errors"
	"fmt"
	"strings"

	"foodgram/internal/models"
	"foodgram/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// IngredientService exposes the ingredient catalog.
type IngredientService struct {
	repo     repositories.IngredientRepository
	validate *validator.Validate
}

// NewIngredientService creates a new IngredientService.
func NewIngredientService(repo repositories.IngredientRepository) *IngredientService {
	return &IngredientService{
		repo:     repo,
		validate: validator.New(),
	}
}

// ListIngredients returns the catalog ordered by name, optionally filtered by
// a case-insensitive name prefix.
func (s *IngredientService) ListIngredients(namePrefix string) ([]models.Ingredient, error) {
	return s.repo.GetAll(strings.TrimSpace(namePrefix))
}

// GetIngredient returns a single catalog entry.
func (s *IngredientService) GetIngredient(id string) (*models.Ingredient, error) {
	ingredient, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ingredient %s", ErrNotFound, id)
		}
		return nil, err
	}
	return ingredient, nil
}

// ImportIngredients validates and stores a batch of catalog entries.
// Nothing is stored when any entry is invalid.
func (s *IngredientService) ImportIngredients(ingredients []models.Ingredient) (int, error) {
	for i := range ingredients {
		ingredients[i].Name = strings.TrimSpace(ingredients[i].Name)
		ingredients[i].MeasurementUnit = strings.TrimSpace(ingredients[i].MeasurementUnit)
		if err := s.validate.Struct(ingredients[i]); err != nil {
			return 0, validationError("ingredient #%d (%q): %v", i+1, ingredients[i].Name, err)
		}
	}
	if err := s.repo.CreateBatch(ingredients); err != nil {
		return 0, err
	}
	return len(ingredients), nil
}
