package services_test

import (
	"foodgram/internal/models"
	"foodgram/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetAll() ([]models.User, error) {
	args := m.Called()
	return args.Get(0).([]models.User), args.Error(1)
}

// MockFollowRepository is a mock implementation of repositories.FollowRepository
type MockFollowRepository struct {
	mock.Mock
}

func (m *MockFollowRepository) Create(follow *models.Follow) error {
	args := m.Called(follow)
	return args.Error(0)
}

func (m *MockFollowRepository) Delete(userID, followingID string) error {
	args := m.Called(userID, followingID)
	return args.Error(0)
}

func (m *MockFollowRepository) FollowedAmong(userID string, candidateIDs []string) (map[string]bool, error) {
	args := m.Called(userID, candidateIDs)
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *MockFollowRepository) ListFollowing(userID string) ([]models.User, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.User), args.Error(1)
}

// MockIngredientRepository is a mock implementation of repositories.IngredientRepository
type MockIngredientRepository struct {
	mock.Mock
}

func (m *MockIngredientRepository) GetAll(namePrefix string) ([]models.Ingredient, error) {
	args := m.Called(namePrefix)
	return args.Get(0).([]models.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) GetByID(id string) (*models.Ingredient, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) GetByIDs(ids []string) ([]models.Ingredient, error) {
	args := m.Called(ids)
	return args.Get(0).([]models.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) CreateBatch(ingredients []models.Ingredient) error {
	args := m.Called(ingredients)
	return args.Error(0)
}

// MockRecipeRepository is a mock implementation of repositories.RecipeRepository
type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) Create(recipe *models.Recipe) error {
	args := m.Called(recipe)
	return args.Error(0)
}

func (m *MockRecipeRepository) Update(recipe *models.Recipe) error {
	args := m.Called(recipe)
	return args.Error(0)
}

func (m *MockRecipeRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRecipeRepository) GetByID(id string) (*models.Recipe, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) Exists(id string) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecipeRepository) List(filter repositories.RecipeFilter) ([]models.Recipe, error) {
	args := m.Called(filter)
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) CountByAuthors(authorIDs []string) (map[string]int64, error) {
	args := m.Called(authorIDs)
	return args.Get(0).(map[string]int64), args.Error(1)
}

// MockRelationRepository is a mock implementation of repositories.RelationRepository
type MockRelationRepository struct {
	mock.Mock
}

func (m *MockRelationRepository) Create(relation *models.UserRecipeRelation) error {
	args := m.Called(relation)
	return args.Error(0)
}

func (m *MockRelationRepository) Delete(userID, recipeID string, kind models.RelationKind) error {
	args := m.Called(userID, recipeID, kind)
	return args.Error(0)
}

func (m *MockRelationRepository) RecipesAmong(userID string, kind models.RelationKind, recipeIDs []string) (map[string]bool, error) {
	args := m.Called(userID, kind, recipeIDs)
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *MockRelationRepository) ShoppingList(userID string) ([]models.ShoppingListItem, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.ShoppingListItem), args.Error(1)
}

// MockPublisher records published events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(exchange, routingKey string, body []byte) error {
	args := m.Called(exchange, routingKey, body)
	return args.Error(0)
}
