package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"foodgram/internal/database"
	"foodgram/internal/handlers"
	"foodgram/internal/middleware"
	"foodgram/internal/models"
	"foodgram/internal/repositories"
	"foodgram/internal/services"
	"foodgram/internal/storage"
	"foodgram/pkg/blocklist"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testJWTSecret = "test_jwt_secret"
	publicURL     = "http://foodgram.test"
	pixelPNG      = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="
)

type testEnv struct {
	app         *fiber.App
	ingredients []models.Ingredient
}

// setupApp sets up a Fiber app for testing with in-memory SQLite and all handlers/services.
func setupApp(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	// Initialize Repositories
	userRepo := repositories.NewGORMUserRepository(db)
	followRepo := repositories.NewGORMFollowRepository(db)
	ingredientRepo := repositories.NewGORMIngredientRepository(db)
	recipeRepo := repositories.NewGORMRecipeRepository(db)
	relationRepo := repositories.NewGORMRelationRepository(db)
	images := storage.NewLocalStoreFs(afero.NewMemMapFs(), "/media")

	// Initialize Services
	projector := services.NewProjector(followRepo, relationRepo, images)
	authService := services.NewAuthService(userRepo, blocklist.NewMemory(), testJWTSecret, time.Hour)
	userService := services.NewUserService(userRepo, images, projector)
	followService := services.NewFollowService(userRepo, followRepo, recipeRepo, projector)
	ingredientService := services.NewIngredientService(ingredientRepo)
	recipeService := services.NewRecipeService(recipeRepo, ingredientRepo, images, projector, nil)
	relationService := services.NewRelationService(recipeRepo, relationRepo, projector)

	// Initialize Handlers
	validate := handlers.NewValidator()
	app := fiber.New()
	requireAuth := middleware.AuthRequired(authService)
	api := app.Group("/api", middleware.OptionalAuth(authService))
	handlers.NewAuthHandler(authService, validate).RegisterRoutes(api, requireAuth)
	handlers.NewUserHandler(userService, followService, validate, publicURL).RegisterRoutes(api, requireAuth)
	handlers.NewIngredientHandler(ingredientService).RegisterRoutes(api)
	recipeHandler := handlers.NewRecipeHandler(recipeService, relationService, validate, publicURL)
	recipeHandler.RegisterRoutes(api, requireAuth)
	recipeHandler.RegisterShortLinks(app)

	ingredients := []models.Ingredient{
		{Name: "Egg", MeasurementUnit: "pcs"},
		{Name: "Flour", MeasurementUnit: "g"},
		{Name: "Milk", MeasurementUnit: "ml"},
	}
	_, err = ingredientService.ImportIngredients(ingredients)
	require.NoError(t, err)

	return &testEnv{app: app, ingredients: ingredients}
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	resp, err := e.app.Test(req, -1) // -1 for no timeout
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

// signUp registers a user and returns its id and token.
func (e *testEnv) signUp(t *testing.T, username string) (string, string) {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":      username + "@example.com",
		"username":   username,
		"first_name": "Test",
		"last_name":  "User",
		"password":   "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var registered struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body, &registered))

	resp, body = e.do(t, http.MethodPost, "/api/auth/token/login", "", map[string]string{
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var login map[string]string
	require.NoError(t, json.Unmarshal(body, &login))
	require.NotEmpty(t, login["auth_token"])
	return registered.User.ID, login["auth_token"]
}

func (e *testEnv) recipeBody(amounts ...int) map[string]interface{} {
	ingredients := make([]map[string]interface{}, len(amounts))
	for i, amount := range amounts {
		ingredients[i] = map[string]interface{}{"id": e.ingredients[i].ID, "amount": amount}
	}
	return map[string]interface{}{
		"name":         "Pancakes",
		"image":        pixelPNG,
		"text":         "Mix and fry.",
		"cooking_time": 15,
		"ingredients":  ingredients,
	}
}

func (e *testEnv) createRecipe(t *testing.T, token string, body map[string]interface{}) services.RecipeView {
	t.Helper()
	resp, data := e.do(t, http.MethodPost, "/api/recipes", token, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	var view services.RecipeView
	require.NoError(t, json.Unmarshal(data, &view))
	return view
}

func TestAuthRegisterLoginLogout(t *testing.T) {
	env := setupApp(t)
	_, token := env.signUp(t, "testuser")

	// Duplicate registration
	resp, _ := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "testuser@example.com", "username": "testuser",
		"first_name": "A", "last_name": "B", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Username outside the allowed alphabet
	resp, _ = env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "other@example.com", "username": "bad name!",
		"first_name": "A", "last_name": "B", "password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Wrong password
	resp, _ = env.do(t, http.MethodPost, "/api/auth/token/login", "", map[string]string{
		"email": "testuser@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := env.do(t, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me services.UserView
	require.NoError(t, json.Unmarshal(body, &me))
	assert.Equal(t, "testuser", me.Username)
	assert.False(t, me.IsSubscribed)

	resp, _ = env.do(t, http.MethodPost, "/api/auth/token/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSetPasswordAndAvatar(t *testing.T) {
	env := setupApp(t)
	_, token := env.signUp(t, "alice")

	resp, _ := env.do(t, http.MethodPost, "/api/users/set_password", token, map[string]string{
		"current_password": "not-my-password", "new_password": "newpassword456",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/users/set_password", token, map[string]string{
		"current_password": "password123", "new_password": "newpassword456",
	})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/auth/token/login", "", map[string]string{
		"email": "alice@example.com", "password": "newpassword456",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := env.do(t, http.MethodPut, "/api/users/me/avatar", token, map[string]string{"avatar": pixelPNG})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var avatar map[string]string
	require.NoError(t, json.Unmarshal(body, &avatar))
	assert.Regexp(t, `^http://foodgram\.test/media/avatars/.+\.png$`, avatar["avatar"])

	resp, _ = env.do(t, http.MethodPut, "/api/users/me/avatar", token, map[string]string{"avatar": "not an image"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodDelete, "/api/users/me/avatar", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestIngredientEndpoints(t *testing.T) {
	env := setupApp(t)

	resp, body := env.do(t, http.MethodGet, "/api/ingredients?name=fl", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var found []models.Ingredient
	require.NoError(t, json.Unmarshal(body, &found))
	require.Len(t, found, 1)
	assert.Equal(t, "Flour", found[0].Name)

	resp, _ = env.do(t, http.MethodGet, "/api/ingredients/"+env.ingredients[0].ID, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/ingredients/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRecipeLifecycle(t *testing.T) {
	env := setupApp(t)
	_, alice := env.signUp(t, "alice")
	_, bob := env.signUp(t, "bob")

	recipe := env.createRecipe(t, alice, env.recipeBody(2, 200))
	assert.Len(t, recipe.Ingredients, 2)
	assert.Equal(t, "alice", recipe.Author.Username)
	assert.Regexp(t, `^http://foodgram\.test/media/recipes/`, recipe.Image)

	// Anonymous reads
	resp, body := env.do(t, http.MethodGet, "/api/recipes", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []services.RecipeView
	require.NoError(t, json.Unmarshal(body, &listed))
	assert.Len(t, listed, 1)

	// Only the author may change the recipe
	resp, _ = env.do(t, http.MethodPatch, "/api/recipes/"+recipe.ID, bob, env.recipeBody(1))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = env.do(t, http.MethodDelete, "/api/recipes/"+recipe.ID, bob, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	update := env.recipeBody(3)
	update["name"] = "Omelette"
	delete(update, "image")
	resp, body = env.do(t, http.MethodPatch, "/api/recipes/"+recipe.ID, alice, update)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var updated services.RecipeView
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, "Omelette", updated.Name)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, 3, updated.Ingredients[0].Amount)
	assert.Equal(t, recipe.Image, updated.Image)

	// Short links
	resp, body = env.do(t, http.MethodGet, "/api/recipes/"+recipe.ID+"/get-link", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var link map[string]string
	require.NoError(t, json.Unmarshal(body, &link))
	assert.Equal(t, publicURL+"/s/"+recipe.ID, link["short-link"])

	resp, _ = env.do(t, http.MethodGet, "/s/"+recipe.ID, "", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/recipes/"+recipe.ID+"/", resp.Header.Get("Location"))

	resp, _ = env.do(t, http.MethodDelete, "/api/recipes/"+recipe.ID, alice, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = env.do(t, http.MethodGet, "/api/recipes/"+recipe.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = env.do(t, http.MethodGet, "/s/"+recipe.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRecipeValidation(t *testing.T) {
	env := setupApp(t)
	_, alice := env.signUp(t, "alice")

	empty := env.recipeBody()
	resp, _ := env.do(t, http.MethodPost, "/api/recipes", alice, empty)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	duplicate := env.recipeBody(1)
	duplicate["ingredients"] = []map[string]interface{}{
		{"id": env.ingredients[0].ID, "amount": 1},
		{"id": env.ingredients[0].ID, "amount": 2},
	}
	resp, _ = env.do(t, http.MethodPost, "/api/recipes", alice, duplicate)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	unknown := env.recipeBody(1)
	unknown["ingredients"] = []map[string]interface{}{{"id": "no-such-ingredient", "amount": 1}}
	resp, _ = env.do(t, http.MethodPost, "/api/recipes", alice, unknown)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	slow := env.recipeBody(1)
	slow["cooking_time"] = 0
	resp, _ = env.do(t, http.MethodPost, "/api/recipes", alice, slow)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := env.do(t, http.MethodGet, "/api/recipes", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []services.RecipeView
	require.NoError(t, json.Unmarshal(body, &listed))
	assert.Empty(t, listed)
}

func TestFavoritesAndShoppingCart(t *testing.T) {
	env := setupApp(t)
	_, alice := env.signUp(t, "alice")
	_, bob := env.signUp(t, "bob")

	pancakes := env.createRecipe(t, alice, env.recipeBody(2, 200))
	bread := env.recipeBody(1)
	bread["name"] = "Bread"
	bread["ingredients"] = []map[string]interface{}{
		{"id": env.ingredients[1].ID, "amount": 100},
		{"id": env.ingredients[2].ID, "amount": 50},
	}
	loaf := env.createRecipe(t, alice, bread)

	resp, body := env.do(t, http.MethodPost, "/api/recipes/"+pancakes.ID+"/favorite", bob, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var card services.RecipeShortView
	require.NoError(t, json.Unmarshal(body, &card))
	assert.Equal(t, pancakes.ID, card.ID)

	resp, _ = env.do(t, http.MethodPost, "/api/recipes/"+pancakes.ID+"/favorite", bob, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/recipes/missing/favorite", bob, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = env.do(t, http.MethodGet, "/api/recipes?is_favorited=1", bob, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var favorites []services.RecipeView
	require.NoError(t, json.Unmarshal(body, &favorites))
	require.Len(t, favorites, 1)
	assert.True(t, favorites[0].IsFavorited)

	// Anonymous viewers have no favorites
	resp, body = env.do(t, http.MethodGet, "/api/recipes?is_favorited=1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))

	resp, _ = env.do(t, http.MethodDelete, "/api/recipes/"+pancakes.ID+"/favorite", bob, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = env.do(t, http.MethodDelete, "/api/recipes/"+pancakes.ID+"/favorite", bob, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	for _, id := range []string{pancakes.ID, loaf.ID} {
		resp, _ = env.do(t, http.MethodPost, "/api/recipes/"+id+"/shopping_cart", bob, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, body = env.do(t, http.MethodGet, "/api/recipes/download_shopping_cart", bob, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "cart.txt")
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
	assert.Equal(t, "Egg (pcs) - 2\nFlour (g) - 300\nMilk (ml) - 50", string(body))

	// Alice's cart is empty
	resp, body = env.do(t, http.MethodGet, "/api/recipes/download_shopping_cart", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body)
}

func TestSubscriptions(t *testing.T) {
	env := setupApp(t)
	aliceID, alice := env.signUp(t, "alice")
	_, bob := env.signUp(t, "bob")

	env.createRecipe(t, alice, env.recipeBody(1))
	env.createRecipe(t, alice, env.recipeBody(2))
	env.createRecipe(t, alice, env.recipeBody(3))

	resp, body := env.do(t, http.MethodPost, "/api/users/"+aliceID+"/subscribe?recipes_limit=2", bob, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var sub services.SubscriptionView
	require.NoError(t, json.Unmarshal(body, &sub))
	assert.Equal(t, "alice", sub.Username)
	assert.True(t, sub.IsSubscribed)
	assert.Len(t, sub.Recipes, 2)
	assert.Equal(t, int64(3), sub.RecipesCount)

	resp, _ = env.do(t, http.MethodPost, "/api/users/"+aliceID+"/subscribe", bob, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/users/"+aliceID+"/subscribe", alice, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/users/missing/subscribe", bob, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = env.do(t, http.MethodGet, "/api/users/subscriptions", bob, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var subs []services.SubscriptionView
	require.NoError(t, json.Unmarshal(body, &subs))
	require.Len(t, subs, 1)
	assert.Len(t, subs[0].Recipes, 3)

	resp, body = env.do(t, http.MethodGet, "/api/users/"+aliceID, bob, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var profile services.UserView
	require.NoError(t, json.Unmarshal(body, &profile))
	assert.True(t, profile.IsSubscribed)

	resp, _ = env.do(t, http.MethodDelete, "/api/users/"+aliceID+"/subscribe", bob, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = env.do(t, http.MethodDelete, "/api/users/"+aliceID+"/subscribe", bob, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = env.do(t, http.MethodDelete, "/api/users/missing/subscribe", bob, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
