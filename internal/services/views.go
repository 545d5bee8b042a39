package services

import (
	"fmt"
	"strings"

	"foodgram/internal/models"
	"foodgram/internal/repositories"
	"foodgram/internal/storage"
)

// Viewer identifies who a projection is rendered for. An empty UserID is an
// anonymous caller. BaseURL turns relative media references into absolute URLs.
type Viewer struct {
	UserID  string
	BaseURL string
}

// Authenticated reports whether the viewer is a known user.
func (v Viewer) Authenticated() bool {
	return v.UserID != ""
}

// UserView is the public profile of a user.
type UserView struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
	Avatar       string `json:"avatar"`
}

// RecipeIngredientView is one ingredient line of a recipe.
type RecipeIngredientView struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeView is the full representation of a recipe.
type RecipeView struct {
	ID               string                 `json:"id"`
	Author           UserView               `json:"author"`
	Ingredients      []RecipeIngredientView `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	Name             string                 `json:"name"`
	Image            string                 `json:"image"`
	Text             string                 `json:"text"`
	CookingTime      int                    `json:"cooking_time"`
}

// RecipeShortView is the compact recipe card used by bookmarks and subscriptions.
type RecipeShortView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// SubscriptionView is a followed author with a preview of their recipes.
type SubscriptionView struct {
	UserView
	Recipes      []RecipeShortView `json:"recipes"`
	RecipesCount int64             `json:"recipes_count"`
}

// Projector renders models into viewer dependent views.
type Projector struct {
	follows   repositories.FollowRepository
	relations repositories.RelationRepository
	images    storage.ImageStore
}

// NewProjector creates a new Projector.
func NewProjector(follows repositories.FollowRepository, relations repositories.RelationRepository, images storage.ImageStore) *Projector {
	return &Projector{
		follows:   follows,
		relations: relations,
		images:    images,
	}
}

// MediaURL resolves a storage reference for the viewer.
func (p *Projector) MediaURL(viewer Viewer, ref string) string {
	u := p.images.URL(ref)
	if strings.HasPrefix(u, "/") {
		return strings.TrimRight(viewer.BaseURL, "/") + u
	}
	return u
}

// Users renders users, marking the ones the viewer follows.
func (p *Projector) Users(viewer Viewer, users []models.User) ([]UserView, error) {
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	followed, err := p.follows.FollowedAmong(viewer.UserID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to project users: %w", err)
	}

	views := make([]UserView, len(users))
	for i := range users {
		views[i] = p.user(viewer, &users[i], followed[users[i].ID])
	}
	return views, nil
}

// User renders a single user.
func (p *Projector) User(viewer Viewer, user *models.User) (*UserView, error) {
	views, err := p.Users(viewer, []models.User{*user})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (p *Projector) user(viewer Viewer, user *models.User, subscribed bool) UserView {
	return UserView{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: subscribed,
		Avatar:       p.MediaURL(viewer, user.Avatar),
	}
}

// Recipes renders recipes with the viewer's bookmark and subscription flags.
func (p *Projector) Recipes(viewer Viewer, recipes []models.Recipe) ([]RecipeView, error) {
	recipeIDs := make([]string, len(recipes))
	authorIDs := make([]string, 0, len(recipes))
	seenAuthors := make(map[string]bool, len(recipes))
	for i, r := range recipes {
		recipeIDs[i] = r.ID
		if !seenAuthors[r.AuthorID] {
			seenAuthors[r.AuthorID] = true
			authorIDs = append(authorIDs, r.AuthorID)
		}
	}

	favorited, err := p.relations.RecipesAmong(viewer.UserID, models.RelationFavorite, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to project recipes: %w", err)
	}
	carted, err := p.relations.RecipesAmong(viewer.UserID, models.RelationShoppingCart, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to project recipes: %w", err)
	}
	followed, err := p.follows.FollowedAmong(viewer.UserID, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to project recipes: %w", err)
	}

	views := make([]RecipeView, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		ingredients := make([]RecipeIngredientView, len(r.Ingredients))
		for j, row := range r.Ingredients {
			ingredients[j] = RecipeIngredientView{
				ID:              row.IngredientID,
				Name:            row.Ingredient.Name,
				MeasurementUnit: row.Ingredient.MeasurementUnit,
				Amount:          row.Amount,
			}
		}
		views[i] = RecipeView{
			ID:               r.ID,
			Author:           p.user(viewer, &r.Author, followed[r.AuthorID]),
			Ingredients:      ingredients,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: carted[r.ID],
			Name:             r.Name,
			Image:            p.MediaURL(viewer, r.Image),
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		}
	}
	return views, nil
}

// Recipe renders a single recipe.
func (p *Projector) Recipe(viewer Viewer, recipe *models.Recipe) (*RecipeView, error) {
	views, err := p.Recipes(viewer, []models.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ShortRecipes renders recipe cards.
func (p *Projector) ShortRecipes(viewer Viewer, recipes []models.Recipe) []RecipeShortView {
	views := make([]RecipeShortView, len(recipes))
	for i, r := range recipes {
		views[i] = RecipeShortView{
			ID:          r.ID,
			Name:        r.Name,
			Image:       p.MediaURL(viewer, r.Image),
			CookingTime: r.CookingTime,
		}
	}
	return views
}
