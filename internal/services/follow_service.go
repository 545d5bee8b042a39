package services

import (
	"errors"
	"fmt"

	"foodgram/internal/models"
	"foodgram/internal/repositories"
)

// FollowService manages subscriptions between users.
type FollowService struct {
	users     repositories.UserRepository
	follows   repositories.FollowRepository
	recipes   repositories.RecipeRepository
	projector *Projector
}

// NewFollowService creates a new FollowService.
func NewFollowService(users repositories.UserRepository, follows repositories.FollowRepository, recipes repositories.RecipeRepository, projector *Projector) *FollowService {
	return &FollowService{
		users:     users,
		follows:   follows,
		recipes:   recipes,
		projector: projector,
	}
}

// Subscribe makes viewer follow targetID and returns the new subscription.
func (s *FollowService) Subscribe(viewer Viewer, targetID string, recipeLimit int) (*SubscriptionView, error) {
	if viewer.UserID == targetID {
		return nil, ErrSelfReference
	}
	target, err := s.users.GetByID(targetID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, targetID)
		}
		return nil, err
	}

	err = s.follows.Create(&models.Follow{UserID: viewer.UserID, FollowingID: targetID})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("%w: already subscribed to %s", ErrConflict, target.Username)
		}
		return nil, err
	}

	views, err := s.subscriptions(viewer, []models.User{*target}, recipeLimit)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Unsubscribe removes the edge viewer -> targetID.
func (s *FollowService) Unsubscribe(viewer Viewer, targetID string) error {
	if _, err := s.users.GetByID(targetID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: user %s", ErrNotFound, targetID)
		}
		return err
	}
	if err := s.follows.Delete(viewer.UserID, targetID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: not subscribed to %s", ErrRelationNotFound, targetID)
		}
		return err
	}
	return nil
}

// ListFollowing returns everyone the viewer follows with up to recipeLimit
// of their newest recipes each. A recipeLimit of zero or less means all.
func (s *FollowService) ListFollowing(viewer Viewer, recipeLimit int) ([]SubscriptionView, error) {
	users, err := s.follows.ListFollowing(viewer.UserID)
	if err != nil {
		return nil, err
	}
	return s.subscriptions(viewer, users, recipeLimit)
}

func (s *FollowService) subscriptions(viewer Viewer, users []models.User, recipeLimit int) ([]SubscriptionView, error) {
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	counts, err := s.recipes.CountByAuthors(ids)
	if err != nil {
		return nil, err
	}
	profiles, err := s.projector.Users(viewer, users)
	if err != nil {
		return nil, err
	}

	views := make([]SubscriptionView, len(users))
	for i, u := range users {
		recipes, err := s.recipes.List(repositories.RecipeFilter{AuthorID: u.ID, Limit: recipeLimit})
		if err != nil {
			return nil, err
		}
		views[i] = SubscriptionView{
			UserView:     profiles[i],
			Recipes:      s.projector.ShortRecipes(viewer, recipes),
			RecipesCount: counts[u.ID],
		}
	}
	return views, nil
}
