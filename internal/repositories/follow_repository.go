package repositories

import "foodgram/internal/models"

// FollowRepository defines the interface for subscription edges.
type FollowRepository interface {
	Create(follow *models.Follow) error
	Delete(userID, followingID string) error
	// FollowedAmong returns the subset of candidateIDs that userID follows.
	FollowedAmong(userID string, candidateIDs []string) (map[string]bool, error)
	// ListFollowing returns the users followed by userID ordered by username.
	ListFollowing(userID string) ([]models.User, error)
}
