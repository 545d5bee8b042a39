package repositories

import (
	"fmt"

	"foodgram/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMFollowRepository is a GORM implementation of FollowRepository.
type GORMFollowRepository struct {
	db *gorm.DB
}

// NewGORMFollowRepository creates a new instance of GORMFollowRepository.
func NewGORMFollowRepository(db *gorm.DB) *GORMFollowRepository {
	return &GORMFollowRepository{db: db}
}

// Create inserts a subscription edge. A repeated edge yields ErrDuplicate.
func (r *GORMFollowRepository) Create(follow *models.Follow) error {
	if follow.ID == "" {
		follow.ID = uuid.New().String()
	}
	if err := r.db.Omit("User", "Following").Create(follow).Error; err != nil {
		return fmt.Errorf("failed to create follow: %w", translate(err))
	}
	return nil
}

// Delete removes the edge userID -> followingID.
func (r *GORMFollowRepository) Delete(userID, followingID string) error {
	res := r.db.Where("user_id = ? AND following_id = ?", userID, followingID).Delete(&models.Follow{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete follow: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("follow %s -> %s: %w", userID, followingID, ErrNotFound)
	}
	return nil
}

// FollowedAmong returns which of candidateIDs are followed by userID.
func (r *GORMFollowRepository) FollowedAmong(userID string, candidateIDs []string) (map[string]bool, error) {
	result := make(map[string]bool, len(candidateIDs))
	if userID == "" || len(candidateIDs) == 0 {
		return result, nil
	}
	var ids []string
	err := r.db.Model(&models.Follow{}).
		Where("user_id = ? AND following_id IN ?", userID, candidateIDs).
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load follows for %s: %w", userID, err)
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

// ListFollowing returns the users followed by userID ordered by username.
func (r *GORMFollowRepository) ListFollowing(userID string) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.user_id = ?", userID).
		Order("users.username").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list following for %s: %w", userID, err)
	}
	return users, nil
}
