package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"foodgram/internal/models"
	"foodgram/internal/repositories"
	"foodgram/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

const avatarDir = "avatars"

// UserService handles profile reads and profile mutations.
type UserService struct {
	users     repositories.UserRepository
	images    storage.ImageStore
	projector *Projector
}

// NewUserService creates a new UserService.
func NewUserService(users repositories.UserRepository, images storage.ImageStore, projector *Projector) *UserService {
	return &UserService{
		users:     users,
		images:    images,
		projector: projector,
	}
}

// GetUser returns the profile of id as seen by viewer.
func (s *UserService) GetUser(viewer Viewer, id string) (*UserView, error) {
	user, err := s.load(id)
	if err != nil {
		return nil, err
	}
	return s.projector.User(viewer, user)
}

// ListUsers returns every profile ordered by username.
func (s *UserService) ListUsers(viewer Viewer) ([]UserView, error) {
	users, err := s.users.GetAll()
	if err != nil {
		return nil, err
	}
	return s.projector.Users(viewer, users)
}

// SetPassword replaces the password of userID after checking the current one.
func (s *UserService) SetPassword(userID, currentPassword, newPassword string) error {
	user, err := s.load(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return validationError("current password is incorrect")
	}
	hashed, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	if err := s.users.Update(user); err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}
	return nil
}

// SetAvatar decodes payload, stores it and makes it the viewer's avatar.
// It returns the new avatar URL.
func (s *UserService) SetAvatar(ctx context.Context, viewer Viewer, payload string) (string, error) {
	user, err := s.load(viewer.UserID)
	if err != nil {
		return "", err
	}
	img, err := storage.DecodeImage(payload)
	if err != nil {
		return "", fmt.Errorf("%w: avatar: %v", ErrValidation, err)
	}
	ref, err := s.images.Save(ctx, avatarDir, img)
	if err != nil {
		return "", err
	}

	previous := user.Avatar
	user.Avatar = ref
	if err := s.users.Update(user); err != nil {
		s.discard(ctx, ref)
		return "", fmt.Errorf("failed to set avatar: %w", err)
	}
	s.discard(ctx, previous)
	return s.projector.MediaURL(viewer, ref), nil
}

// DeleteAvatar clears the avatar of userID. Having no avatar is not an error.
func (s *UserService) DeleteAvatar(ctx context.Context, userID string) error {
	user, err := s.load(userID)
	if err != nil {
		return err
	}
	if user.Avatar == "" {
		return nil
	}
	previous := user.Avatar
	user.Avatar = ""
	if err := s.users.Update(user); err != nil {
		return fmt.Errorf("failed to delete avatar: %w", err)
	}
	s.discard(ctx, previous)
	return nil
}

func (s *UserService) load(id string) (*models.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) discard(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := s.images.Delete(ctx, ref); err != nil {
		log.Printf("Warning: failed to delete image %s: %v", ref, err)
	}
}
