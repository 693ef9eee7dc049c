package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"taskboard/internal/models"
	"taskboard/internal/repository"
)

var ErrSelfDeactivate = errors.New("cannot deactivate your own account")

type UserService struct {
	users repository.Users
}

func NewUserService(users repository.Users) *UserService {
	return &UserService{users: users}
}

var _ Users = (*UserService)(nil)

func (s *UserService) GetByID(ctx context.Context, id int) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UpdateProfile applies the provided profile changes to the user's own
// account. An email change re-checks uniqueness (advisory; storage is the
// authority).
func (s *UserService) UpdateProfile(ctx context.Context, userID int, p ProfileUpdate) (*models.User, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	changed := false
	if p.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*p.Email))
		if email != u.Email {
			if existing, err := s.users.GetByEmail(ctx, email); err != nil {
				return nil, err
			} else if existing != nil {
				return nil, repository.ErrEmailTaken
			}
			u.Email = email
			changed = true
		}
	}
	if p.FullName != nil {
		u.FullName = strings.TrimSpace(*p.FullName)
		changed = true
	}
	if !changed {
		return u, nil
	}

	now := time.Now().UTC()
	u.UpdatedAt = &now
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// SetActive toggles another account's active flag. Deactivating your own
// account is rejected.
func (s *UserService) SetActive(ctx context.Context, actorID, userID int, active bool) (*models.User, error) {
	if !active && actorID == userID {
		return nil, ErrSelfDeactivate
	}

	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.IsActive == active {
		return u, nil
	}

	now := time.Now().UTC()
	u.IsActive = active
	u.UpdatedAt = &now
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
