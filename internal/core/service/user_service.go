package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/pressroom/blog-system/internal/core/domain"
	"github.com/pressroom/blog-system/internal/core/ports"
)

// UserService implements the user-resource use cases.
type UserService struct {
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// List returns a page of active users, newest first. A non-empty Search term
// narrows the page to matching username/email/first/last name.
func (s *UserService) List(ctx context.Context, input ports.ListUsersInput) (*ports.UserPage, error) {
	input.Page, input.Limit = ports.NormalizePage(input.Page, input.Limit)

	users, total, err := s.users.List(ctx, input)
	if err != nil {
		return nil, err
	}

	return &ports.UserPage{
		Users:      users,
		Pagination: ports.NewPagination(input.Page, input.Limit, total),
	}, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// UpdateProfile applies the allow-listed profile fields and persists.
func (s *UserService) UpdateProfile(ctx context.Context, id string, input ports.UpdateProfileInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateRole(ctx context.Context, id, role string) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Role = role
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", id).Str("role", role).Msg("user role updated")
	return user, nil
}

// Deactivate soft-deletes the account. Existing tokens keep verifying
// cryptographically, but every login and refresh re-checks is_active.
func (s *UserService) Deactivate(ctx context.Context, id string) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	user.IsActive = false
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", id).Msg("user deactivated")
	return nil
}

// Delete removes the record permanently.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Warn().Str("user_id", id).Msg("user permanently deleted")
	return nil
}
