package ports

import (
	"context"

	"github.com/pressroom/blog-system/internal/core/domain"
)

// ListUsersInput carries the parameters for listing or searching users.
// Search, when non-empty, matches username/email/first/last name
// case-insensitively. Only active users are returned.
type ListUsersInput struct {
	Search string
	Page   int
	Limit  int
}

// UserRepository is the persistence contract for user accounts.
//
// Find* methods never return the password hash; the Credential* variants opt
// in to it explicitly for password verification paths.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error)
	CredentialByEmail(ctx context.Context, email string) (*domain.User, error)
	CredentialByID(ctx context.Context, id string) (*domain.User, error)
	// Update persists the mutable fields of user (profile, role, password
	// hash, active flag, last login).
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, input ListUsersInput) ([]domain.User, int64, error)
}
