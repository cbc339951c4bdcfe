package ports

import (
	"context"

	"github.com/pressroom/blog-system/internal/core/domain"
)

// UpdateProfileInput holds the fields a user may change on their own record.
// Nil pointers mean "leave unchanged".
type UpdateProfileInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
}

// UserPage is one page of users.
type UserPage struct {
	Users      []domain.User
	Pagination Pagination
}

// UserService defines the user-resource use cases.
type UserService interface {
	List(ctx context.Context, input ListUsersInput) (*UserPage, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*domain.User, error)
	UpdateRole(ctx context.Context, id, role string) (*domain.User, error)
	// Deactivate soft-deletes: the record stays, is_active flips to false.
	Deactivate(ctx context.Context, id string) error
	// Delete removes the record permanently.
	Delete(ctx context.Context, id string) error
}
