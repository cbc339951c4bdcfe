package ports

import (
	"context"

	"github.com/pressroom/blog-system/internal/core/domain"
)

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

// AuthService defines the authentication use cases.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Refresh verifies a refresh token and mints a new access token. The
	// refresh token itself is not rotated.
	Refresh(ctx context.Context, refreshToken string) (string, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	// VerifyEmail checks the token and the referenced account but records
	// nothing: there is no verification-state field yet.
	VerifyEmail(ctx context.Context, token string) error
}
