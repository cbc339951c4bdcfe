package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/pressroom/blog-system/internal/api/metrics"
	"github.com/pressroom/blog-system/internal/core/domain"
	"github.com/pressroom/blog-system/internal/core/ports"
	"github.com/pressroom/blog-system/internal/core/token"
)

// AuthService implements registration, login, token refresh and password
// management over a user repository and the token codec.
type AuthService struct {
	users  ports.UserRepository
	tokens *token.Codec
	logger zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens *token.Codec, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

// Register creates a new account and issues both token kinds. The email
// collision is reported before the username one. The pre-insert existence
// check races with concurrent registrations; the unique indexes on email and
// username close that window, and the repository translates the duplicate-key
// rejection back into the same errors.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	existing, err := s.users.FindByEmailOrUsername(ctx, input.Email, input.Username)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if existing != nil {
		metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		if existing.Email == input.Email {
			return nil, domain.ErrEmailTaken
		}
		return nil, domain.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) || errors.Is(err, domain.ErrUsernameTaken) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		} else {
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	// A token failure here leaves the account created; there is no
	// compensation step.
	access, refresh, err := s.issuePair(created)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")

	return &ports.AuthResult{User: created, AccessToken: access, RefreshToken: refresh}, nil
}

// Login authenticates by email and password. A missing account and a wrong
// password return the identical error so callers cannot probe for accounts.
// The deactivation check runs before the password comparison. LastLogin is
// persisted before tokens are issued; a failed persist blocks issuance.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.CredentialByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if !user.IsActive {
		metrics.LoginsTotal.WithLabelValues("deactivated").Inc()
		return nil, domain.ErrAccountDeactivated
	}

	if !user.ComparePassword(password) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	user.LastLogin = &now
	user.UpdatedAt = now
	if err := s.users.Update(ctx, user); err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	access, refresh, err := s.issuePair(user)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")

	return &ports.AuthResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token. Expired,
// tampered, unknown-account and deactivated-account cases all collapse into
// ErrInvalidRefreshToken. The account's current role and active flag are
// re-read from the store, not trusted from the token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("invalid").Inc()
		return "", domain.ErrInvalidRefreshToken
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		metrics.TokenRefreshesTotal.WithLabelValues("invalid").Inc()
		return "", domain.ErrInvalidRefreshToken
	}

	access, err := s.tokens.Issue(user.ID, user.Role, token.KindAccess)
	if err != nil {
		return "", err
	}

	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()
	return access, nil
}

// ChangePassword replaces the stored hash after verifying the current
// password. The minimum length of the new password is enforced at the
// handler.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.CredentialByID(ctx, userID)
	if err != nil {
		return err
	}

	if !user.ComparePassword(currentPassword) {
		return domain.ErrIncorrectPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("password changed")
	return nil
}

// VerifyEmail validates the token and confirms the account exists. It
// records nothing: no field tracks verification state yet.
// TODO: persist a verified flag once the field lands in the user schema.
func (s *AuthService) VerifyEmail(ctx context.Context, tokenString string) error {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return domain.ErrInvalidVerificationToken
	}
	if _, err := s.users.FindByID(ctx, claims.UserID); err != nil {
		return domain.ErrInvalidVerificationToken
	}
	return nil
}

func (s *AuthService) issuePair(user *domain.User) (access, refresh string, err error) {
	access, err = s.tokens.Issue(user.ID, user.Role, token.KindAccess)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.tokens.Issue(user.ID, user.Role, token.KindRefresh)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
